package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"shortwatch/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// ReportDate builds a UTC report date n days after the fixture epoch.
// All short-position fixtures share this epoch so windowing tests can
// reason in day offsets.
func ReportDate(daysAfterEpoch int) time.Time {
	epoch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return epoch.AddDate(0, 0, daysAfterEpoch)
}

// CreateShortPosition inserts one disclosure row.
func CreateShortPosition(t *testing.T, db *gorm.DB, code string, date time.Time, percent float64) *models.ShortPosition {
	t.Helper()

	sp := &models.ShortPosition{
		StockCode:       code,
		StockName:       code + " Ltd",
		ReportDate:      date,
		PercentOfShares: percent,
		SharesShort:     int64(percent * 1_000_000),
		TotalShares:     100_000_000,
	}
	if err := db.Create(sp).Error; err != nil {
		t.Fatalf("failed to create short position: %v", err)
	}
	return sp
}

// CreateDailySeries inserts one disclosure per day for count days,
// ending on the given date, all at the same percent value.
func CreateDailySeries(t *testing.T, db *gorm.DB, code string, end time.Time, count int, percent float64) {
	t.Helper()

	for i := 0; i < count; i++ {
		CreateShortPosition(t, db, code, end.AddDate(0, 0, -i), percent)
	}
}

// CreateInstrument inserts a metadata row with a unique code.
func CreateInstrument(t *testing.T, db *gorm.DB) *models.Instrument {
	t.Helper()
	code := fmt.Sprintf("TST%04d", nextID())
	return CreateInstrumentWithParams(t, db, code, code+" Holdings", "Technology")
}

// CreateInstrumentWithParams inserts a metadata row.
func CreateInstrumentWithParams(t *testing.T, db *gorm.DB, code, name, industry string) *models.Instrument {
	t.Helper()

	inst := &models.Instrument{
		StockCode:        code,
		CompanyName:      name,
		Industry:         industry,
		EnrichmentStatus: models.EnrichmentCompleted,
	}
	if err := db.Create(inst).Error; err != nil {
		t.Fatalf("failed to create instrument: %v", err)
	}
	return inst
}

// CreateTreemapAggregate inserts one pre-ranked materialized row.
func CreateTreemapAggregate(t *testing.T, db *gorm.DB, period, industry, code string, position float64, positionRank int, change *float64, changeRank *int) *models.TreemapAggregate {
	t.Helper()

	agg := &models.TreemapAggregate{
		Period:           period,
		StockCode:        code,
		Industry:         industry,
		ShortPosition:    position,
		PercentageChange: change,
		PositionRank:     positionRank,
		ChangeRank:       changeRank,
		RefreshedAt:      time.Now(),
	}
	if err := db.Create(agg).Error; err != nil {
		t.Fatalf("failed to create treemap aggregate: %v", err)
	}
	return agg
}
