package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "shortwatch/internal/errors"
	"shortwatch/internal/models"
	"shortwatch/internal/pagination"
	"shortwatch/internal/period"
)

// minSeriesPoints is the smallest window series worth charting. Stocks
// with fewer in-window reports are dropped from the page silently, so a
// page can come back shorter than the requested limit.
const minSeriesPoints = 10

// shortPositionService handles time-series ranking over the raw
// regulator reports.
type shortPositionService struct {
	db *gorm.DB
}

// NewShortPositionService creates a new ShortPositionServicer.
func NewShortPositionService(db *gorm.DB) ShortPositionServicer {
	return &shortPositionService{db: db}
}

type candidateRow struct {
	StockCode       string
	StockName       string
	PercentOfShares float64
}

type pointRow struct {
	ReportDate      time.Time
	PercentOfShares float64
}

// GetTopSeries returns one page of the highest currently-shorted
// stocks with their windowed series. Ranking only considers stocks
// that reported on the dataset's latest report date; anything older
// is treated as delisted.
func (s *shortPositionService) GetTopSeries(ctx context.Context, limit, offset int, p period.Period) (*TopSeriesResult, error) {
	page := pagination.LimitOffset{Limit: limit, Offset: offset}
	page.Defaults()

	latest, ok, err := latestReportDate(ctx, s.db)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return &TopSeriesResult{Series: []StockSeries{}, NextOffset: page.Offset}, nil
	}

	q := topCandidatesQuery(latest, page.Limit, page.Offset)
	var candidates []candidateRow
	if err := s.db.WithContext(ctx).Raw(q.SQL, q.Args...).Scan(&candidates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	from := latest.Add(-p.Lookback())
	series := make([]StockSeries, 0, len(candidates))
	for _, c := range candidates {
		pq := seriesPointsQuery(c.StockCode, from, latest)
		var rows []pointRow
		if err := s.db.WithContext(ctx).Raw(pq.SQL, pq.Args...).Scan(&rows).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(rows) < minSeriesPoints {
			continue
		}
		series = append(series, buildSeries(c, rows))
	}

	return &TopSeriesResult{
		Series:     series,
		NextOffset: page.Offset + len(candidates),
	}, nil
}

// buildSeries assembles the ordered points and tracks the extreme
// points (the whole point, not just the value) in the same pass.
func buildSeries(c candidateRow, rows []pointRow) StockSeries {
	points := make([]SeriesPoint, len(rows))
	minPt := SeriesPoint{Date: rows[0].ReportDate, Value: rows[0].PercentOfShares}
	maxPt := minPt
	for i, r := range rows {
		pt := SeriesPoint{Date: r.ReportDate, Value: r.PercentOfShares}
		points[i] = pt
		if pt.Value < minPt.Value {
			minPt = pt
		}
		if pt.Value > maxPt.Value {
			maxPt = pt
		}
	}
	return StockSeries{
		StockCode: c.StockCode,
		StockName: c.StockName,
		Points:    points,
		Latest:    c.PercentOfShares,
		Min:       minPt,
		Max:       maxPt,
	}
}

// latestReportDate returns the dataset's global latest report date.
// The second return is false when no reports have been ingested yet.
func latestReportDate(ctx context.Context, db *gorm.DB) (time.Time, bool, error) {
	var sp models.ShortPosition
	err := db.WithContext(ctx).Order("report_date DESC").First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return sp.ReportDate, true, nil
}
