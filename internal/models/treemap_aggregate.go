package models

import "time"

// TreemapAggregate is one pre-ranked row of the materialized treemap
// table. Rows are refreshed out-of-band per period token; when the
// table is missing or the refresh job has never run, the treemap
// service recomputes the same ranking from raw short positions.
type TreemapAggregate struct {
	Base
	Period           string    `gorm:"not null;index;uniqueIndex:uq_treemap_period_code" json:"period"`
	StockCode        string    `gorm:"not null;uniqueIndex:uq_treemap_period_code" json:"stock_code"`
	Industry         string    `gorm:"not null;index" json:"industry"`
	ShortPosition    float64   `gorm:"not null" json:"short_position"`
	PercentageChange *float64  `json:"percentage_change,omitempty"`
	PositionRank     int       `gorm:"not null" json:"position_rank"`
	ChangeRank       *int      `json:"change_rank,omitempty"`
	RefreshedAt      time.Time `json:"refreshed_at"`
}
