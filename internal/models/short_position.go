package models

import "time"

// ShortPosition is one regulator-published short disclosure for a stock
// on a given report date. Rows are written by the ingestion pipeline and
// are immutable afterwards; the API only reads them.
type ShortPosition struct {
	Base
	StockCode       string    `gorm:"not null;index;uniqueIndex:uq_short_positions_code_date" json:"stock_code"`
	StockName       string    `gorm:"not null" json:"stock_name"`
	ReportDate      time.Time `gorm:"not null;index;uniqueIndex:uq_short_positions_code_date" json:"report_date"`
	PercentOfShares float64   `gorm:"not null" json:"percent_of_shares"`
	SharesShort     int64     `json:"shares_short"`
	TotalShares     int64     `json:"total_shares"`
}
