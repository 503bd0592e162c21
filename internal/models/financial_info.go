package models

import "encoding/json"

// FinancialInfo is the merged point-in-time fundamentals record served
// on stock detail pages. Zero-valued fields mean "not available"; the
// rendering layer shows an explicit empty state for them.
type FinancialInfo struct {
	MarketCap     float64 `json:"market_cap,omitempty"`
	CurrentPrice  float64 `json:"current_price,omitempty"`
	PERatio       float64 `json:"pe_ratio,omitempty"`
	EPS           float64 `json:"eps,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
	Beta          float64 `json:"beta,omitempty"`
	Week52High    float64 `json:"week_52_high,omitempty"`
	Week52Low     float64 `json:"week_52_low,omitempty"`
	Volume        float64 `json:"volume,omitempty"`
	EmployeeCount int64   `json:"employee_count,omitempty"`
	Sector        string  `json:"sector,omitempty"`
	Industry      string  `json:"industry,omitempty"`
}

// FinancialStatements is the authoritative side-channel written by the
// enrichment pipeline. Annual and Quarterly are opaque report payloads
// passed through to the renderer.
type FinancialStatements struct {
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Annual    json.RawMessage `json:"annual,omitempty"`
	Quarterly json.RawMessage `json:"quarterly,omitempty"`
	Info      *FinancialInfo  `json:"info,omitempty"`
}

// KeyPerson is a named officer or director derived from the key_people blob.
type KeyPerson struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// FinancialReport is one published filing reference derived from the
// financial_reports blob.
type FinancialReport struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Date  string `json:"date,omitempty"`
}
