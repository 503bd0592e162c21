package services

import (
	"context"
	"time"

	"shortwatch/internal/models"
	"shortwatch/internal/period"
)

// ViewMode selects the treemap ranking metric.
type ViewMode string

const (
	ViewCurrentChange    ViewMode = "CURRENT_CHANGE"
	ViewPercentageChange ViewMode = "PERCENTAGE_CHANGE"
)

// SeriesPoint is one dated short-position observation.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// StockSeries is the windowed series for one stock, with the extreme
// points precomputed for the chart layer.
type StockSeries struct {
	StockCode string        `json:"stock_code"`
	StockName string        `json:"stock_name"`
	Points    []SeriesPoint `json:"points"`
	Latest    float64       `json:"latest"`
	Min       SeriesPoint   `json:"min"`
	Max       SeriesPoint   `json:"max"`
}

// TopSeriesResult is one page of ranked series. NextOffset advances by
// the number of ranking candidates considered, not the number of
// series emitted, so paging stays stable when short series are
// filtered out.
type TopSeriesResult struct {
	Series     []StockSeries `json:"series"`
	NextOffset int           `json:"next_offset"`
}

// TreemapStock is one ranked entry inside an industry bucket.
type TreemapStock struct {
	Industry  string  `json:"industry"`
	StockCode string  `json:"stock_code"`
	Value     float64 `json:"value"`
}

// TreemapResult holds the flattened industry grouping. Every industry
// listed has at least one stock entry and vice versa.
type TreemapResult struct {
	Industries []string       `json:"industries"`
	Stocks     []TreemapStock `json:"stocks"`
}

// InstrumentSummary is one search hit.
type InstrumentSummary struct {
	StockCode   string `json:"stock_code"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	Priority    int    `json:"priority"`
}

// InstrumentDetail is the full stock page payload. Absent nested
// structures mean the pipeline has not produced them (or produced
// well-formed empty ones; the two are deliberately indistinguishable).
type InstrumentDetail struct {
	StockCode        string                      `json:"stock_code"`
	CompanyName      string                      `json:"company_name"`
	Industry         string                      `json:"industry,omitempty"`
	Sector           string                      `json:"sector,omitempty"`
	LogoURL          string                      `json:"logo_url,omitempty"`
	Website          string                      `json:"website,omitempty"`
	Summary          string                      `json:"summary,omitempty"`
	Tags             []string                    `json:"tags,omitempty"`
	EnrichmentStatus models.EnrichmentStatus     `json:"enrichment_status"`
	FinancialInfo    *models.FinancialInfo       `json:"financial_info,omitempty"`
	Statements       *models.FinancialStatements `json:"financial_statements,omitempty"`
	KeyPeople        []models.KeyPerson          `json:"key_people,omitempty"`
	FinancialReports []models.FinancialReport    `json:"financial_reports,omitempty"`
	SocialLinks      map[string]string           `json:"social_links,omitempty"`
	RiskFactors      []string                    `json:"risk_factors,omitempty"`
}

// ShortPositionServicer defines the contract for time-series ranking.
type ShortPositionServicer interface {
	GetTopSeries(ctx context.Context, limit, offset int, p period.Period) (*TopSeriesResult, error)
}

// TreemapServicer defines the contract for industry treemap rankings.
type TreemapServicer interface {
	GetTreemap(ctx context.Context, limit int, p period.Period, mode ViewMode) (*TreemapResult, error)
}

// InstrumentServicer defines the contract for search and detail reads.
type InstrumentServicer interface {
	Search(ctx context.Context, query string, limit int) ([]InstrumentSummary, error)
	GetInstrumentDetail(ctx context.Context, code string) (*InstrumentDetail, error)
}
