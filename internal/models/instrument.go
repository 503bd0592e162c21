package models

// EnrichmentStatus tracks how far the async metadata pipeline has
// gotten with a stock. The API never advances it, only reads it.
type EnrichmentStatus string

const (
	EnrichmentPending   EnrichmentStatus = "pending"
	EnrichmentRunning   EnrichmentStatus = "running"
	EnrichmentCompleted EnrichmentStatus = "completed"
	EnrichmentFailed    EnrichmentStatus = "failed"
)

// Instrument holds company-level metadata for a listed stock. The JSON
// text columns are side-channels written independently by the
// enrichment pipeline and the key-metrics sync; both are treated as
// untrusted, partially populated input.
type Instrument struct {
	Base
	StockCode        string           `gorm:"not null;uniqueIndex" json:"stock_code"`
	CompanyName      string           `gorm:"not null" json:"company_name"`
	Industry         string           `gorm:"index" json:"industry,omitempty"`
	Sector           string           `json:"sector,omitempty"`
	LogoURL          string           `json:"logo_url,omitempty"`
	Website          string           `json:"website,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	Tags             string           `gorm:"type:text" json:"-"`
	EnrichmentStatus EnrichmentStatus `gorm:"default:'pending'" json:"enrichment_status"`

	// JSON blobs, collapsed to absent fields on read when empty.
	FinancialStatements string `gorm:"type:text" json:"-"`
	KeyMetrics          string `gorm:"type:text" json:"-"`
	KeyPeople           string `gorm:"type:text" json:"-"`
	FinancialReports    string `gorm:"type:text" json:"-"`
	SocialLinks         string `gorm:"type:text" json:"-"`
	RiskFactors         string `gorm:"type:text" json:"-"`
}
