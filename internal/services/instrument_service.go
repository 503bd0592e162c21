package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "shortwatch/internal/errors"
	"shortwatch/internal/models"
	"shortwatch/internal/pagination"
)

// lookupTimeout bounds detail and search round trips. Expiry surfaces
// as a distinct timeout error, never as not-found or a silent partial
// result.
const lookupTimeout = 5 * time.Second

// storeCapabilities describes which optional legacy columns the
// deployed schema carries. Probed once at construction and passed by
// value into the query builder; callers never see schema drift.
type storeCapabilities struct {
	HasLegacyLogoColumn bool
}

// instrumentService handles stock metadata reads: search and the
// detail page assembly.
type instrumentService struct {
	db      *gorm.DB
	caps    storeCapabilities
	timeout time.Duration
}

// NewInstrumentService creates a new InstrumentServicer with the
// default lookup deadline, probing the schema for optional legacy
// columns.
func NewInstrumentService(db *gorm.DB) InstrumentServicer {
	return NewInstrumentServiceWithTimeout(db, lookupTimeout)
}

// NewInstrumentServiceWithTimeout creates a new InstrumentServicer
// with a custom per-lookup deadline.
func NewInstrumentServiceWithTimeout(db *gorm.DB, timeout time.Duration) InstrumentServicer {
	if timeout <= 0 {
		timeout = lookupTimeout
	}
	return &instrumentService{
		db:      db,
		caps:    probeCapabilities(db),
		timeout: timeout,
	}
}

func probeCapabilities(db *gorm.DB) storeCapabilities {
	return storeCapabilities{
		HasLegacyLogoColumn: db.Migrator().HasColumn(&models.Instrument{}, "external_logo_url"),
	}
}

type instrumentRow struct {
	StockCode           string
	CompanyName         string
	Industry            string
	Sector              string
	LogoURL             string
	Website             string
	Summary             string
	Tags                string
	EnrichmentStatus    string
	FinancialStatements string
	KeyMetrics          string
	KeyPeople           string
	FinancialReports    string
	SocialLinks         string
	RiskFactors         string
}

// GetInstrumentDetail returns the full stock page payload, merging the
// two financial side-channels and deriving the nested structures from
// their JSON blobs.
func (s *instrumentService) GetInstrumentDetail(ctx context.Context, code string) (*InstrumentDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Stock code is required")
	}

	q := instrumentDetailQuery(s.caps, code)
	var row instrumentRow
	result := s.db.WithContext(ctx).Raw(q.SQL, q.Args...).Scan(&row)
	if result.Error != nil {
		if errors.Is(result.Error, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.ErrLookupTimeout, result.Error)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrStockNotFound
	}

	detail := &InstrumentDetail{
		StockCode:        row.StockCode,
		CompanyName:      row.CompanyName,
		Industry:         row.Industry,
		Sector:           row.Sector,
		LogoURL:          row.LogoURL,
		Website:          row.Website,
		Summary:          row.Summary,
		EnrichmentStatus: models.EnrichmentStatus(row.EnrichmentStatus),
	}

	decodeBlob(row.Tags, &detail.Tags)
	if len(detail.Tags) == 0 {
		detail.Tags = nil
	}

	var statements models.FinancialStatements
	var info *models.FinancialInfo
	if !emptyJSONBlob(row.FinancialStatements) {
		if err := json.Unmarshal([]byte(row.FinancialStatements), &statements); err == nil {
			info = statements.Info
			statements.Info = nil
			detail.Statements = &statements
		}
	}

	var keyMetrics map[string]interface{}
	decodeBlob(row.KeyMetrics, &keyMetrics)
	detail.FinancialInfo = MergeKeyMetrics(keyMetrics, info)

	decodeBlob(row.KeyPeople, &detail.KeyPeople)
	if len(detail.KeyPeople) == 0 {
		detail.KeyPeople = nil
	}
	decodeBlob(row.FinancialReports, &detail.FinancialReports)
	if len(detail.FinancialReports) == 0 {
		detail.FinancialReports = nil
	}
	decodeBlob(row.SocialLinks, &detail.SocialLinks)
	if len(detail.SocialLinks) == 0 {
		detail.SocialLinks = nil
	}
	decodeBlob(row.RiskFactors, &detail.RiskFactors)
	if len(detail.RiskFactors) == 0 {
		detail.RiskFactors = nil
	}

	return detail, nil
}

// Search resolves a free-text query against three match tiers: exact
// code, partial code, and company-name substring. The tiers run
// concurrently under one deadline; results are deduplicated keeping
// each stock's highest-priority hit.
func (s *instrumentService) Search(ctx context.Context, query string, limit int) ([]InstrumentSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []InstrumentSummary{}, nil
	}
	page := pagination.LimitOffset{Limit: limit}
	page.Defaults()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	upper := strings.ToUpper(query)
	var exact, partial, byName []models.Instrument

	// Each tier fetches at most one page, ordered by code so the
	// cross-tier dedup below is deterministic.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("stock_code = ?", upper).
			Order("stock_code ASC").
			Scopes(pagination.Paginate(page)).
			Find(&exact).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("UPPER(stock_code) LIKE ? AND stock_code <> ?", "%"+upper+"%", upper).
			Order("stock_code ASC").
			Scopes(pagination.Paginate(page)).
			Find(&partial).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("UPPER(company_name) LIKE ?", "%"+upper+"%").
			Order("stock_code ASC").
			Scopes(pagination.Paginate(page)).
			Find(&byName).Error
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.ErrSearchTimeout, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	results := []InstrumentSummary{}
	seen := map[string]bool{}
	for priority, tier := range [][]models.Instrument{exact, partial, byName} {
		for _, inst := range tier {
			if seen[inst.StockCode] {
				continue
			}
			seen[inst.StockCode] = true
			results = append(results, InstrumentSummary{
				StockCode:   inst.StockCode,
				CompanyName: inst.CompanyName,
				Industry:    inst.Industry,
				LogoURL:     inst.LogoURL,
				Priority:    priority + 1,
			})
		}
	}
	if len(results) > page.Limit {
		results = results[:page.Limit]
	}
	return results, nil
}

// emptyJSONBlob reports whether a stored JSON blob carries no data.
// Empty strings, JSON null, and empty containers all collapse to
// "absent": consumers cannot tell "no data yet" from "explicitly
// empty", which is an accepted simplification of the detail contract.
func emptyJSONBlob(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}

// decodeBlob unmarshals a JSON blob into dest, treating empty and
// malformed blobs as absent. Malformed pipeline output must degrade to
// a missing section, not a failed detail page.
func decodeBlob(raw string, dest interface{}) {
	if emptyJSONBlob(raw) {
		return
	}
	_ = json.Unmarshal([]byte(strings.TrimSpace(raw)), dest)
}
