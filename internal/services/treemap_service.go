package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "shortwatch/internal/errors"
	"shortwatch/internal/logger"
	"shortwatch/internal/period"
)

// treemapService builds per-industry short-position rankings. It reads
// the materialized aggregate table when it can and recomputes the same
// ranking from raw reports when it cannot; callers see no behavioral
// difference between the two tiers.
type treemapService struct {
	db *gorm.DB
}

// NewTreemapService creates a new TreemapServicer.
func NewTreemapService(db *gorm.DB) TreemapServicer {
	return &treemapService{db: db}
}

type aggregateRow struct {
	Industry  string
	StockCode string
	Value     float64
}

type windowRow struct {
	StockCode       string
	ReportDate      time.Time
	PercentOfShares float64
}

// GetTreemap returns the per-industry top stocks for a period, ranked
// by the latest value or by percentage change over the window.
func (s *treemapService) GetTreemap(ctx context.Context, limit int, p period.Period, mode ViewMode) (*TreemapResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if mode != ViewPercentageChange {
		mode = ViewCurrentChange
	}

	result, err := s.fromAggregates(ctx, limit, p, mode)
	if err == nil {
		return result, nil
	}
	// The aggregate table may be missing or unrefreshed in some
	// environments. The raw computation is read-only, so retrying via
	// the fallback is always safe.
	logger.Get().Warnw("treemap aggregate read failed, computing from raw reports",
		"period", string(p),
		"view_mode", string(mode),
		"error", err,
	)
	return s.fromRawReports(ctx, limit, p, mode)
}

// errAggregateEmpty signals that the aggregate holds no rows for the
// requested period, so the refresher has not covered it yet.
var errAggregateEmpty = apperrors.WithMessage(apperrors.ErrNotFound, "treemap aggregate not populated")

// fromAggregates is the fast path over the pre-ranked table.
func (s *treemapService) fromAggregates(ctx context.Context, limit int, p period.Period, mode ViewMode) (*TreemapResult, error) {
	q := treemapAggregateQuery(p, mode, limit)
	var rows []aggregateRow
	if err := s.db.WithContext(ctx).Raw(q.SQL, q.Args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errAggregateEmpty
	}

	result := &TreemapResult{Industries: []string{}, Stocks: []TreemapStock{}}
	for _, r := range rows {
		if len(result.Industries) == 0 || result.Industries[len(result.Industries)-1] != r.Industry {
			result.Industries = append(result.Industries, r.Industry)
		}
		result.Stocks = append(result.Stocks, TreemapStock{
			Industry:  r.Industry,
			StockCode: r.StockCode,
			Value:     r.Value,
		})
	}
	return result, nil
}

// stockMetric is one stock's computed ranking metric in the fallback.
type stockMetric struct {
	code  string
	value float64
}

// fromRawReports recomputes the aggregate ranking from per-day rows:
// same window, same staleness guard, same exclusion of undefined
// percentage changes.
func (s *treemapService) fromRawReports(ctx context.Context, limit int, p period.Period, mode ViewMode) (*TreemapResult, error) {
	latest, ok, err := latestReportDate(ctx, s.db)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	empty := &TreemapResult{Industries: []string{}, Stocks: []TreemapStock{}}
	if !ok {
		return empty, nil
	}

	from := latest.Add(-p.TreemapLookback())
	staleCutoff := latest.Add(-period.StaleAfter)

	wq := treemapWindowQuery(from, latest)
	var rows []windowRow
	if err := s.db.WithContext(ctx).Raw(wq.SQL, wq.Args...).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	industryByCode, err := s.industries(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byIndustry := map[string][]stockMetric{}
	flush := func(code string, earliest, latestVal float64, latestDate time.Time) {
		industry, grouped := industryByCode[code]
		if !grouped || latestDate.Before(staleCutoff) {
			return
		}
		var value float64
		switch mode {
		case ViewPercentageChange:
			if earliest == 0 {
				// Change from a zero base is undefined; exclude
				// rather than divide.
				return
			}
			value = (latestVal - earliest) / earliest * 100
		default:
			value = latestVal
		}
		byIndustry[industry] = append(byIndustry[industry], stockMetric{code: code, value: value})
	}

	// Rows arrive ordered by stock then date, so each stock's first row
	// is its earliest in-window report and the last is its latest.
	var (
		cur        string
		earliest   float64
		latestVal  float64
		latestDate time.Time
	)
	for _, r := range rows {
		if r.StockCode != cur {
			if cur != "" {
				flush(cur, earliest, latestVal, latestDate)
			}
			cur = r.StockCode
			earliest = r.PercentOfShares
		}
		latestVal = r.PercentOfShares
		latestDate = r.ReportDate
	}
	if cur != "" {
		flush(cur, earliest, latestVal, latestDate)
	}

	if len(byIndustry) == 0 {
		return empty, nil
	}

	industries := make([]string, 0, len(byIndustry))
	for industry := range byIndustry {
		industries = append(industries, industry)
	}
	sort.Strings(industries)

	result := &TreemapResult{Industries: industries, Stocks: []TreemapStock{}}
	for _, industry := range industries {
		metrics := byIndustry[industry]
		sort.Slice(metrics, func(i, j int) bool {
			if metrics[i].value != metrics[j].value {
				return metrics[i].value > metrics[j].value
			}
			return metrics[i].code < metrics[j].code
		})
		if len(metrics) > limit {
			metrics = metrics[:limit]
		}
		for _, m := range metrics {
			result.Stocks = append(result.Stocks, TreemapStock{
				Industry:  industry,
				StockCode: m.code,
				Value:     m.value,
			})
		}
	}
	return result, nil
}

// industries returns the stock code to industry mapping for grouping.
func (s *treemapService) industries(ctx context.Context) (map[string]string, error) {
	q := industriesQuery()
	var rows []struct {
		StockCode string
		Industry  string
	}
	if err := s.db.WithContext(ctx).Raw(q.SQL, q.Args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.StockCode] = r.Industry
	}
	return m, nil
}
