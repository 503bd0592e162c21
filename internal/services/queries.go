package services

import (
	"time"

	"shortwatch/internal/period"
)

// Query pairs a SQL template with its bound parameters so both the
// aggregate and fallback tiers can be exercised against the same
// fixtures without string interpolation.
type Query struct {
	SQL  string
	Args []interface{}
}

// topCandidatesQuery ranks instruments that reported on the dataset's
// latest report date by that latest value, descending. Instruments
// whose last report is older never match the date equality, which is
// what excludes delisted and stale listings.
func topCandidatesQuery(latest time.Time, limit, offset int) Query {
	return Query{
		SQL: `SELECT stock_code, stock_name, percent_of_shares
			FROM short_positions
			WHERE report_date = ? AND deleted_at IS NULL
			ORDER BY percent_of_shares DESC, stock_code ASC
			LIMIT ? OFFSET ?`,
		Args: []interface{}{latest, limit, offset},
	}
}

// seriesPointsQuery returns the positive-valued points for one stock
// inside the lookback window, oldest first.
func seriesPointsQuery(code string, from, to time.Time) Query {
	return Query{
		SQL: `SELECT report_date, percent_of_shares
			FROM short_positions
			WHERE stock_code = ? AND report_date >= ? AND report_date <= ?
				AND percent_of_shares > 0 AND deleted_at IS NULL
			ORDER BY report_date ASC`,
		Args: []interface{}{code, from, to},
	}
}

// treemapAggregateQuery reads the pre-ranked materialized rows for a
// period. Percentage mode only considers rows where a change rank was
// computable (earliest value non-zero), so nulls never rank.
func treemapAggregateQuery(p period.Period, mode ViewMode, limit int) Query {
	if mode == ViewPercentageChange {
		return Query{
			SQL: `SELECT industry, stock_code, percentage_change AS value
				FROM treemap_aggregates
				WHERE period = ? AND change_rank IS NOT NULL AND change_rank <= ?
					AND deleted_at IS NULL
				ORDER BY industry ASC, change_rank ASC`,
			Args: []interface{}{string(p), limit},
		}
	}
	return Query{
		SQL: `SELECT industry, stock_code, short_position AS value
			FROM treemap_aggregates
			WHERE period = ? AND position_rank <= ? AND deleted_at IS NULL
			ORDER BY industry ASC, position_rank ASC`,
		Args: []interface{}{string(p), limit},
	}
}

// treemapWindowQuery streams every report inside the lookback window
// grouped by stock, oldest first, for the fallback computation.
func treemapWindowQuery(from, to time.Time) Query {
	return Query{
		SQL: `SELECT stock_code, report_date, percent_of_shares
			FROM short_positions
			WHERE report_date >= ? AND report_date <= ? AND deleted_at IS NULL
			ORDER BY stock_code ASC, report_date ASC`,
		Args: []interface{}{from, to},
	}
}

// industriesQuery maps stock codes to their industry buckets. Stocks
// without an industry cannot be grouped and are left out.
func industriesQuery() Query {
	return Query{
		SQL: `SELECT stock_code, industry
			FROM instruments
			WHERE industry <> '' AND deleted_at IS NULL`,
	}
}

// instrumentDetailQuery builds the detail read. The legacy external
// logo column only exists on older deployments; when present it backs
// up an empty canonical logo_url, otherwise the canonical column is
// read alone.
func instrumentDetailQuery(caps storeCapabilities, code string) Query {
	logoExpr := "logo_url"
	if caps.HasLegacyLogoColumn {
		logoExpr = "COALESCE(NULLIF(logo_url, ''), external_logo_url) AS logo_url"
	}
	return Query{
		SQL: `SELECT stock_code, company_name, industry, sector, ` + logoExpr + `,
				website, summary, tags, enrichment_status,
				financial_statements, key_metrics, key_people,
				financial_reports, social_links, risk_factors
			FROM instruments
			WHERE stock_code = ? AND deleted_at IS NULL
			LIMIT 1`,
		Args: []interface{}{code},
	}
}
