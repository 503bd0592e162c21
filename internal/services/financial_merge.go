package services

import "shortwatch/internal/models"

// MergeKeyMetrics reconciles the two financial side-channels into one
// record. The enrichment pipeline's statements info is authoritative:
// any field already carrying a non-zero number or non-empty string is
// kept untouched. Gaps are filled from the key-metrics sync, whose
// values arrive with heterogeneous numeric types and possible nulls.
//
// Pure function: no I/O, inputs are not mutated, and the result is
// never nil, so callers can chain field access without nil checks.
func MergeKeyMetrics(keyMetrics map[string]interface{}, info *models.FinancialInfo) *models.FinancialInfo {
	merged := models.FinancialInfo{}
	if info != nil {
		merged = *info
	}
	if keyMetrics == nil {
		return &merged
	}

	if merged.MarketCap == 0 {
		merged.MarketCap = toFloat(keyMetrics["market_cap"])
	}
	if merged.CurrentPrice == 0 {
		merged.CurrentPrice = toFloat(keyMetrics["current_price"])
	}
	if merged.PERatio == 0 {
		merged.PERatio = toFloat(keyMetrics["pe_ratio"])
	}
	if merged.EPS == 0 {
		merged.EPS = toFloat(keyMetrics["eps"])
	}
	if merged.DividendYield == 0 {
		merged.DividendYield = toFloat(keyMetrics["dividend_yield"])
	}
	if merged.Beta == 0 {
		merged.Beta = toFloat(keyMetrics["beta"])
	}
	if merged.Week52High == 0 {
		merged.Week52High = toFloat(keyMetrics["fifty_two_week_high"])
	}
	if merged.Week52Low == 0 {
		merged.Week52Low = toFloat(keyMetrics["fifty_two_week_low"])
	}
	if merged.Volume == 0 {
		merged.Volume = toFloat(keyMetrics["avg_volume"])
	}
	if merged.EmployeeCount == 0 {
		merged.EmployeeCount = toInt(keyMetrics["employee_count"])
	}
	if merged.Sector == "" {
		merged.Sector = toString(keyMetrics["sector"])
	}
	if merged.Industry == "" {
		merged.Industry = toString(keyMetrics["industry"])
	}

	return &merged
}

// toFloat widens any recognized numeric type to float64. Nulls and
// non-numeric values coerce to zero, never an error: a malformed feed
// value must not take down a detail page.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toInt(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
