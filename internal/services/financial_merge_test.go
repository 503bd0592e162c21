package services

import (
	"testing"

	"shortwatch/internal/models"
)

func TestMergeKeyMetrics(t *testing.T) {
	t.Run("fills_all_fields_from_key_metrics", func(t *testing.T) {
		km := map[string]interface{}{
			"market_cap":          5678912345.0,
			"current_price":       12.34,
			"pe_ratio":            22.3,
			"eps":                 1.5,
			"dividend_yield":      0.04,
			"beta":                1.1,
			"fifty_two_week_high": 15.0,
			"fifty_two_week_low":  8.0,
			"avg_volume":          1_200_000.0,
			"employee_count":      5400,
			"sector":              "Materials",
			"industry":            "Mining",
		}

		merged := MergeKeyMetrics(km, nil)

		if merged.MarketCap != 5678912345.0 {
			t.Errorf("expected market cap 5678912345, got %f", merged.MarketCap)
		}
		if merged.CurrentPrice != 12.34 {
			t.Errorf("expected current price 12.34, got %f", merged.CurrentPrice)
		}
		if merged.PERatio != 22.3 {
			t.Errorf("expected pe ratio 22.3, got %f", merged.PERatio)
		}
		if merged.EPS != 1.5 {
			t.Errorf("expected eps 1.5, got %f", merged.EPS)
		}
		if merged.DividendYield != 0.04 {
			t.Errorf("expected dividend yield 0.04, got %f", merged.DividendYield)
		}
		if merged.Beta != 1.1 {
			t.Errorf("expected beta 1.1, got %f", merged.Beta)
		}
		if merged.Week52High != 15.0 {
			t.Errorf("expected 52w high 15, got %f", merged.Week52High)
		}
		if merged.Week52Low != 8.0 {
			t.Errorf("expected 52w low 8, got %f", merged.Week52Low)
		}
		if merged.Volume != 1_200_000.0 {
			t.Errorf("expected volume 1200000, got %f", merged.Volume)
		}
		if merged.EmployeeCount != 5400 {
			t.Errorf("expected employee count 5400, got %d", merged.EmployeeCount)
		}
		if merged.Sector != "Materials" {
			t.Errorf("expected sector Materials, got %s", merged.Sector)
		}
		if merged.Industry != "Mining" {
			t.Errorf("expected industry Mining, got %s", merged.Industry)
		}
	})

	t.Run("preserves_existing_values", func(t *testing.T) {
		km := map[string]interface{}{
			"market_cap": 5678912345.0,
			"sector":     "Energy",
		}
		info := &models.FinancialInfo{
			MarketCap: 999999999,
			Sector:    "Materials",
		}

		merged := MergeKeyMetrics(km, info)

		if merged.MarketCap != 999999999 {
			t.Errorf("expected authoritative market cap preserved, got %f", merged.MarketCap)
		}
		if merged.Sector != "Materials" {
			t.Errorf("expected authoritative sector preserved, got %s", merged.Sector)
		}
	})

	t.Run("fills_only_gaps", func(t *testing.T) {
		km := map[string]interface{}{
			"market_cap": 5678912345.0,
			"pe_ratio":   22.3,
		}
		info := &models.FinancialInfo{PERatio: 18.0}

		merged := MergeKeyMetrics(km, info)

		if merged.PERatio != 18.0 {
			t.Errorf("expected pe ratio 18 preserved, got %f", merged.PERatio)
		}
		if merged.MarketCap != 5678912345.0 {
			t.Errorf("expected market cap filled, got %f", merged.MarketCap)
		}
	})

	t.Run("both_nil_returns_zero_record", func(t *testing.T) {
		merged := MergeKeyMetrics(nil, nil)

		if merged == nil {
			t.Fatal("expected non-nil result")
		}
		if *merged != (models.FinancialInfo{}) {
			t.Errorf("expected zero-valued record, got %+v", merged)
		}
	})

	t.Run("does_not_mutate_inputs", func(t *testing.T) {
		km := map[string]interface{}{"market_cap": 100.0}
		info := &models.FinancialInfo{PERatio: 18.0}

		_ = MergeKeyMetrics(km, info)

		if info.MarketCap != 0 {
			t.Errorf("expected input info untouched, got market cap %f", info.MarketCap)
		}
		if km["market_cap"] != 100.0 {
			t.Errorf("expected input map untouched, got %v", km["market_cap"])
		}
	})

	t.Run("widens_numeric_types", func(t *testing.T) {
		km := map[string]interface{}{
			"market_cap":     int64(5678912345),
			"pe_ratio":       float32(22.5),
			"eps":            int(2),
			"avg_volume":     int32(90000),
			"employee_count": 5400.0,
		}

		merged := MergeKeyMetrics(km, nil)

		if merged.MarketCap != 5678912345 {
			t.Errorf("expected int64 widened, got %f", merged.MarketCap)
		}
		if merged.PERatio != 22.5 {
			t.Errorf("expected float32 widened, got %f", merged.PERatio)
		}
		if merged.EPS != 2 {
			t.Errorf("expected int widened, got %f", merged.EPS)
		}
		if merged.Volume != 90000 {
			t.Errorf("expected int32 widened, got %f", merged.Volume)
		}
		if merged.EmployeeCount != 5400 {
			t.Errorf("expected float employee count truncated to int64, got %d", merged.EmployeeCount)
		}
	})

	t.Run("invalid_values_coerce_to_zero", func(t *testing.T) {
		km := map[string]interface{}{
			"market_cap":     "not a number",
			"pe_ratio":       nil,
			"eps":            true,
			"employee_count": "many",
			"sector":         42,
			"industry":       nil,
		}

		merged := MergeKeyMetrics(km, nil)

		if *merged != (models.FinancialInfo{}) {
			t.Errorf("expected all invalid values coerced to zero, got %+v", merged)
		}
	})

	t.Run("coercion_is_idempotent", func(t *testing.T) {
		km := map[string]interface{}{"market_cap": 123.45}
		once := MergeKeyMetrics(km, nil)
		twice := MergeKeyMetrics(map[string]interface{}{"market_cap": once.MarketCap}, nil)

		if once.MarketCap != twice.MarketCap {
			t.Errorf("expected idempotent coercion, got %f then %f", once.MarketCap, twice.MarketCap)
		}
	})

	t.Run("missing_keys_leave_zero_values", func(t *testing.T) {
		km := map[string]interface{}{"market_cap": 5678912345.0, "pe_ratio": 22.3}

		merged := MergeKeyMetrics(km, nil)

		if merged.EPS != 0 || merged.Beta != 0 || merged.Sector != "" {
			t.Errorf("expected unfilled fields to stay zero, got %+v", merged)
		}
	})
}
