package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "shortwatch/internal/errors"
	"shortwatch/internal/services"
)

// --- mock instrument service ---

type mockInstrumentService struct {
	searchFn              func(ctx context.Context, query string, limit int) ([]services.InstrumentSummary, error)
	getInstrumentDetailFn func(ctx context.Context, code string) (*services.InstrumentDetail, error)
}

var _ services.InstrumentServicer = (*mockInstrumentService)(nil)

func (m *mockInstrumentService) Search(ctx context.Context, query string, limit int) ([]services.InstrumentSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []services.InstrumentSummary{}, nil
}

func (m *mockInstrumentService) GetInstrumentDetail(ctx context.Context, code string) (*services.InstrumentDetail, error) {
	if m.getInstrumentDetailFn != nil {
		return m.getInstrumentDetailFn(ctx, code)
	}
	return &services.InstrumentDetail{}, nil
}

// --- router setup ---

func setupStocksRouter(handler *StocksHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks/search", handler.Search)
	r.GET("/stocks/:code", handler.GetDetail)
	return r
}

// --- tests ---

func TestStocksHandler_Search(t *testing.T) {
	t.Run("returns_200_with_results", func(t *testing.T) {
		svc := &mockInstrumentService{
			searchFn: func(_ context.Context, query string, _ int) ([]services.InstrumentSummary, error) {
				return []services.InstrumentSummary{
					{StockCode: "BHP", CompanyName: "BHP Group", Priority: 1},
					{StockCode: "BHPX", CompanyName: "Bhp Exploration", Priority: 2},
				}, nil
			},
		}
		handler := NewStocksHandler(svc)
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/search?q=BHP", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		results := result["results"].([]interface{})
		if len(results) != 2 {
			t.Errorf("expected 2 results, got %d", len(results))
		}
		first := results[0].(map[string]interface{})
		if first["stock_code"] != "BHP" {
			t.Errorf("expected BHP first, got %v", first["stock_code"])
		}
		if first["priority"].(float64) != 1 {
			t.Errorf("expected priority 1, got %v", first["priority"])
		}
	})

	t.Run("passes_query_and_limit_to_service", func(t *testing.T) {
		var gotQuery string
		var gotLimit int
		svc := &mockInstrumentService{
			searchFn: func(_ context.Context, query string, limit int) ([]services.InstrumentSummary, error) {
				gotQuery, gotLimit = query, limit
				return []services.InstrumentSummary{}, nil
			},
		}
		handler := NewStocksHandler(svc)
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/search?q=bank&limit=3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotQuery != "bank" || gotLimit != 3 {
			t.Errorf("expected q=bank limit=3, got %q %d", gotQuery, gotLimit)
		}
	})

	t.Run("returns_400_missing_query", func(t *testing.T) {
		handler := NewStocksHandler(&mockInstrumentService{})
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/search", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns_504_on_timeout", func(t *testing.T) {
		svc := &mockInstrumentService{
			searchFn: func(_ context.Context, _ string, _ int) ([]services.InstrumentSummary, error) {
				return nil, apperrors.ErrSearchTimeout
			},
		}
		handler := NewStocksHandler(svc)
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/search?q=BHP", "")

		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected 504, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "SEARCH_TIMEOUT")
	})
}

func TestStocksHandler_GetDetail(t *testing.T) {
	t.Run("returns_200_on_success", func(t *testing.T) {
		svc := &mockInstrumentService{
			getInstrumentDetailFn: func(_ context.Context, code string) (*services.InstrumentDetail, error) {
				return &services.InstrumentDetail{
					StockCode:   "BHP",
					CompanyName: "BHP Group",
					Industry:    "Mining",
				}, nil
			},
		}
		handler := NewStocksHandler(svc)
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/BHP", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["stock_code"] != "BHP" {
			t.Errorf("expected stock_code=BHP, got %v", result["stock_code"])
		}
		if result["industry"] != "Mining" {
			t.Errorf("expected industry=Mining, got %v", result["industry"])
		}
	})

	t.Run("passes_raw_path_code_to_service", func(t *testing.T) {
		var gotCode string
		svc := &mockInstrumentService{
			getInstrumentDetailFn: func(_ context.Context, code string) (*services.InstrumentDetail, error) {
				gotCode = code
				return &services.InstrumentDetail{}, nil
			},
		}
		handler := NewStocksHandler(svc)
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/bhp", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		// Normalization happens in the service layer.
		if gotCode != "bhp" {
			t.Errorf("expected raw code bhp, got %q", gotCode)
		}
	})

	t.Run("returns_404_not_found", func(t *testing.T) {
		svc := &mockInstrumentService{
			getInstrumentDetailFn: func(_ context.Context, _ string) (*services.InstrumentDetail, error) {
				return nil, apperrors.ErrStockNotFound
			},
		}
		handler := NewStocksHandler(svc)
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/NOPE", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "STOCK_NOT_FOUND")
	})

	t.Run("returns_504_on_timeout", func(t *testing.T) {
		svc := &mockInstrumentService{
			getInstrumentDetailFn: func(_ context.Context, _ string) (*services.InstrumentDetail, error) {
				return nil, apperrors.ErrLookupTimeout
			},
		}
		handler := NewStocksHandler(svc)
		r := setupStocksRouter(handler)

		rec := doRequest(r, "GET", "/stocks/BHP", "")

		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected 504, got %d: %s", rec.Code, rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "LOOKUP_TIMEOUT")
	})
}
