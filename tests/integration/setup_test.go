package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shortwatch/internal/handlers"
	"shortwatch/internal/logger"
	"shortwatch/internal/middleware"
	"shortwatch/internal/testutil"
	"shortwatch/internal/validator"

	"shortwatch/internal/services"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)

	shortPositionService := services.NewShortPositionService(db)
	treemapService := services.NewTreemapService(db)
	instrumentService := services.NewInstrumentService(db)

	shortsHandler := handlers.NewShortsHandler(shortPositionService, treemapService)
	stocksHandler := handlers.NewStocksHandler(instrumentService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	shorts := v1.Group("/shorts")
	shorts.GET("/top", shortsHandler.GetTopSeries)
	shorts.GET("/treemap", shortsHandler.GetTreemap)

	stocks := v1.Group("/stocks")
	stocks.GET("/search", stocksHandler.Search)
	stocks.GET("/:code", stocksHandler.GetDetail)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}
