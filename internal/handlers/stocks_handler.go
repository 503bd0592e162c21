package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "shortwatch/internal/errors"
	"shortwatch/internal/services"
)

// StocksHandler serves stock search and detail pages.
type StocksHandler struct {
	instrumentService services.InstrumentServicer
}

// NewStocksHandler creates a new StocksHandler.
func NewStocksHandler(is services.InstrumentServicer) *StocksHandler {
	return &StocksHandler{instrumentService: is}
}

// SearchRequest represents the query parameters for stock search.
type SearchRequest struct {
	Query string `form:"q" binding:"required,min=1,max=100"`
	Limit int    `form:"limit"`
}

// Search handles fuzzy stock lookup.
// @Summary     Search stocks
// @Description Search by exact code, partial code, or company name substring
// @Tags        stocks
// @Produce     json
// @Param       q     query string true  "Search query"
// @Param       limit query int    false "Maximum results (default 10)"
// @Success     200 {object} map[string][]services.InstrumentSummary "Matching stocks"
// @Failure     400 {object} ErrorResponse "Missing query"
// @Failure     504 {object} ErrorResponse "Search timed out"
// @Router      /stocks/search [get]
func (h *StocksHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	results, err := h.instrumentService.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetDetail handles the stock detail page.
// @Summary     Stock detail
// @Description Get company metadata with merged financial info and derived sections
// @Tags        stocks
// @Produce     json
// @Param       code path string true "Stock code"
// @Success     200 {object} services.InstrumentDetail "Stock detail"
// @Failure     404 {object} ErrorResponse "Stock not found"
// @Failure     504 {object} ErrorResponse "Lookup timed out"
// @Router      /stocks/{code} [get]
func (h *StocksHandler) GetDetail(c *gin.Context) {
	detail, err := h.instrumentService.GetInstrumentDetail(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
