package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "shortwatch/internal/errors"
	"shortwatch/internal/period"
	"shortwatch/internal/services"
)

// ShortsHandler serves the short-position aggregation views.
type ShortsHandler struct {
	shortPositionService services.ShortPositionServicer
	treemapService       services.TreemapServicer
}

// NewShortsHandler creates a new ShortsHandler.
func NewShortsHandler(sps services.ShortPositionServicer, ts services.TreemapServicer) *ShortsHandler {
	return &ShortsHandler{shortPositionService: sps, treemapService: ts}
}

// TopSeriesRequest represents the query parameters for the top series view.
type TopSeriesRequest struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	Period string `form:"period"`
}

// TreemapRequest represents the query parameters for the treemap view.
type TreemapRequest struct {
	Limit    int    `form:"limit"`
	Period   string `form:"period"`
	ViewMode string `form:"view_mode" binding:"omitempty,view_mode"`
}

// GetTopSeries handles the ranked time-series view.
// @Summary     Top shorted stocks
// @Description Get the most shorted currently-listed stocks with their windowed series
// @Tags        shorts
// @Produce     json
// @Param       limit  query int    false "Page size (default 10)"
// @Param       offset query int    false "Ranking offset (default 0)"
// @Param       period query string false "Lookback period token (1D..10Y, MAX; default 6M)"
// @Success     200 {object} services.TopSeriesResult "Ranked series page"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /shorts/top [get]
func (h *ShortsHandler) GetTopSeries(c *gin.Context) {
	var req TopSeriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.shortPositionService.GetTopSeries(
		c.Request.Context(), req.Limit, req.Offset, period.Parse(req.Period),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTreemap handles the industry treemap view.
// @Summary     Industry treemap
// @Description Get per-industry top stocks ranked by current short position or percentage change
// @Tags        shorts
// @Produce     json
// @Param       limit     query int    false "Top N per industry (default 10)"
// @Param       period    query string false "Lookback period token (default 6M)"
// @Param       view_mode query string false "CURRENT_CHANGE or PERCENTAGE_CHANGE"
// @Success     200 {object} services.TreemapResult "Treemap grouping"
// @Failure     400 {object} ErrorResponse "Invalid view mode"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /shorts/treemap [get]
func (h *ShortsHandler) GetTreemap(c *gin.Context) {
	var req TreemapRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.treemapService.GetTreemap(
		c.Request.Context(), req.Limit, period.Parse(req.Period), services.ViewMode(req.ViewMode),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
