package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/middleware"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/serializer"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
)

// MarketSummary godoc
// @Summary      Market summary
// @Description  Market cap, advancers and decliners as of the reference date (default: latest trading date)
// @Tags         market
// @Produce      json
// @Param        date  query     string  false  "Reference date YYYY-MM-DD"
// @Success      200   {object}  dto.MarketSummaryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/market/summary [get]
func (h *Handler) MarketSummary(c *gin.Context) {
	date, err := query.ParseDate(c.Request.URL.Query(), "date")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Market.Summary(c.Request.Context(), date)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarketTrends godoc
// @Summary      Market trends
// @Description  Daily average close and total volume across companies
// @Tags         market
// @Produce      json
// @Param        days  query     int  false  "Window in days (1-365)" default(30)
// @Success      200   {object}  dto.MarketTrendsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/market/trends [get]
func (h *Handler) MarketTrends(c *gin.Context) {
	days, err := query.ParseDays(c.Request.URL.Query(), defaultWindowDays, maxWindowDays)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Market.Trends(c.Request.Context(), days)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarketLeaders godoc
// @Summary      Market leaders
// @Description  Top companies by volume, gain and loss over the window
// @Tags         market
// @Produce      json
// @Param        days   query     int  false  "Window in days (1-365)" default(30)
// @Param        limit  query     int  false  "Entries per list" default(5)
// @Success      200    {object}  dto.MarketLeadersResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/v1/market/leaders [get]
func (h *Handler) MarketLeaders(c *gin.Context) {
	v := c.Request.URL.Query()
	days, err := query.ParseDays(v, defaultWindowDays, maxWindowDays)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	limit := serializer.TopMovers
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > query.MaxPerPage {
			middleware.AbortWithError(c, apperr.Validation("invalid query parameters", "limit must be an integer between 1 and 100"))
			return
		}
		limit = n
	}
	resp, err := h.svc.Market.Leaders(c.Request.Context(), days, limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
