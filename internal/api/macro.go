package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/middleware"
	"github.com/guttosm/etmarket/internal/query"
)

// ListMacro godoc
// @Summary      List macroeconomic snapshots
// @Tags         macro
// @Produce      json
// @Param        date_from  query     string  false  "YYYY-MM-DD (inclusive)"
// @Param        date_to    query     string  false  "YYYY-MM-DD (inclusive)"
// @Param        sort       query     string  false  "asc or desc" default(desc)
// @Param        limit      query     int     false  "Items per page (max 100)"
// @Param        page       query     int     false  "Page number"
// @Success      200        {object}  dto.ListResponse[dto.MacroResponse]
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/v1/macro/indicators [get]
func (h *Handler) ListMacro(c *gin.Context) {
	p, err := listParams(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Macro.List(c.Request.Context(), p)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LatestMacro handles GET /api/v1/macro/latest.
//
// Responses:
//   - 200 OK: the newest snapshot plus month over month changes of the key
//     indicators, compared against the newest snapshot at least 30 days older.
//   - 404 Not Found: no snapshots loaded.
//
// LatestMacro godoc
// @Summary      Latest macroeconomic snapshot
// @Tags         macro
// @Produce      json
// @Success      200  {object}  dto.MacroLatestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/macro/latest [get]
func (h *Handler) LatestMacro(c *gin.Context) {
	resp, err := h.svc.Macro.Latest(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MacroSummary godoc
// @Summary      Macroeconomic summary statistics
// @Tags         macro
// @Produce      json
// @Param        date_from  query     string  false  "YYYY-MM-DD (inclusive)"
// @Param        date_to    query     string  false  "YYYY-MM-DD (inclusive)"
// @Success      200        {object}  dto.MacroSummaryResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/v1/macro/summary [get]
func (h *Handler) MacroSummary(c *gin.Context) {
	v := c.Request.URL.Query()
	from, err := query.ParseDate(v, "date_from")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	to, err := query.ParseDate(v, "date_to")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Macro.Summary(c.Request.Context(), from, to)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateMacro godoc
// @Summary      Add macroeconomic snapshot
// @Description  date, gdp_growth, inflation_rate, interest_rate and etb_usd are required; ranges and the trade balance identity are checked
// @Tags         macro
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      map[string]interface{}  true  "Snapshot fields"
// @Success      201   {object}  dto.MacroResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Snapshot for date exists"
// @Router       /api/v1/macro/indicators [post]
func (h *Handler) CreateMacro(c *gin.Context) {
	rec, err := bindRecord(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Macro.Create(c.Request.Context(), rec)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
