package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/middleware"
)

// ListFinancials handles GET /api/v1/financials/{company_id}.
//
// Query Parameters:
//   - year, period (Annual|Q1..Q4), year_from, year_to (optional filters).
//   - sort_by (year, revenue, net_income, total_assets), sort or order (asc|desc).
//   - limit or per_page, page.
//
// Responses:
//   - 200 OK: paginated statements, newest year first by default.
//   - 400 Bad Request: malformed parameters or inverted year range.
//   - 404 Not Found: unknown company.
//
// ListFinancials godoc
// @Summary      List financial statements
// @Tags         financials
// @Produce      json
// @Param        company_id  path      int     true   "Company ID"
// @Param        year        query     int     false  "Fiscal year"
// @Param        period      query     string  false  "Annual, Q1, Q2, Q3 or Q4"
// @Param        year_from   query     int     false  "First year (inclusive)"
// @Param        year_to     query     int     false  "Last year (inclusive)"
// @Param        sort_by     query     string  false  "Sort column" default(year)
// @Param        sort        query     string  false  "asc or desc" default(desc)
// @Param        limit       query     int     false  "Items per page (max 100)"
// @Param        page        query     int     false  "Page number"
// @Success      200         {object}  dto.ListResponse[dto.FinancialResponse]
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/v1/financials/{company_id} [get]
func (h *Handler) ListFinancials(c *gin.Context) {
	id, err := pathID(c, "company_id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	p, err := listParams(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Financials.List(c.Request.Context(), id, p)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LatestFinancial godoc
// @Summary      Latest financial statement
// @Tags         financials
// @Produce      json
// @Param        company_id  path      int  true  "Company ID"
// @Success      200         {object}  dto.FinancialResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/v1/financials/{company_id}/latest [get]
func (h *Handler) LatestFinancial(c *gin.Context) {
	id, err := pathID(c, "company_id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Financials.Latest(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FinancialSummary godoc
// @Summary      Financial summary with growth
// @Description  Latest statement plus year over year growth against the prior Annual statement
// @Tags         financials
// @Produce      json
// @Param        company_id  path      int  true  "Company ID"
// @Success      200         {object}  dto.FinancialSummaryResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/v1/financials/{company_id}/summary [get]
func (h *Handler) FinancialSummary(c *gin.Context) {
	id, err := pathID(c, "company_id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Financials.Summary(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateFinancial handles POST /api/v1/financials/{company_id}.
//
// The body is a flat JSON object of statement fields. It must pass the
// accounting identity and ratio checks; failures return every reason.
//
// CreateFinancial godoc
// @Summary      Add financial statement
// @Tags         financials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  path      int                     true  "Company ID"
// @Param        body        body      map[string]interface{}  true  "Statement fields"
// @Success      201         {object}  dto.FinancialResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      409         {object}  dto.ErrorResponse  "Statement for year and period exists"
// @Router       /api/v1/financials/{company_id} [post]
func (h *Handler) CreateFinancial(c *gin.Context) {
	id, err := pathID(c, "company_id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	rec, err := bindRecord(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Financials.Create(c.Request.Context(), middleware.UserID(c), id, rec)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ─── Stock prices ─────────────────────────────────

// ListStocks godoc
// @Summary      List daily prices
// @Tags         stocks
// @Produce      json
// @Param        company_id  path      int     true   "Company ID"
// @Param        start_date  query     string  false  "YYYY-MM-DD (inclusive)"
// @Param        end_date    query     string  false  "YYYY-MM-DD (inclusive)"
// @Param        sort        query     string  false  "asc or desc" default(asc)
// @Param        limit       query     int     false  "Items per page (max 100)"
// @Param        page        query     int     false  "Page number"
// @Success      200         {object}  dto.ListResponse[dto.StockResponse]
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/{company_id} [get]
func (h *Handler) ListStocks(c *gin.Context) {
	id, err := pathID(c, "company_id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	p, err := listParams(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Stocks.List(c.Request.Context(), id, p)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateStock godoc
// @Summary      Add daily price
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        company_id  path      int               true  "Company ID"
// @Param        body        body      dto.StockRequest  true  "Price row"
// @Success      201         {object}  dto.StockResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      409         {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/{company_id} [post]
func (h *Handler) CreateStock(c *gin.Context) {
	id, err := pathID(c, "company_id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	rec, err := bindRecord(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Stocks.Create(c.Request.Context(), id, rec)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
