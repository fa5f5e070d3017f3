package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/export"
	"github.com/guttosm/etmarket/internal/middleware"
)

// DownloadCompanies handles GET /api/v1/download/companies.
//
// Query Parameters:
//   - format (csv|excel, default csv).
//   - industry, sector, search, sort_by, order: same filters as GET /companies.
//
// Responses:
//   - 200 OK: attachment companies.csv or companies.xlsx; header only when nothing matches.
//   - 400 Bad Request: unknown format or malformed filters.
//
// DownloadCompanies godoc
// @Summary      Download companies
// @Tags         download
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format    query  string  false  "csv or excel" default(csv)
// @Param        industry  query  string  false  "Industry filter"
// @Param        sector    query  string  false  "Sector filter"
// @Param        search    query  string  false  "Free text search"
// @Success      200       {file}    file
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/v1/download/companies [get]
func (h *Handler) DownloadCompanies(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	p, err := listParams(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	t, err := h.svc.Export.Companies(c.Request.Context(), p)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	sendTable(c, format, "companies", t)
}

// DownloadFinancials godoc
// @Summary      Download financial statements
// @Tags         download
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        company_id  path   int     true   "Company ID"
// @Param        format      query  string  false  "csv or excel" default(csv)
// @Param        year        query  int     false  "Fiscal year"
// @Param        period      query  string  false  "Annual, Q1, Q2, Q3 or Q4"
// @Param        year_from   query  int     false  "First year (inclusive)"
// @Param        year_to     query  int     false  "Last year (inclusive)"
// @Success      200         {file}    file
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/v1/download/financials/{company_id} [get]
func (h *Handler) DownloadFinancials(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
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
	t, err := h.svc.Export.Financials(c.Request.Context(), id, p)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	sendTable(c, format, "financials_company_"+strconv.FormatInt(id, 10), t)
}

// DownloadMacro handles GET /api/v1/download/macro.
//
// variables selects indicator columns, either repeated or comma separated;
// date always leads. Unknown names are rejected together in one 400.
//
// DownloadMacro godoc
// @Summary      Download macroeconomic snapshots
// @Tags         download
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format     query  string    false  "csv or excel" default(csv)
// @Param        date_from  query  string    false  "YYYY-MM-DD (inclusive)"
// @Param        date_to    query  string    false  "YYYY-MM-DD (inclusive)"
// @Param        variables  query  []string  false  "Indicator columns" collectionFormat(csv)
// @Success      200        {file}    file
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/v1/download/macro [get]
func (h *Handler) DownloadMacro(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	p, err := listParams(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	variables := export.SplitList(c.QueryArray("variables")...)
	t, err := h.svc.Export.Macro(c.Request.Context(), p, variables)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	sendTable(c, format, "macro_indicators", t)
}
