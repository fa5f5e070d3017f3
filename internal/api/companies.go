package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/domain/dto"
	"github.com/guttosm/etmarket/internal/middleware"
)

// ListCompanies handles GET /api/v1/companies.
//
// Query Parameters:
//   - industry, sector (string, optional): exact match filters.
//   - search (string, optional): case-insensitive match on name, ticker, industry or description.
//   - sort_by (string, optional): name, ticker, industry, sector, established_date, created_at or id.
//   - order (asc|desc), page, per_page (max 100).
//
// Responses:
//   - 200 OK: paginated companies.
//   - 400 Bad Request: malformed query parameters.
//
// ListCompanies godoc
// @Summary      List companies
// @Description  Returns a filtered, sorted and paginated list of companies
// @Tags         companies
// @Produce      json
// @Param        industry  query     string  false  "Industry filter"
// @Param        sector    query     string  false  "Sector filter"
// @Param        search    query     string  false  "Free text search"
// @Param        sort_by   query     string  false  "Sort column" default(name)
// @Param        order     query     string  false  "asc or desc" default(asc)
// @Param        page      query     int     false  "Page number" default(1)
// @Param        per_page  query     int     false  "Items per page (max 100)" default(20)
// @Success      200       {object}  dto.ListResponse[dto.CompanyResponse]
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/v1/companies [get]
func (h *Handler) ListCompanies(c *gin.Context) {
	p, err := listParams(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Companies.List(c.Request.Context(), p)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCompany godoc
// @Summary      Get company
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{id} [get]
func (h *Handler) GetCompany(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Companies.Get(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCompany handles POST /api/v1/companies.
//
// The company and its CREATE audit row are written in one transaction.
//
// CreateCompany godoc
// @Summary      Create company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CompanyRequest  true  "Company"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Duplicate ticker"
// @Router       /api/v1/companies [post]
func (h *Handler) CreateCompany(c *gin.Context) {
	var req dto.CompanyRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Companies.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateCompanies handles POST /api/v1/companies/batch.
//
// Behavior:
//   - Every item is validated before anything is written.
//   - Either all companies are created, each with a BATCH_CREATE audit row, or none are.
//
// CreateCompanies godoc
// @Summary      Create companies in batch
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []dto.CompanyRequest  true  "Companies"
// @Success      201   {array}   dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/companies/batch [post]
func (h *Handler) CreateCompanies(c *gin.Context) {
	var reqs []dto.CompanyRequest
	if err := bindJSON(c, &reqs); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Companies.CreateBatch(c.Request.Context(), middleware.UserID(c), reqs)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateCompany godoc
// @Summary      Update company
// @Description  Partial update; omitted fields keep their value. The merged record is validated.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Company ID"
// @Param        body  body      dto.CompanyUpdateRequest  true  "Fields to change"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{id} [put]
func (h *Handler) UpdateCompany(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	var req dto.CompanyUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Companies.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCompany godoc
// @Summary      Delete company
// @Description  Admin only. Financials and prices cascade; the audit trail is kept.
// @Tags         companies
// @Security     BearerAuth
// @Param        id  path  int  true  "Company ID"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{id} [delete]
func (h *Handler) DeleteCompany(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if err := h.svc.Companies.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompanyAudit godoc
// @Summary      Company audit trail
// @Description  Newest first. Rows remain after the company is deleted.
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true   "Company ID"
// @Param        page      query     int  false  "Page number"
// @Param        per_page  query     int  false  "Items per page"
// @Success      200       {object}  dto.ListResponse[models.CompanyAudit]
// @Failure      401       {object}  dto.ErrorResponse
// @Router       /api/v1/companies/{id}/audit [get]
func (h *Handler) CompanyAudit(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	p, err := listParams(c)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	resp, err := h.svc.Companies.History(c.Request.Context(), id, p)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
