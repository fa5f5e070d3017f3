package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/etmarket/internal/apperr"
	"github.com/guttosm/etmarket/internal/export"
	"github.com/guttosm/etmarket/internal/logger"
	"github.com/guttosm/etmarket/internal/middleware"
	"github.com/guttosm/etmarket/internal/query"
	"github.com/guttosm/etmarket/internal/service"
	"github.com/guttosm/etmarket/internal/validation"
)

// Services groups the business services the HTTP layer depends on.
type Services struct {
	Companies  service.CompanyService
	Financials service.FinancialService
	Stocks     service.StockService
	Macro      service.MacroService
	Market     service.MarketService
	Export     service.ExportService
	Users      service.UserService
}

// Handler provides the HTTP handlers for every /api/v1 endpoint.
//
// Responsibilities:
//   - Parse and type-check path, query and body input
//   - Delegate to the service layer with the request context
//   - Return JSON responses or file downloads with the right status codes
//   - Hand every failure to middleware.ErrorHandler via c.Error
type Handler struct {
	svc Services
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (Services): the services used by the handlers.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Validation("invalid path parameter", name+" must be a positive integer")
	}
	return id, nil
}

func listParams(c *gin.Context) (query.Params, error) {
	return query.ParseParams(c.Request.URL.Query())
}

// bindJSON decodes the body into v, rejecting unknown fields.
func bindJSON(c *gin.Context, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return bodyError(err)
	}
	return nil
}

// bindRecord decodes a JSON object into a flat record keeping numbers exact.
func bindRecord(c *gin.Context) (validation.Record, error) {
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	dec.UseNumber()
	var rec validation.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, bodyError(err)
	}
	if len(rec) == 0 {
		return nil, apperr.Validation("invalid request body", "body must be a non-empty JSON object")
	}
	return rec, nil
}

func bodyError(err error) error {
	if errors.Is(err, io.EOF) {
		return apperr.Validation("invalid request body", "body is required")
	}
	return apperr.Validation("invalid request body", err.Error())
}

// sendTable streams t as an attachment named after base.
func sendTable(c *gin.Context, format export.Format, base string, t export.Table) {
	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", `attachment; filename="`+format.Filename(base)+`"`)
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, t); err != nil {
		logger.L().Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("write export failed")
	}
}
