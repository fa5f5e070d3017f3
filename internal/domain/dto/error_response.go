package dto

import (
	"strings"
	"time"
)

// ErrorBody is the stable error payload nested under "error".
type ErrorBody struct {
	Code    string   `json:"code" example:"VALIDATION_ERROR"`
	Message string   `json:"message" example:"invalid query parameters"`
	Details []string `json:"details,omitempty"`
}

// ErrorResponse is the JSON body returned for every failed request.
//
// Example:
//
//	{"error": {"code": "NOT_FOUND", "message": "company 42 not found"}, "request_id": "...", "timestamp": "..."}
type ErrorResponse struct {
	Body      ErrorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface so responses can be logged directly.
func (e ErrorResponse) Error() string {
	if len(e.Body.Details) > 0 {
		return e.Body.Message + ": " + strings.Join(e.Body.Details, "; ")
	}
	return e.Body.Message
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
func NewErrorResponse(code, message string, details ...string) ErrorResponse {
	return ErrorResponse{
		Body:      ErrorBody{Code: code, Message: message, Details: details},
		Timestamp: time.Now().UTC(),
	}
}
