package dto

import "net/http"

// Error codes surfaced by the API, matching the domain error codes
const (
	// ErrCodeBadRequest is used for malformed request bodies
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for unexpected failures
	ErrCodeInternal = "INTERNAL"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Business rule violations are 422; collaborator and inventory failures
// surface as 500 because the caller cannot fix them by changing the request.
var errorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":          http.StatusNotFound,
	"VALIDATION":         http.StatusUnprocessableEntity,
	"CONFLICT":           http.StatusConflict,
	"INVENTORY":          http.StatusInternalServerError,
	"ITEM_UPDATE_FAILED": http.StatusInternalServerError,
	"COLLABORATOR":       http.StatusInternalServerError,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInternal:      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
