package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeValidation is used when query or body validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeUnsupportedFormat is used when an export format is not available
	ErrCodeUnsupportedFormat = "ERR_UNSUPPORTED_FORMAT"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a route or resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeForbidden is used when the caller may not access a resource
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Upstream error codes
const (
	// ErrCodeUpstream is used when the order platform cannot be reached or refuses the call
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodeUpstreamData is used when the order platform returns data of the wrong shape
	ErrCodeUpstreamData = "ERR_UPSTREAM_DATA"
	// ErrCodeStorage is used when a rendered export cannot be stored
	ErrCodeStorage = "ERR_STORAGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeUnsupportedFormat: http.StatusBadRequest,
	ErrCodeRequestTooLarge:   http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:  http.StatusNotFound,
	ErrCodeForbidden: http.StatusForbidden,

	// A failed fetch is reported as a server error, a malformed payload as a gateway error
	ErrCodeUpstream:     http.StatusInternalServerError,
	ErrCodeUpstreamData: http.StatusBadGateway,
	ErrCodeStorage:      http.StatusInternalServerError,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
