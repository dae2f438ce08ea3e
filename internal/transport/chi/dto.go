package chi

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeMethodNotAllowed ErrorResponseCode = "method_not_allowed"
	ErrorResponseCodeInvalidArgument  ErrorResponseCode = "invalid_argument"
	ErrorResponseCodeLocationNotFound ErrorResponseCode = "location_not_found"
	ErrorResponseCodeNoResults        ErrorResponseCode = "no_results"
	ErrorResponseCodeQuotaExceeded    ErrorResponseCode = "quota_exceeded"
	ErrorResponseCodeRequestDenied    ErrorResponseCode = "request_denied"
	ErrorResponseCodeProviderError    ErrorResponseCode = "provider_error"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// AssessRequest is the body of POST /api/v1/assessments.
type AssessRequest struct {
	Location     string   `json:"location"`
	RadiusMeters *int     `json:"radius_meters,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
