package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// APIResponse wraps payloads that are not part of the dashboard contract,
// such as the health check.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthData reports liveness and the configured storage drivers.
type HealthData struct {
	Status          string `json:"status"`
	RecordsDriver   string `json:"recordsDriver"`
	DocumentsDriver string `json:"documentsDriver"`
}
