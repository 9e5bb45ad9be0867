package utils

const (
	AppName    = "motoride"
	AppVersion = "1.0.0"

	EarthRadiusKM = 6371.0

	// Dispatch
	DefaultDispatchLimit  = 20
	DefaultSearchRadiusKM = 10.0
	MaxSearchRadiusKM     = 50.0

	// Security code relayed verbally at pickup/handoff
	SecurityCodeLength = 4

	// Response status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Error messages
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrResourceNotFound = "Resource not found"
)
