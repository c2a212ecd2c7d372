package constants

import "time"

// Application constants centralized in one location to improve type safety
// and eliminate magic strings throughout the codebase.

// Default Configuration Values
const (
	DefaultPort       = 6660
	DefaultLogLevel   = "INFO"
	DefaultNElevators = 3
	DefaultNFloors    = 10

	DefaultWaitPeriod = 10 * time.Second

	// WebSocket status push interval
	StatusUpdateInterval = 1 * time.Second
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeTextPlain = "text/plain"
)

// HTTP Methods
const (
	MethodGET  = "GET"
	MethodPOST = "POST"
)

// Component Names for Logging
const (
	ComponentHTTPServer  = "http-server"
	ComponentHTTPHandler = "http_handler"
	ComponentDispatch    = "dispatch"
	ComponentManager     = "manager"
	ComponentHR          = "hr"
)

// Floor Validation Limits. The building only has floors 1..MaxAllowedFloor;
// floor 0 and below are not serviced (ground level is floor 1).
const (
	MinAllowedFloor = 1
	MaxAllowedFloor = 1000
)

// Metrics
const (
	MetricsNamespace = "dispatch"
)
