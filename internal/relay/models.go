package relay

import "encoding/json"

// Request is a validated operation request. SystemID may be empty; the
// service fills in the configured default.
type Request struct {
	Operation     Operation
	TaxpayerID    string
	SystemID      string
	ServiceID     string
	SystemVersion string
	Payload       json.RawMessage
}

// Result is the uniform envelope every caller observes, success and failure
// alike. ExecutionTime is seconds from request entry and is stamped on every
// path, error paths included.
type Result struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data,omitempty"`
	Error         string          `json:"error,omitempty"`
	StatusCode    int             `json:"status_code"`
	ExecutionTime float64         `json:"execution_time"`
}
