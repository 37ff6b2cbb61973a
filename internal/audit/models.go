// Package audit records which operations were relayed on whose behalf.
// Events are append-only and transport-agnostic so stores can fan out.
package audit

import "time"

// Event captures one relayed operation.
type Event struct {
	Timestamp       time.Time `json:"timestamp"`
	RequestID       string    `json:"request_id"`
	Operation       string    `json:"operation"`
	TaxpayerID      string    `json:"taxpayer_id"`
	ServiceID       string    `json:"service_id"`
	StatusCode      int       `json:"status_code"`
	Success         bool      `json:"success"`
	DurationSeconds float64   `json:"duration_seconds"`
}
