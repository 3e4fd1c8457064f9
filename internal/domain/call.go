package domain

import "time"

// Call statuses. A call moves calling → ringing → connected → ended; ended
// is a transient display state cleared shortly after.
const (
	CallStatusCalling   = "calling"
	CallStatusRinging   = "ringing"
	CallStatusConnected = "connected"
	CallStatusEnded     = "ended"
)

// Call is the ephemeral two-party call record driven by the call simulator.
// It is never persisted; exactly one call slot exists per process.
//
// Duration is measured from the connected transition, not from initiation,
// and is zero when the call ends before connecting.
type Call struct {
	ID           string     `json:"id"`
	JobID        string     `json:"job_id"`
	CallerID     string     `json:"caller_id"`
	CallerName   string     `json:"caller_name"`
	ReceiverID   string     `json:"receiver_id"`
	ReceiverName string     `json:"receiver_name"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	Duration     int        `json:"duration"` // seconds of connected time
}
