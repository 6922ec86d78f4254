// Package sagalog records every state transition of a checkout saga.
//
// Each completed order leaves a STARTED row carrying the order as payload, one
// STEP_DONE row per step and a COMPLETED row. A failing step adds COMPENSATING
// and FAILED rows with the accumulated error messages. Rows carry the trace and
// span ids of the request that produced them, and the visitor it ran for.
package sagalog

import "time"

// Status represents the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// SagaLog is a single row in the saga_logs table.
type SagaLog struct {
	// SagaID is the order id, so rows join with the stored order.
	SagaID string

	Status Status

	// CurrentStep is the step that just finished or failed; empty on STARTED and COMPLETED.
	CurrentStep string

	// Payload is the JSON order record. Only set on STARTED.
	Payload string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	// VisitorID is the session the checkout ran for; empty outside a request.
	VisitorID string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
