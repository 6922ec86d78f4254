package sagalog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-storefront/internal/pkg/constants"
)

// NewEntry stamps a transition with the span and visitor found in ctx.
// Outside a request both are empty.
//
//	_ = repo.Save(ctx, sagalog.NewEntry(ctx, orderID, sagalog.StatusStepDone, "Clear_Cart_Step", "", nil))
func NewEntry(ctx context.Context, sagaID string, status Status, step, payload string, errs []string) *SagaLog {
	entry := &SagaLog{
		SagaID:        sagaID,
		Status:        status,
		CurrentStep:   step,
		Payload:       payload,
		ErrorMessages: encodeErrors(errs),
		UpdatedAt:     time.Now().UTC(),
	}
	entry.VisitorID, _ = ctx.Value(constants.ContextKeySessionID).(string)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}

// Errors decodes ErrorMessages. A malformed column reads as no errors.
func (l *SagaLog) Errors() []string {
	var errs []string
	if err := json.Unmarshal([]byte(l.ErrorMessages), &errs); err != nil {
		return nil
	}
	return errs
}

// Terminal reports whether no further rows are expected for the saga.
func (l *SagaLog) Terminal() bool {
	return l.Status == StatusCompleted || l.Status == StatusFailed
}

func encodeErrors(errs []string) string {
	if len(errs) == 0 {
		return "[]"
	}
	b, err := json.Marshal(errs)
	if err != nil {
		return "[]"
	}
	return string(b)
}
