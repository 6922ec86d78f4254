package sagalog

import "context"

// Repository appends saga log entries. Entries are never updated.
type Repository interface {
	Save(ctx context.Context, entry *SagaLog) error
}

// Reader answers questions about past checkouts.
type Reader interface {
	// History returns every entry of one saga, oldest first.
	History(ctx context.Context, sagaID string) ([]SagaLog, error)
	// Visitor returns the latest entry of each saga run for a visitor, newest first.
	Visitor(ctx context.Context, visitorID string) ([]SagaLog, error)
}
