package exec

import "time"

// EventKind tells which call produced an Event.
type EventKind string

const (
	EventExecute EventKind = "execute"
	EventBatch   EventKind = "batch"
	EventNext    EventKind = "next"
)

// Event describes one finished server round trip of a statement.
type Event struct {
	Kind        EventKind
	Dialect     string
	Query       string
	Description string
	Source      any
	StartedAt   time.Time
	Duration    time.Duration

	// HasResultSet is true when the call produced a result set.
	HasResultSet bool
	// UpdateCount is the affected row count, or -1 for result sets.
	UpdateCount int64
	// BatchSize is the number of entries for batch events.
	BatchSize int

	Err       error
	Cancelled bool
}

// Listener observes statement executions. Implementations must be safe for
// concurrent use when shared between sessions.
type Listener interface {
	StatementExecuted(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// StatementExecuted calls f(e).
func (f ListenerFunc) StatementExecuted(e Event) {
	f(e)
}
