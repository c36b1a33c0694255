package session

import "time"

// Store manages per-user sessions.
type Store interface {
	// EnsureSession returns the session for id, creating a fresh one when id
	// is empty or unknown, and extends its TTL.
	EnsureSession(id string, ttl time.Duration) (Session, error)
	GetSession(id string) (Session, error)
}

// Session holds the per-user research state: the deduplicated search history
// and running counters for the stats footer.
type Session interface {
	ID() string
	Expire(ttl time.Duration)

	// AddQuery appends q to the history unless it is already present.
	// Returns true when the query was newly added.
	AddQuery(q string) bool

	// History returns all recorded queries in submission order.
	History() []string

	// Recent returns up to n of the most recent queries, oldest first.
	Recent(n int) []string

	// AddSourcesAnalyzed bumps the sources-analyzed counter.
	AddSourcesAnalyzed(n int)
	SourcesAnalyzed() int
}
