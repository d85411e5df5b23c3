package store

// Store defines session persistence. Implementations must tolerate
// concurrent access.
//
// Error conventions:
//   - nil on success
//   - ErrNotFound (via errors.Is) when a session does not exist
//   - descriptive wrapped errors for I/O and serialization failures
type Store interface {
	// SaveSession atomically persists a session, overwriting any session
	// with the same ID.
	SaveSession(session *Session) error

	// LoadSession retrieves a session by ID.
	LoadSession(id string) (*Session, error)

	// ListSessions returns metadata for every stored session.
	ListSessions() ([]SessionInfo, error)

	// DeleteSession removes a session and its trace file.
	DeleteSession(id string) error
}

// ErrNotFound is returned when a requested session does not exist.
// Use errors.Is(err, ErrNotFound) to check for it.
var ErrNotFound = &NotFoundError{}

// NotFoundError reports a missing session.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return "session not found: " + e.ID
	}
	return "session not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
