// internal/session/session.go
//
// Request-scoped session state and flash messages.
//
// Context
// -------
// Handlers, placeholder resolvers, and middleware share one mutable
// key-value store per request.  The cooperative single-writer model means no
// locking is needed; correctness rests on the destructive-read invariant for
// flash fields, which the typed Take helpers enforce structurally: reading a
// flash message deletes it, so a second read in the same request observes
// nothing.
//
// The persistence backend (cookie, Redis, …) lives behind the framing layer;
// this package only models the in-flight state.
package session

// Well-known flash keys.  Producer discipline keeps at most one of the two
// present at a time.
const (
	keyError   = "flash.error"
	keySuccess = "flash.success"
)

// Store is a mutable, request-scoped key-value store.  It is owned by one
// in-flight request and never shared across requests.
type Store struct {
	values map[string]any
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]any, 8)}
}

// Get returns the value under key, if any.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the string value under key, or "" when absent or not a
// string.
func (s *Store) GetString(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.values[key] = value
}

// Delete removes key.
func (s *Store) Delete(key string) {
	delete(s.values, key)
}

// Len reports the number of stored keys.
func (s *Store) Len() int { return len(s.values) }

//
// flash helpers
//

// SetError records an error flash message for the next render.
func (s *Store) SetError(msg string) { s.values[keyError] = msg }

// SetSuccess records a success flash message for the next render.
func (s *Store) SetSuccess(msg string) { s.values[keySuccess] = msg }

// TakeError returns and deletes the error flash message.  The read is
// destructive; a second call in the same request reports absence.
func (s *Store) TakeError() (string, bool) {
	return s.take(keyError)
}

// TakeSuccess returns and deletes the success flash message.
func (s *Store) TakeSuccess() (string, bool) {
	return s.take(keySuccess)
}

func (s *Store) take(key string) (string, bool) {
	v, ok := s.values[key].(string)
	if !ok {
		return "", false
	}
	delete(s.values, key)
	return v, true
}
