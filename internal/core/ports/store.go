package ports

// SessionStore persists small string values across processes.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SessionStore interface {
	// Get returns the value stored under key.
	// It returns domain.ErrKeyNotFound if the key has no value.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
