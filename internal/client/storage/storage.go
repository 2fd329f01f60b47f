package storage

import "errors"

// ErrPersistenceCorrupt marks a stored entry whose contents could not
// be parsed. The entry is discarded and the key removed; the system
// proceeds as if the entry were absent.
var ErrPersistenceCorrupt = errors.New("storage: persisted entry corrupt")

// Well-known keys mirrored from the browser's durable storage. The
// browser keeps the session in a cookie; here it persists alongside
// the identity so later processes stay authenticated.
const (
	KeyIdentity   = "twitter_user"
	KeyTaskStatus = "task_status"
	KeySession    = "session_id"
)

// Store is a plain durable key-value surface scoped to the local
// machine, the localStorage analog the client core persists into.
type Store interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
