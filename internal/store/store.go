package store

// Store is a synchronous, string-keyed persistence layer for JSON records.
// Load fills v with the value stored under key and reports whether it did;
// on a missing, unreadable or malformed record it leaves v untouched, so the
// caller's pre-set value acts as the fallback. Save overwrites any prior
// value. Implementations must be safe for concurrent use.
type Store interface {
	Load(key string, v any) bool
	Save(key string, v any) error
	Delete(key string) error
}

// Keys of the persisted records. Versioned so a future layout change can
// migrate by switching keys instead of parsing old shapes.
const (
	KeyUsers   = "users_v1"
	KeySession = "session_v1"
	KeyChats   = "chats_v1"
)
