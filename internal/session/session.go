package session

import (
	"time"

	"bytebuddy/internal/store"
	"bytebuddy/internal/users"
)

type record struct {
	UserID string    `json:"userId"`
	At     time.Time `json:"at"`
}

// Tracker persists the single current identity. It holds a user id, never a
// user record: Current resolves through the directory on every call, so a
// session pointing at an id that no longer exists reads as logged out.
// Last Establish/Clear wins; there is no locking across processes.
type Tracker struct {
	store store.Store
	dir   *users.Directory
}

func NewTracker(s store.Store, dir *users.Directory) *Tracker {
	return &Tracker{store: s, dir: dir}
}

func (t *Tracker) Establish(userID string) error {
	return t.store.Save(store.KeySession, record{UserID: userID, At: time.Now()})
}

func (t *Tracker) Clear() error {
	return t.store.Delete(store.KeySession)
}

func (t *Tracker) Current() (users.User, bool) {
	var rec record
	if !t.store.Load(store.KeySession, &rec) || rec.UserID == "" {
		return users.User{}, false
	}
	return t.dir.FindByID(rec.UserID)
}
