package users

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"bytebuddy/internal/store"
)

var (
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrNotFound       = errors.New("no account with that email")
)

// Demo account inserted on first run so the app is usable without signup.
const (
	DemoName     = "Demo User"
	DemoEmail    = "demo@bytebuddy.ai"
	DemoPassword = "demo123"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// Directory is the store of record for user accounts. Emails are unique
// case-insensitively; the check runs on every Create since the storage layer
// enforces nothing. Passwords are kept in the clear: this is a demo, not a
// credential system.
type Directory struct {
	store store.Store
}

func NewDirectory(s store.Store) *Directory {
	return &Directory{store: s}
}

// NormalizeEmail is the canonical form used for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) load() []User {
	users := []User{}
	d.store.Load(store.KeyUsers, &users)
	return users
}

func (d *Directory) List() []User {
	return d.load()
}

func (d *Directory) FindByEmail(email string) (User, bool) {
	norm := NormalizeEmail(email)
	for _, u := range d.load() {
		if NormalizeEmail(u.Email) == norm {
			return u, true
		}
	}
	return User{}, false
}

// FindByID resolves an id to its record. Used by the session tracker so a
// dangling session reference degrades to "not logged in" instead of a stale
// user handle.
func (d *Directory) FindByID(id string) (User, bool) {
	for _, u := range d.load() {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (d *Directory) Create(name, email, password string) (User, error) {
	if _, ok := d.FindByEmail(email); ok {
		return User{}, ErrDuplicateEmail
	}
	u := User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: time.Now(),
	}
	users := append(d.load(), u)
	if err := d.store.Save(store.KeyUsers, users); err != nil {
		return User{}, err
	}
	return u, nil
}

func (d *Directory) SetPassword(email, newPassword string) error {
	norm := NormalizeEmail(email)
	users := d.load()
	for i, u := range users {
		if NormalizeEmail(u.Email) == norm {
			users[i].Password = newPassword
			return d.store.Save(store.KeyUsers, users)
		}
	}
	return ErrNotFound
}

// SeedDemo inserts the demo account unless it already exists. Runs at every
// startup.
func (d *Directory) SeedDemo() error {
	if _, ok := d.FindByEmail(DemoEmail); ok {
		return nil
	}
	_, err := d.Create(DemoName, DemoEmail, DemoPassword)
	return err
}
