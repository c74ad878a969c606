package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"bytebuddy/internal/chat"
	"bytebuddy/internal/responder"
	"bytebuddy/internal/session"
	"bytebuddy/internal/users"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrReplyPending       = errors.New("a reply is still being composed for this thread")
)

const minPasswordLen = 6

// Events is how the core notifies the presentation layer. The reveal runs on
// its own goroutine, so implementations must tolerate calls from outside the
// caller's goroutine.
type Events interface {
	SessionChanged(u *users.User)
	ThreadListChanged(userID string)
	MessageAppended(threadID string, m chat.Message)
	RevealProgress(threadID, visible string)
}

type noopEvents struct{}

func (noopEvents) SessionChanged(*users.User)           {}
func (noopEvents) ThreadListChanged(string)             {}
func (noopEvents) MessageAppended(string, chat.Message) {}
func (noopEvents) RevealProgress(string, string)        {}

type Options struct {
	// RevealInterval is the pause between reveal ticks, RevealChunk the number
	// of runes disclosed per tick.
	RevealInterval time.Duration
	RevealChunk    int
}

// App is the facade the presentation layer talks to. The active thread id is
// an explicit argument on every chat call, never ambient state.
type App struct {
	users     *users.Directory
	sessions  *session.Tracker
	chats     *chat.Store
	responder responder.Responder
	events    Events

	revealInterval time.Duration
	revealChunk    int

	mu      sync.Mutex
	gens    map[string]uint64
	pending map[string]bool
}

func New(dir *users.Directory, tracker *session.Tracker, chats *chat.Store, r responder.Responder, events Events, opts Options) *App {
	if events == nil {
		events = noopEvents{}
	}
	if opts.RevealInterval <= 0 {
		opts.RevealInterval = 12 * time.Millisecond
	}
	if opts.RevealChunk <= 0 {
		opts.RevealChunk = 1
	}
	return &App{
		users:          dir,
		sessions:       tracker,
		chats:          chats,
		responder:      r,
		events:         events,
		revealInterval: opts.RevealInterval,
		revealChunk:    opts.RevealChunk,
		gens:           make(map[string]uint64),
		pending:        make(map[string]bool),
	}
}

func (a *App) CreateAccount(name, email, password, confirm string) (users.User, error) {
	if len(password) < minPasswordLen {
		return users.User{}, ErrWeakPassword
	}
	if password != confirm {
		return users.User{}, ErrPasswordMismatch
	}
	u, err := a.users.Create(name, email, password)
	if err != nil {
		return users.User{}, err
	}
	if err := a.sessions.Establish(u.ID); err != nil {
		return users.User{}, fmt.Errorf("establish session: %w", err)
	}
	a.events.SessionChanged(&u)
	return u, nil
}

func (a *App) Login(email, password string) (users.User, error) {
	u, ok := a.users.FindByEmail(email)
	if !ok || u.Password != password {
		return users.User{}, ErrInvalidCredentials
	}
	if err := a.sessions.Establish(u.ID); err != nil {
		return users.User{}, fmt.Errorf("establish session: %w", err)
	}
	a.events.SessionChanged(&u)
	return u, nil
}

// ResetPassword overwrites the password for an existing account. Knowing the
// email is the only requirement; the caller is redirected to login afterwards.
func (a *App) ResetPassword(email, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	return a.users.SetPassword(email, newPassword)
}

func (a *App) Logout() error {
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	a.events.SessionChanged(nil)
	return nil
}

func (a *App) ActiveUser() (users.User, bool) {
	return a.sessions.Current()
}

func (a *App) ListThreads() ([]chat.Thread, error) {
	u, ok := a.sessions.Current()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return a.chats.Threads(u.ID), nil
}

func (a *App) NewThread() (chat.Thread, error) {
	u, ok := a.sessions.Current()
	if !ok {
		return chat.Thread{}, ErrNotLoggedIn
	}
	th, err := a.chats.NewThread(u.ID, responder.Greeting(u.Name))
	if err != nil {
		return chat.Thread{}, err
	}
	a.events.ThreadListChanged(u.ID)
	return th, nil
}

// SendUserMessage runs one chat turn: append the user message, compose the
// full reply synchronously, then reveal it over time and commit it only when
// the reveal finishes. The returned channel closes once the turn is fully
// settled (committed or discarded).
func (a *App) SendUserMessage(threadID, text string) (<-chan struct{}, error) {
	u, ok := a.sessions.Current()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	a.mu.Lock()
	if a.pending[threadID] {
		a.mu.Unlock()
		return nil, ErrReplyPending
	}
	a.pending[threadID] = true
	a.gens[threadID]++
	gen := a.gens[threadID]
	a.mu.Unlock()

	if err := a.chats.AppendUserMessage(u.ID, threadID, text); err != nil {
		a.mu.Lock()
		delete(a.pending, threadID)
		a.mu.Unlock()
		return nil, err
	}
	a.events.MessageAppended(threadID, chat.Message{Role: chat.RoleUser, Content: text, At: time.Now()})
	a.events.ThreadListChanged(u.ID)

	reply := a.responder.Respond(text, responder.Context{Name: u.Name})

	done := make(chan struct{})
	go a.revealAndCommit(u.ID, threadID, reply, gen, done)
	return done, nil
}

// revealAndCommit discloses the reply chunk by chunk, then re-resolves the
// thread and appends the assistant message. A vanished thread or a stale
// generation drops the commit silently: the transcript must never contain a
// reply the user did not see complete.
func (a *App) revealAndCommit(userID, threadID, reply string, gen uint64, done chan struct{}) {
	defer func() {
		a.mu.Lock()
		delete(a.pending, threadID)
		a.mu.Unlock()
		close(done)
	}()

	r := []rune(reply)
	for i := a.revealChunk; i < len(r); i += a.revealChunk {
		a.events.RevealProgress(threadID, string(r[:i]))
		time.Sleep(a.revealInterval)
	}
	a.events.RevealProgress(threadID, reply)

	a.mu.Lock()
	stale := a.gens[threadID] != gen
	a.mu.Unlock()
	if stale {
		return
	}

	if err := a.chats.AppendAssistantMessage(userID, threadID, reply); err != nil {
		// thread vanished during the reveal; nothing user-actionable
		return
	}
	a.events.MessageAppended(threadID, chat.Message{Role: chat.RoleAssistant, Content: reply, At: time.Now()})
	a.events.ThreadListChanged(userID)
}

// ClearAllThreads drops the active user's whole collection and invalidates
// any in-flight reveal commit.
func (a *App) ClearAllThreads() error {
	u, ok := a.sessions.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if err := a.chats.ClearAll(u.ID); err != nil {
		return err
	}
	a.mu.Lock()
	for id := range a.gens {
		a.gens[id]++
	}
	a.mu.Unlock()
	a.events.ThreadListChanged(u.ID)
	return nil
}

// ExportThread renders the thread as plain text plus a download-safe filename
// derived from its title.
func (a *App) ExportThread(threadID string) (filename, content string, err error) {
	u, ok := a.sessions.Current()
	if !ok {
		return "", "", ErrNotLoggedIn
	}
	content, err = a.chats.Export(u.ID, threadID)
	if err != nil {
		return "", "", err
	}
	title := ""
	for _, th := range a.chats.Threads(u.ID) {
		if th.ID == threadID {
			title = th.Title
			break
		}
	}
	return chat.ExportFilename(title), content, nil
}
