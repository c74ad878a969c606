package chat

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"bytebuddy/internal/store"
)

var ErrThreadNotFound = errors.New("thread not found")

const (
	RoleUser      = "user"
	RoleAssistant = "ai"
)

// DefaultTitle is the placeholder until the first user message names the thread.
const DefaultTitle = "New chat"

// titleLimit is the number of leading runes of the first user message kept as
// the thread title.
const titleLimit = 40

type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"messages"`
}

type threadList struct {
	Chats []Thread `json:"chats"`
}

// Store owns every user's thread collection, keyed by the owning user's id.
// Messages are append-only; the only deletion is ClearAll, which drops a
// user's whole collection at once.
type Store struct {
	store store.Store
}

func NewStore(s store.Store) *Store {
	return &Store{store: s}
}

func (c *Store) loadAll() map[string]threadList {
	all := map[string]threadList{}
	c.store.Load(store.KeyChats, &all)
	return all
}

func (c *Store) saveAll(all map[string]threadList) error {
	return c.store.Save(store.KeyChats, all)
}

// Threads returns the user's threads, newest-created first (insertion order;
// no sort on updatedAt). A user without an entry gets an empty collection
// created and persisted.
func (c *Store) Threads(userID string) []Thread {
	all := c.loadAll()
	list, ok := all[userID]
	if !ok {
		all[userID] = threadList{Chats: []Thread{}}
		_ = c.saveAll(all)
		return []Thread{}
	}
	out := make([]Thread, len(list.Chats))
	copy(out, list.Chats)
	return out
}

// NewThread inserts a thread seeded with one assistant greeting at the front
// of the user's list.
func (c *Store) NewThread(userID, greeting string) (Thread, error) {
	now := time.Now()
	th := Thread{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []Message{
			{Role: RoleAssistant, Content: greeting, At: now},
		},
	}
	all := c.loadAll()
	list := all[userID]
	list.Chats = append([]Thread{th}, list.Chats...)
	all[userID] = list
	if err := c.saveAll(all); err != nil {
		return Thread{}, err
	}
	return th, nil
}

// AppendUserMessage appends a user message and, when the thread has no user
// message yet, sets the title from the text once. Never retitles after that.
func (c *Store) AppendUserMessage(userID, threadID, text string) error {
	all := c.loadAll()
	list := all[userID]
	th := findThread(list.Chats, threadID)
	if th == nil {
		return ErrThreadNotFound
	}
	if !hasUserMessage(th) {
		th.Title = TruncateTitle(text)
	}
	now := time.Now()
	th.Messages = append(th.Messages, Message{Role: RoleUser, Content: text, At: now})
	th.UpdatedAt = now
	all[userID] = list
	return c.saveAll(all)
}

// AppendAssistantMessage resolves the thread by id at call time: the reply is
// committed after a reveal delay and the thread may have vanished meanwhile.
func (c *Store) AppendAssistantMessage(userID, threadID, text string) error {
	all := c.loadAll()
	list := all[userID]
	th := findThread(list.Chats, threadID)
	if th == nil {
		return ErrThreadNotFound
	}
	now := time.Now()
	th.Messages = append(th.Messages, Message{Role: RoleAssistant, Content: text, At: now})
	th.UpdatedAt = now
	all[userID] = list
	return c.saveAll(all)
}

// ClearAll replaces the user's collection with an empty one.
func (c *Store) ClearAll(userID string) error {
	all := c.loadAll()
	all[userID] = threadList{Chats: []Thread{}}
	return c.saveAll(all)
}

// Export renders a thread as "ROLE: content" lines separated by blank lines.
func (c *Store) Export(userID, threadID string) (string, error) {
	all := c.loadAll()
	list := all[userID]
	th := findThread(list.Chats, threadID)
	if th == nil {
		return "", ErrThreadNotFound
	}
	lines := make([]string, 0, len(th.Messages))
	for _, m := range th.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(m.Role), m.Content))
	}
	return strings.Join(lines, "\n\n"), nil
}

func findThread(chats []Thread, threadID string) *Thread {
	for i := range chats {
		if chats[i].ID == threadID {
			return &chats[i]
		}
	}
	return nil
}

func hasUserMessage(th *Thread) bool {
	for _, m := range th.Messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}

// TruncateTitle keeps the first 40 runes and marks longer text with an
// ellipsis.
func TruncateTitle(text string) string {
	r := []rune(text)
	if len(r) <= titleLimit {
		return text
	}
	return string(r[:titleLimit]) + "…"
}

var nonWord = regexp.MustCompile(`[^\w\-]+`)

// ExportFilename derives a download-safe file name from a thread title:
// non-word runs collapse to underscores, capped at 60 characters.
func ExportFilename(title string) string {
	if title == "" {
		title = "chat"
	}
	s := nonWord.ReplaceAllString(title, "_")
	r := []rune(s)
	if len(r) > 60 {
		s = string(r[:60])
	}
	return s + ".txt"
}
