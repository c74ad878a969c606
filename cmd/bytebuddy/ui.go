package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"bytebuddy/internal/app"
	"bytebuddy/internal/chat"
	"bytebuddy/internal/users"
)

var (
	aiLabel   = color.New(color.FgCyan, color.Bold)
	userLabel = color.New(color.FgGreen, color.Bold)
	errText   = color.New(color.FgRed)
	okText    = color.New(color.FgGreen)
	muted     = color.New(color.Faint)
)

// ui is the terminal presentation layer. It owns the active thread id and
// passes it into every chat call; the core holds no ambient view state.
type ui struct {
	app    *app.App
	in     *bufio.Reader
	active string

	mu    sync.Mutex
	shown map[string]int
}

func newUI() *ui {
	return &ui{
		in:    bufio.NewReader(os.Stdin),
		shown: make(map[string]int),
	}
}

func (u *ui) Run() {
	fmt.Println("ByteBuddy AI — your friendly local chat buddy")
	for {
		if cur, ok := u.app.ActiveUser(); ok {
			if !u.chatLoop(cur) {
				return
			}
		} else {
			if !u.landingLoop() {
				return
			}
		}
	}
}

// landingLoop handles the unauthenticated state. Returns false to exit.
func (u *ui) landingLoop() bool {
	muted.Println("commands: login, signup, demo, reset, quit")
	for {
		line, ok := u.prompt("bytebuddy> ")
		if !ok {
			return false
		}
		switch line {
		case "login":
			email, _ := u.prompt("email: ")
			pw, _ := u.prompt("password: ")
			if _, err := u.app.Login(email, pw); err != nil {
				errText.Println(err)
				continue
			}
			return true
		case "signup":
			name, _ := u.prompt("name: ")
			email, _ := u.prompt("email: ")
			pw, _ := u.prompt("password: ")
			confirm, _ := u.prompt("confirm password: ")
			if _, err := u.app.CreateAccount(name, email, pw, confirm); err != nil {
				errText.Println(err)
				continue
			}
			okText.Println("Account created! Opening chat…")
			return true
		case "demo":
			if _, err := u.app.Login(users.DemoEmail, users.DemoPassword); err != nil {
				errText.Println(err)
				continue
			}
			return true
		case "reset":
			email, _ := u.prompt("email: ")
			pw, _ := u.prompt("new password: ")
			if err := u.app.ResetPassword(email, pw); err != nil {
				errText.Println(err)
				continue
			}
			okText.Println("Password updated! You can log in now.")
		case "quit", "exit":
			return false
		case "", "help":
			muted.Println("commands: login, signup, demo, reset, quit")
		default:
			errText.Printf("unknown command %q\n", line)
		}
	}
}

// chatLoop handles the authenticated state. Returns false to exit.
func (u *ui) chatLoop(cur users.User) bool {
	threads, err := u.app.ListThreads()
	if err != nil {
		errText.Println(err)
		return true
	}
	if u.active == "" {
		if len(threads) > 0 {
			u.active = threads[0].ID
		} else {
			th, err := u.app.NewThread()
			if err != nil {
				errText.Println(err)
				return true
			}
			u.active = th.ID
		}
	}
	muted.Printf("Signed in as %s\n", cur.Name)
	u.printThreadList()
	u.printTranscript(u.active)
	muted.Println("type a message, or: /new /list /open N /export /clear /logout /quit")

	for {
		line, ok := u.prompt("you> ")
		if !ok {
			return false
		}
		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			return false
		case line == "/logout":
			if err := u.app.Logout(); err != nil {
				errText.Println(err)
			}
			u.active = ""
			return true
		case line == "/new":
			th, err := u.app.NewThread()
			if err != nil {
				errText.Println(err)
				continue
			}
			u.active = th.ID
			u.printTranscript(u.active)
		case line == "/list":
			u.printThreadList()
		case strings.HasPrefix(line, "/open"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/open")))
			threads, _ := u.app.ListThreads()
			if err != nil || n < 1 || n > len(threads) {
				errText.Println("usage: /open N (see /list)")
				continue
			}
			u.active = threads[n-1].ID
			u.printTranscript(u.active)
		case line == "/export":
			name, content, err := u.app.ExportThread(u.active)
			if err != nil {
				errText.Println(err)
				continue
			}
			if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
				errText.Printf("write export: %v\n", err)
				continue
			}
			okText.Printf("exported to %s\n", name)
		case line == "/clear":
			if err := u.app.ClearAllThreads(); err != nil {
				errText.Println(err)
				continue
			}
			th, err := u.app.NewThread()
			if err != nil {
				errText.Println(err)
				continue
			}
			u.active = th.ID
			u.printTranscript(u.active)
		case strings.HasPrefix(line, "/"):
			errText.Printf("unknown command %q\n", line)
		default:
			u.send(line)
		}
	}
}

func (u *ui) send(text string) {
	done, err := u.app.SendUserMessage(u.active, text)
	if err != nil {
		errText.Println(err)
		return
	}
	muted.Println("ByteBuddy is typing…")
	aiLabel.Print("ByteBuddy AI: ")
	<-done
	fmt.Println()
}

func (u *ui) prompt(label string) (string, bool) {
	fmt.Print(label)
	line, err := u.in.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (u *ui) printThreadList() {
	threads, err := u.app.ListThreads()
	if err != nil {
		errText.Println(err)
		return
	}
	if len(threads) == 0 {
		muted.Println("No chats yet. Start a new one!")
		return
	}
	for i, th := range threads {
		marker := " "
		if th.ID == u.active {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s  ", marker, i+1, th.Title)
		muted.Println(th.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func (u *ui) printTranscript(threadID string) {
	threads, err := u.app.ListThreads()
	if err != nil {
		errText.Println(err)
		return
	}
	for _, th := range threads {
		if th.ID != threadID {
			continue
		}
		fmt.Println()
		aiLabel.Printf("── %s ──\n", th.Title)
		for _, m := range th.Messages {
			u.printMessage(m)
		}
		return
	}
}

func (u *ui) printMessage(m chat.Message) {
	if m.Role == chat.RoleUser {
		userLabel.Print("You: ")
	} else {
		aiLabel.Print("ByteBuddy AI: ")
	}
	fmt.Println(m.Content)
}

// --- app.Events ---

func (u *ui) SessionChanged(usr *users.User) {
	if usr == nil {
		muted.Println("Logged out.")
		return
	}
	okText.Printf("👤 %s\n", usr.Name)
}

func (u *ui) ThreadListChanged(string) {}

func (u *ui) MessageAppended(threadID string, m chat.Message) {
	if m.Role == chat.RoleAssistant {
		u.mu.Lock()
		delete(u.shown, threadID)
		u.mu.Unlock()
	}
}

// RevealProgress prints only the runes disclosed since the previous tick, so
// the reply appears to be typed out live.
func (u *ui) RevealProgress(threadID, visible string) {
	u.mu.Lock()
	prev := u.shown[threadID]
	r := []rune(visible)
	if len(r) > prev {
		fmt.Print(string(r[prev:]))
		u.shown[threadID] = len(r)
	}
	u.mu.Unlock()
}
