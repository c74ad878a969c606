package responder

import (
	"fmt"
	"strings"
)

// Context carries who the assistant is speaking to.
type Context struct {
	Name string
}

// Responder produces a full reply for a prompt. Implementations must be pure
// and deterministic and never return an empty string.
type Responder interface {
	Respond(prompt string, ctx Context) string
}

// Rules is the canned, rule-matched reply engine: a handful of keyword
// intents plus a structured fallback.
type Rules struct{}

func NewRules() *Rules {
	return &Rules{}
}

func (Rules) Respond(prompt string, ctx Context) string {
	p := strings.TrimSpace(prompt)
	lower := strings.ToLower(p)

	name := ctx.Name
	if name == "" {
		name = "there"
	}
	greet := fmt.Sprintf("Hey %s — ", name)

	switch {
	case strings.HasPrefix(lower, "hi"), strings.HasPrefix(lower, "hello"),
		strings.Contains(lower, "how are you"):
		return greet + "I'm doing great. What do you want to talk about today?"

	case strings.Contains(lower, "idea"), strings.Contains(lower, "suggest"):
		return greet + "here are a few ideas:\n" + bullets(
			"A mini habit tracker you can use daily",
			"A simple portfolio site with a projects section",
			"A 'study timer' (Pomodoro) with stats + streaks",
			"A notes app with tags and search",
			"A tiny budgeting dashboard (income/expenses)",
		) + "\n\nTell me what theme you like and I'll tailor it."

	case strings.Contains(lower, "summarize"):
		return greet + "paste the text you want summarized and tell me:\n" + bullets(
			"How short you want it (1 sentence / 5 bullets / paragraph)",
			"Your tone (casual / formal)",
			"Anything to focus on (dates, actions, key points)",
		)

	case strings.Contains(lower, "email"), strings.Contains(lower, "message"),
		strings.Contains(lower, "text"):
		return greet + "sure — paste what you have (or tell me the goal + who it's for) and I'll write a clean version."

	case strings.Contains(lower, "code"), strings.Contains(lower, "bug"),
		strings.Contains(lower, "error"):
		return greet + "paste the code or the error message and tell me what you expected to happen. I'll help you fix it."
	}

	return greet + "here's a helpful answer based on what you asked:\n\n" +
		fmt.Sprintf("1) What you're trying to do: %q\n", p) +
		"2) A good approach:\n" +
		bullets(
			"Break it into small steps",
			"Start with the simplest working version",
			"Test each part, then add features",
			"Keep the UI clean and readable",
		) +
		"\n\nIf you tell me your goal in one sentence (and any limits like \"mobile only\" or \"no libraries\"), I can give you a more exact solution."
}

// Greeting seeds every new thread.
func Greeting(name string) string {
	return fmt.Sprintf("Hey %s! I'm ByteBuddy. Ask me anything — ideas, advice, summaries, whatever.", name)
}

func bullets(items ...string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = "• " + it
	}
	return strings.Join(out, "\n")
}
