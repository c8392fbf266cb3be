// Package chat keeps the assistant conversation of one session.
package chat

import "strings"

// ErrorReply replaces the typing indicator when the assistant cannot be reached.
const ErrorReply = "Error connecting to the assistant."

type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

func (r Role) String() string {
	if r == RoleAssistant {
		return "assistant"
	}
	return "user"
}

type Message struct {
	Role Role   `json:"-"`
	Text string `json:"text"`
	// Typing marks the transient indicator shown while a reply is pending.
	Typing bool `json:"typing,omitempty"`
	Failed bool `json:"failed,omitempty"`
}

// Pending identifies the typing indicator created by one Submit.
type Pending struct {
	index int
	Text  string
}

// Conversation is append-only and unbounded. Nothing is persisted.
type Conversation struct {
	messages []Message
}

// Submit records a user message and a typing indicator. Blank input is
// rejected and leaves the conversation untouched; callers must not send a
// request when ok is false.
func (c *Conversation) Submit(text string) (p Pending, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pending{}, false
	}
	c.messages = append(c.messages, Message{Role: RoleUser, Text: text})
	c.messages = append(c.messages, Message{Role: RoleAssistant, Typing: true})
	return Pending{index: len(c.messages) - 1, Text: text}, true
}

// Resolve replaces p's typing indicator with the assistant reply.
func (c *Conversation) Resolve(p Pending, reply string) {
	c.replace(p, Message{Role: RoleAssistant, Text: reply})
}

// Fail replaces p's typing indicator with ErrorReply.
func (c *Conversation) Fail(p Pending) {
	c.replace(p, Message{Role: RoleAssistant, Text: ErrorReply, Failed: true})
}

func (c *Conversation) replace(p Pending, m Message) {
	if p.index < 0 || p.index >= len(c.messages) || !c.messages[p.index].Typing {
		return
	}
	c.messages[p.index] = m
}

// Waiting reports whether any reply is still pending.
func (c *Conversation) Waiting() bool {
	for _, m := range c.messages {
		if m.Typing {
			return true
		}
	}
	return false
}

func (c *Conversation) Len() int { return len(c.messages) }

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
