// Package ai talks to the language-completion service and turns its free text
// into the journal's emotion analyses, chat replies and report narratives.
package ai

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Schema asks completers that support structured output to constrain the reply.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Request struct {
	Model       string
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	Schema      *Schema
}

// Completer returns the model's text for req. Any failure is wrapped in
// apperr.ErrServiceUnavailable.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
