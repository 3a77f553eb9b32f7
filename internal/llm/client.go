// Package llm talks to the chat completion API that writes the assistant's content.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaenox/interview-bot/internal/models"
)

// FallbackReply is shown to the user when a completion could not be obtained.
const FallbackReply = "Désolé, je rencontre des difficultés techniques pour répondre à votre question. Veuillez réessayer plus tard."

// Completer sends role-tagged messages plus an optional system prompt and returns generated text.
type Completer interface {
	Complete(ctx context.Context, history []models.Message, systemPrompt string) (string, error)
}

type ErrorKind string

const (
	KindTransport     ErrorKind = "transport"
	KindEmptyResponse ErrorKind = "empty_response"
	KindTimeout       ErrorKind = "timeout"
)

// Error is the failure side of a completion call.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("llm %s", e.Kind)
	}
	return fmt.Sprintf("llm %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the failure kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind
	}
	return ""
}

// ReplyOrFallback returns reply, or FallbackReply when err is set.
func ReplyOrFallback(reply string, err error) string {
	if err != nil {
		return FallbackReply
	}
	return reply
}
