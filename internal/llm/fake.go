package llm

import (
	"context"
	"sync"

	"github.com/xaenox/interview-bot/internal/models"
)

// Func adapts a plain function to Completer. Handy in tests.
type Func func(ctx context.Context, history []models.Message, systemPrompt string) (string, error)

func (f Func) Complete(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
	return f(ctx, history, systemPrompt)
}

// Call is one request seen by a Recorder.
type Call struct {
	History      []models.Message
	SystemPrompt string
}

// Recorder wraps a Completer and keeps every request it forwards.
type Recorder struct {
	mu    sync.Mutex
	next  Completer
	calls []Call
}

func NewRecorder(next Completer) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Complete(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{
		History:      append([]models.Message(nil), history...),
		SystemPrompt: systemPrompt,
	})
	r.mu.Unlock()
	return r.next.Complete(ctx, history, systemPrompt)
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}
