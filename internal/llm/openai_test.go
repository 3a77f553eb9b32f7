package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

func TestOpenAIClientComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"  Bonjour !  "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-4o", 100, 0.7, time.Second, zap.NewNop())
	reply, err := c.Complete(context.Background(), []models.Message{{Role: models.RoleUser, Content: "Salut"}}, "Tu es un coach.")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "Bonjour !" {
		t.Errorf("expected trimmed reply, got %q", reply)
	}
	if got.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "Salut" {
		t.Errorf("unexpected request messages: %+v", got.Messages)
	}
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-4o", 100, 0.7, time.Second, zap.NewNop())
	_, err := c.Complete(context.Background(), nil, "")
	if KindOf(err) != KindEmptyResponse {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestOpenAIClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-4o", 100, 0.7, 50*time.Millisecond, zap.NewNop())
	_, err := c.Complete(context.Background(), nil, "")
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestReplyOrFallback(t *testing.T) {
	if got := ReplyOrFallback("ok", nil); got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	err := &Error{Kind: KindTransport, Err: errors.New("boom")}
	if got := ReplyOrFallback("", err); got != FallbackReply {
		t.Errorf("expected fallback, got %q", got)
	}
}
