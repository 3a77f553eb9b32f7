package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xaenox/interview-bot/internal/models"
)

func TestMemoryStorageGetMissing(t *testing.T) {
	store := NewMemoryStorage()

	if _, err := store.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorageGetOrCreateReturnsSameSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	first, err := store.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := store.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if first.SessionID != second.SessionID {
		t.Errorf("expected one session per user, got %s and %s", first.SessionID, second.SessionID)
	}
	if first.Stage != models.StageIntroduction {
		t.Errorf("expected Introduction, got %s", first.Stage)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 session, got %d", store.Len())
	}
}

func TestMemoryStorageUpdatePersists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	err := store.Update(ctx, "u1", func(s *models.InterviewSession) error {
		s.AddUserMessage("bonjour")
		s.SetStage(models.StagePreparation)
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.History) != 1 || got.Stage != models.StagePreparation {
		t.Errorf("update not persisted: %+v", got)
	}

	// Returned sessions are copies.
	got.AddUserMessage("ignored")
	again, _ := store.Get(ctx, "u1")
	if len(again.History) != 1 {
		t.Errorf("expected stored history untouched, got %d entries", len(again.History))
	}
}

func TestMemoryStorageUpdateError(t *testing.T) {
	store := NewMemoryStorage()
	boom := errors.New("boom")

	err := store.Update(context.Background(), "u1", func(s *models.InterviewSession) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestMemoryStorageConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, "u1", func(s *models.InterviewSession) error {
				s.AddUserMessage("x")
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.History) != 50 {
		t.Errorf("expected 50 turns, got %d", len(got.History))
	}
}
