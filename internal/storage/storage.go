package storage

import (
	"context"
	"errors"

	"github.com/xaenox/interview-bot/internal/models"
)

var ErrNotFound = errors.New("session not found")

// UpdateFunc mutates a session in place.
type UpdateFunc func(session *models.InterviewSession) error

// SessionStore maps a user identifier to exactly one interview session.
type SessionStore interface {
	// Get returns a copy of the user's session or ErrNotFound.
	Get(ctx context.Context, userID string) (*models.InterviewSession, error)
	// GetOrCreate returns a copy of the user's session, seeding one on first contact.
	GetOrCreate(ctx context.Context, userID string) (*models.InterviewSession, error)
	// Update runs fn against the user's session (created if absent) and keeps the result.
	Update(ctx context.Context, userID string, fn UpdateFunc) error
	Close() error
}
