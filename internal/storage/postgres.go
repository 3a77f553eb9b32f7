package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c DatabaseConfig) connString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// PostgresStorage keeps each session as a JSON document keyed by user id.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", config.connString())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStorage) load(ctx context.Context, q queryer, userID string, forUpdate bool) (*models.InterviewSession, error) {
	query := `SELECT payload FROM interview_sessions WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var payload []byte
	err := q.QueryRowContext(ctx, query, userID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying session: %w", err)
	}

	return decodeSession(payload)
}

func (s *PostgresStorage) Get(ctx context.Context, userID string) (*models.InterviewSession, error) {
	return s.load(ctx, s.db, userID, false)
}

func (s *PostgresStorage) GetOrCreate(ctx context.Context, userID string) (*models.InterviewSession, error) {
	var session *models.InterviewSession
	err := s.Update(ctx, userID, func(sess *models.InterviewSession) error {
		session = sess.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Update locks the row for the length of fn. A missing row is seeded inside the same
// transaction; a concurrent first insert makes this call fail instead of overwriting.
func (s *PostgresStorage) Update(ctx context.Context, userID string, fn UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	session, err := s.load(ctx, tx, userID, true)
	created := false
	if errors.Is(err, ErrNotFound) {
		session = models.NewInterviewSession(userID)
		created = true
	} else if err != nil {
		return err
	}

	if err := fn(session); err != nil {
		return err
	}

	payload, err := encodeSession(session)
	if err != nil {
		return err
	}

	if created {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO interview_sessions (user_id, session_id, stage, payload, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			userID, session.SessionID, session.Stage.String(), payload, session.CreatedAt, session.LastUpdatedAt)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE interview_sessions
			SET stage = $2, payload = $3, updated_at = $4
			WHERE user_id = $1`,
			userID, session.Stage.String(), payload, session.LastUpdatedAt)
	}
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing session: %w", err)
	}

	if created {
		s.logger.Info("Session created", zap.String("user_id", userID), zap.String("session_id", session.SessionID))
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func encodeSession(session *models.InterviewSession) ([]byte, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("error encoding session: %w", err)
	}
	return payload, nil
}

func decodeSession(payload []byte) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("error decoding session: %w", err)
	}
	if session.Profile == nil {
		return nil, fmt.Errorf("error decoding session: missing profile")
	}
	if session.Feedback == nil {
		session.Feedback = make(map[string]string)
	}
	return &session, nil
}
