package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xaenox/interview-bot/internal/models"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL of a session key; zero keeps sessions until the key is deleted.
	TTL time.Duration
}

// RedisStorage keeps each session as a JSON string under interview:session:<user id>.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStorage(config RedisConfig, logger *zap.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &RedisStorage{client: client, ttl: config.TTL, logger: logger}, nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf("interview:session:%s", userID)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStorage) load(ctx context.Context, c stringGetter, userID string) (*models.InterviewSession, error) {
	data, err := c.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading session: %w", err)
	}
	return decodeSession(data)
}

func (s *RedisStorage) Get(ctx context.Context, userID string) (*models.InterviewSession, error) {
	return s.load(ctx, s.client, userID)
}

func (s *RedisStorage) GetOrCreate(ctx context.Context, userID string) (*models.InterviewSession, error) {
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

// Update watches the session key; a concurrent write between read and save fails the
// transaction with redis.TxFailedErr.
func (s *RedisStorage) Update(ctx context.Context, userID string, fn UpdateFunc) error {
	key := sessionKey(userID)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		session, err := s.load(ctx, tx, userID)
		if errors.Is(err, ErrNotFound) {
			session = models.NewInterviewSession(userID)
			s.logger.Info("Session created", zap.String("user_id", userID), zap.String("session_id", session.SessionID))
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

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return fmt.Errorf("error saving session: %w", err)
		}
		return nil
	}, key)
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
