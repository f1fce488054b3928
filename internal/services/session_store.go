package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stagegear/inventory/internal/config"
	"github.com/stagegear/inventory/internal/models"
	"gorm.io/gorm"
)

// SessionStore persists server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	// Get returns ErrSessionNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeUser(ctx context.Context, userID string) error
}

// NewSessionStore picks Redis when it is enabled, the database otherwise.
func NewSessionStore(db *gorm.DB, cfg *config.RedisConfig) SessionStore {
	if cfg != nil && cfg.Enabled {
		opts := &redis.Options{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
		if cfg.TLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		return NewRedisSessionStore(redis.NewClient(opts))
	}
	return NewDBSessionStore(db)
}

// DBSessionStore keeps sessions in the sessions table.
type DBSessionStore struct {
	db *gorm.DB
}

func NewDBSessionStore(db *gorm.DB) *DBSessionStore {
	return &DBSessionStore{db: db}
}

func (s *DBSessionStore) Create(ctx context.Context, session *models.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *DBSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *DBSessionStore) Revoke(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now()).Error
}

func (s *DBSessionStore) RevokeUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// RedisSessionStore keeps each session as a JSON value that expires with the
// session, plus a per-user set so all of a user's sessions can be dropped.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

const (
	sessionKeyPrefix     = "inventory:session:"
	userSessionKeyPrefix = "inventory:user_sessions:"
)

func (s *RedisSessionStore) Create(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, data, ttl)
	pipe.SAdd(ctx, userSessionKeyPrefix+session.UserID, session.ID)
	pipe.Expire(ctx, userSessionKeyPrefix+session.UserID, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	pipe.SRem(ctx, userSessionKeyPrefix+session.UserID, id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) RevokeUser(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userSessionKeyPrefix+userID).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, userSessionKeyPrefix+userID)
	return s.client.Del(ctx, keys...).Err()
}
