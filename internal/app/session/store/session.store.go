package session_store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	redis_client "github.com/init-pkg/trade-disclosure/internal/clients/redis"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps sessions in redis under a hash of the token.
type SessionStore struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
	log       *slog.Logger
}

var _ app.SessionStore = &SessionStore{}

func New(rdb *redis.Client, cfg *config.Config, log *slog.Logger) *SessionStore {
	return &SessionStore{
		rdb:       rdb,
		namespace: cfg.Infrastructure.Redis.Namespace,
		ttl:       cfg.Session.TTL,
		log:       log,
	}
}

func (this *SessionStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return redis_client.Key(this.namespace, "session", hex.EncodeToString(sum[:]))
}

func (this *SessionStore) Load(ctx context.Context, token string) (app.Session, errs.Error) {
	if token == "" {
		return app.Session{}, nil
	}

	raw, err := this.rdb.Get(ctx, this.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.Session{}, nil
	}
	if err != nil {
		return app.Session{}, errs.Transport(err, "会话存储不可用")
	}

	var s app.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		this.log.Warn("dropping unreadable session", "error", err)
		return app.Session{}, nil
	}
	s.Token = token
	return s, nil
}

func (this *SessionStore) Save(ctx context.Context, s app.Session) errs.Error {
	if s.IsEmpty() {
		return errs.Validation("会话缺少令牌或用户", map[string]string{"token": "is required"})
	}

	raw, err := json.Marshal(app.Session{User: s.User})
	if err != nil {
		return errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	if err := this.rdb.Set(ctx, this.key(s.Token), raw, this.ttl).Err(); err != nil {
		return errs.Transport(err, "会话存储不可用")
	}
	return nil
}

func (this *SessionStore) Clear(ctx context.Context, token string) errs.Error {
	if token == "" {
		return nil
	}
	if err := this.rdb.Del(ctx, this.key(token)).Err(); err != nil {
		return errs.Transport(err, "会话存储不可用")
	}
	return nil
}
