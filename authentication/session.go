package authentication

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionKeyPrefix is the redis key prefix for live sessions.
const SessionKeyPrefix = "session:"

var (
	ErrBadToken        = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session expired or revoked")
)

// KV is the key/value store sessions live in.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

// RedisKV adapts a redis client to KV.
type RedisKV struct {
	Client *redis.Client
}

func (r RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

func (r RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	return v, err
}

func (r RedisKV) Del(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

// SessionClaims are carried by a session token. The token ID keys the
// server-side session entry so a session can be revoked before it expires.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and validates server-side sessions.
type Sessions struct {
	kv     KV
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions returns a session manager signing with secret.
func NewSessions(kv KV, secret string, ttl time.Duration) *Sessions {
	return &Sessions{kv: kv, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of a new session.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create opens a session for p and returns its token.
func (s *Sessions) Create(ctx context.Context, p *Principal) (string, error) {
	now := s.now()
	claims := SessionClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if err := s.kv.Set(ctx, SessionKeyPrefix+claims.ID, sessionValue(p), s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Validate returns the principal of a live session.
func (s *Sessions) Validate(ctx context.Context, raw string) (*Principal, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	stored, err := s.kv.Get(ctx, SessionKeyPrefix+claims.ID)
	if err != nil {
		return nil, err
	}
	if stored != sessionValue(&Principal{Name: claims.Subject, Role: claims.Role}) {
		return nil, ErrBadToken
	}
	return &Principal{Name: claims.Subject, Role: claims.Role}, nil
}

// Revoke ends the session behind raw.
func (s *Sessions) Revoke(ctx context.Context, raw string) error {
	claims, err := s.parse(raw)
	if err != nil {
		return err
	}
	return s.kv.Del(ctx, SessionKeyPrefix+claims.ID)
}

func (s *Sessions) parse(raw string) (*SessionClaims, error) {
	tok, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	claims, ok := tok.Claims.(*SessionClaims)
	if !ok || !tok.Valid || claims.ID == "" {
		return nil, ErrBadToken
	}
	return claims, nil
}

func sessionValue(p *Principal) string {
	return strings.Join([]string{p.Role, p.Name}, ":")
}
