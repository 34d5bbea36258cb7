package security

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Origin nonces prove a submission or moderation command came from a page we
// served, and are single-use. The server issues them bound to a context
// string ("upload:<event>", "moderate:<action>") and checks them before any
// other work.

var (
	ErrNonceInvalid = errors.New("nonce invalid")
	ErrNonceExpired = errors.New("nonce expired")
	ErrNonceReplay  = errors.New("nonce already used")
)

func IssueNonce(secret, context string, ttl time.Duration, now time.Time) (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	exp := strconv.FormatInt(now.Add(ttl).Unix(), 10)
	salt := base64.RawURLEncoding.EncodeToString(raw)
	sig := signNonce(secret, context, exp, salt)

	return strings.Join([]string{exp, salt, sig}, "."), nil
}

func VerifyNonce(secret, context, nonce string, now time.Time) error {
	parts := strings.Split(nonce, ".")
	if len(parts) != 3 {
		return ErrNonceInvalid
	}
	exp, salt, sig := parts[0], parts[1], parts[2]

	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return ErrNonceInvalid
	}
	if now.After(time.Unix(expUnix, 0)) {
		return ErrNonceExpired
	}

	expected := signNonce(secret, context, exp, salt)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return ErrNonceInvalid
	}
	return nil
}

func signNonce(secret, context, exp, salt string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join([]string{context, exp, salt}, "\n")))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// ReplayGuard marks nonces as consumed in redis so a captured value cannot
// be submitted twice.
type ReplayGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReplayGuard(client *redis.Client, ttl time.Duration) *ReplayGuard {
	return &ReplayGuard{client: client, ttl: ttl}
}

func (g *ReplayGuard) Consume(ctx context.Context, scope, nonce string) error {
	key := fmt.Sprintf("nonce:%s:%s", scope, nonce)
	ok, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return fmt.Errorf("nonce setnx: %w", err)
	}
	if !ok {
		return ErrNonceReplay
	}
	return nil
}
