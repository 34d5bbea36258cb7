package security

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NonceService issues and verifies origin nonces, consuming each verified
// nonce through the redis-backed replay guard.
type NonceService struct {
	secret string
	ttl    time.Duration
	guard  *ReplayGuard
}

func NewNonceService(secret string, ttl time.Duration, client *redis.Client) *NonceService {
	return &NonceService{
		secret: secret,
		ttl:    ttl,
		guard:  NewReplayGuard(client, ttl),
	}
}

func (s *NonceService) Issue(ctx context.Context, nonceContext string) (string, error) {
	return IssueNonce(s.secret, nonceContext, s.ttl, time.Now())
}

func (s *NonceService) Verify(ctx context.Context, nonceContext, nonce string) error {
	if err := VerifyNonce(s.secret, nonceContext, nonce, time.Now()); err != nil {
		return err
	}
	return s.guard.Consume(ctx, nonceContext, nonce)
}
