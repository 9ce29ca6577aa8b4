package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// One-time codes live in Redis so multiple API instances share them;
// the TTL is the expiry, no sweeper needed.

const Expiry = 5 * time.Minute

const (
	PurposeSignup = "signup"
	PurposeReset  = "reset"
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

// Issue generates a fresh 6-digit code for the email and stores it with
// the standard expiry, replacing any previous code for the same purpose.
func (s *Store) Issue(ctx context.Context, purpose, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := s.rdb.Set(ctx, key(purpose, email), code, Expiry).Err(); err != nil {
		return "", err
	}

	return code, nil
}

// Verify checks the code and consumes it on success. Expired or unknown
// codes report false without error.
func (s *Store) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	stored, err := s.rdb.Get(ctx, key(purpose, email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if stored != code {
		return false, nil
	}

	if err := s.rdb.Del(ctx, key(purpose, email)).Err(); err != nil {
		return false, err
	}

	return true, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
