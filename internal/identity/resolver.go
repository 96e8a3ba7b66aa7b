package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"math/big"
	"strings"
	"time"

	"brewhaven-site/internal/domain"
)

const sessionPrefix = "session_"

// AuthLookup resolves an access token to the authenticated user id.
type AuthLookup interface {
	UserIDForToken(ctx context.Context, token string) (string, error)
}

// Resolver determines the owner identity for cart operations: the
// authenticated user when a valid access token is presented, the durable
// anonymous session token otherwise.
type Resolver struct {
	auth   AuthLookup
	logger *log.Logger
}

func NewResolver(auth AuthLookup, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{auth: auth, logger: logger}
}

// Resolve picks the owner for a request. An authenticated identity takes
// precedence over the session token without invalidating it; a failed token
// lookup falls back to anonymous. When no session token exists yet, a fresh
// one is minted and returned so the caller can persist it client-side.
func (r *Resolver) Resolve(ctx context.Context, accessToken, sessionToken string) (owner domain.Owner, minted string, err error) {
	if accessToken != "" && r.auth != nil {
		userID, lookupErr := r.auth.UserIDForToken(ctx, accessToken)
		if lookupErr == nil {
			return domain.UserOwner(userID), "", nil
		}
		r.logger.Printf("auth lookup failed, treating request as anonymous: %v", lookupErr)
	}

	if strings.HasPrefix(sessionToken, sessionPrefix) {
		return domain.SessionOwner(sessionToken), "", nil
	}

	token, err := NewSessionID()
	if err != nil {
		return domain.Owner{}, "", err
	}
	return domain.SessionOwner(token), token, nil
}

// NewSessionID mints an anonymous session token from a high-resolution
// timestamp and a random suffix, unique with overwhelming probability across
// concurrent first-time visitors.
func NewSessionID() (string, error) {
	suffix, err := randomSuffix(9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d_%s", sessionPrefix, time.Now().UnixNano(), suffix), nil
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) (string, error) {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b), nil
}
