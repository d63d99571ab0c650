// Package store persists OAuth token bundles keyed by client id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when no token record exists for a client id.
var ErrNotFound = errors.New("token record not found")

// TokenRecord is the token bundle persisted for one CRM client.
type TokenRecord struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time       `json:"expires_at,omitempty"`
	Raw          json.RawMessage `json:"raw,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Expired reports whether the access token is past its expiry, with the
// given skew subtracted so callers can refresh slightly early.
func (r *TokenRecord) Expired(skew time.Duration) bool {
	if r.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(r.ExpiresAt.Add(-skew))
}

// TokenStore is the injected persistence abstraction for token bundles.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*TokenRecord, error)

	// Put stores or replaces the record for id.
	Put(ctx context.Context, id string, rec *TokenRecord) error
}
