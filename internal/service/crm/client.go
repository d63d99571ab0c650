// Package crm submits contacts to HubSpot and manages the OAuth tokens
// required to do so.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"voice2crm-service/internal/config"
	"voice2crm-service/internal/models"
	"voice2crm-service/internal/observability/logging"
	"voice2crm-service/internal/observability/metrics"
	"voice2crm-service/internal/store"
)

// refreshSkew refreshes tokens slightly before their expiry.
const refreshSkew = 60 * time.Second

// ErrUnknownClient is returned when no token is stored for a client id.
// No CRM call is attempted in that case.
var ErrUnknownClient = errors.New("unknown client id")

// ErrInvalidState is returned when the OAuth callback carries a state that
// was never issued, already consumed, or expired.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// TokenExchangeError wraps a failed authorization-code or refresh exchange.
type TokenExchangeError struct {
	Err error
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}

// Client talks to the HubSpot contacts API.
type Client struct {
	oauth   *oauth2.Config
	baseURL string
	apiKey  string
	http    *http.Client
	tokens  store.TokenStore
	states  *stateRegistry
	metrics *metrics.Metrics
}

// New creates a HubSpot client backed by the given token store.
func New(cfg config.HubSpotConfig, tokens store.TokenStore) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		tokens:  tokens,
		states:  newStateRegistry(),
		metrics: metrics.DefaultMetrics,
	}
}

// HasStaticKey reports whether a private-app key is configured for the
// no-client-id submission route.
func (c *Client) HasStaticKey() bool {
	return c.apiKey != ""
}

// BeginAuth returns the provider authorize URL with a fresh state token.
// The state is registered so the callback can verify it.
func (c *Client) BeginAuth() string {
	state := c.states.Issue()
	return c.oauth.AuthCodeURL(state)
}

// CompleteAuth verifies the callback state, exchanges the authorization
// code for a token bundle, persists it under a freshly minted client id and
// returns that id.
func (c *Client) CompleteAuth(ctx context.Context, code, state string) (string, error) {
	if !c.states.Consume(state) {
		return "", ErrInvalidState
	}

	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	c.metrics.RecordTokenExchange(err)
	if err != nil {
		return "", &TokenExchangeError{Err: err}
	}

	clientID := uuid.NewString()
	if err := c.tokens.Put(ctx, clientID, tokenRecord(tok)); err != nil {
		return "", fmt.Errorf("persisting token bundle: %w", err)
	}

	lg := logging.WithClient(clientID)
	lg.Info().
		Str("component", "crm").
		Time("expiresAt", tok.Expiry).
		Msg("OAuth token exchanged and stored")

	return clientID, nil
}

// Submit creates one HubSpot contact per entry, authenticating with the
// token stored for clientID. The batch is not transactional: each contact
// gets its own result and one failure never aborts the others.
func (c *Client) Submit(ctx context.Context, clientID string, contacts []map[string]string) ([]models.SubmissionResult, error) {
	rec, err := c.tokens.Get(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownClient
	}
	if err != nil {
		return nil, fmt.Errorf("loading token bundle: %w", err)
	}

	rec = c.maybeRefresh(ctx, clientID, rec)

	return c.submitAll(ctx, rec.AccessToken, contacts), nil
}

// SubmitWithKey creates contacts using the configured private-app key.
func (c *Client) SubmitWithKey(ctx context.Context, contacts []map[string]string) ([]models.SubmissionResult, error) {
	if c.apiKey == "" {
		return nil, errors.New("no static HubSpot API key configured")
	}
	return c.submitAll(ctx, c.apiKey, contacts), nil
}

// maybeRefresh exchanges the refresh token when the access token is at or
// past expiry, persisting the new bundle. On refresh failure the stale
// token is kept; the submission will then fail per item.
func (c *Client) maybeRefresh(ctx context.Context, clientID string, rec *store.TokenRecord) *store.TokenRecord {
	if rec.RefreshToken == "" || !rec.Expired(refreshSkew) {
		return rec
	}

	src := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		Expiry:       rec.ExpiresAt,
	})
	tok, err := src.Token()
	c.metrics.RecordTokenRefresh(err)
	if err != nil {
		lg := logging.WithClient(clientID)
		lg.Error().
			Err(err).
			Str("component", "crm").
			Msg("Token refresh failed, proceeding with stale token")
		return rec
	}

	fresh := tokenRecord(tok)
	if err := c.tokens.Put(ctx, clientID, fresh); err != nil {
		lg := logging.WithClient(clientID)
		lg.Error().
			Err(err).
			Str("component", "crm").
			Msg("Failed to persist refreshed token")
	}
	return fresh
}

func (c *Client) submitAll(ctx context.Context, bearer string, contacts []map[string]string) []models.SubmissionResult {
	results := make([]models.SubmissionResult, 0, len(contacts))
	for _, contact := range contacts {
		start := time.Now()
		detail, err := c.createContact(ctx, bearer, contact)
		c.metrics.RecordSubmission(err == nil, time.Since(start).Seconds())

		if err != nil {
			lg := logging.WithComponent("crm")
			lg.Warn().
				Err(err).
				Msg("Contact creation failed")
			results = append(results, models.SubmissionResult{
				Contact: contact,
				Status:  models.StatusError,
				Detail:  err.Error(),
			})
			continue
		}
		results = append(results, models.SubmissionResult{
			Contact: contact,
			Status:  models.StatusSuccess,
			Detail:  detail,
		})
	}
	return results
}

// createContact issues one create call. A 201 is success; any other status
// is an error carrying the provider's message when the body parses.
func (c *Client) createContact(ctx context.Context, bearer string, contact map[string]string) (string, error) {
	payload, err := json.Marshal(map[string]any{"properties": contact})
	if err != nil {
		return "", fmt.Errorf("encoding contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/crm/v3/objects/contacts", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling hubspot: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("hubspot %d: %s", resp.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("hubspot %d", resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(body, &created) == nil && created.ID != "" {
		return "created contact " + created.ID, nil
	}
	return "created", nil
}

// oauthContext routes oauth2's internal HTTP calls through our client so
// the configured timeout applies to the token legs too.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

func tokenRecord(tok *oauth2.Token) *store.TokenRecord {
	raw, _ := json.Marshal(tok)
	return &store.TokenRecord{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
		Raw:          raw,
		UpdatedAt:    time.Now(),
	}
}
