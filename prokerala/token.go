package prokerala

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// tokenSource caches a single OAuth2 client-credentials access token and
// refreshes it lazily once it is absent or expired. It never retries; the
// caller decides what to do with an authentication failure.
type tokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func newTokenSource(clientID, clientSecret, tokenURL string, httpClient *http.Client) *tokenSource {
	return &tokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient:   httpClient,
		now:          time.Now,
	}
}

// Token returns a valid access token, refreshing it first if needed.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.accessToken != "" && ts.now().Before(ts.expiresAt) {
		return ts.accessToken, nil
	}

	if err := ts.refresh(ctx); err != nil {
		return "", err
	}
	return ts.accessToken, nil
}

// refresh performs the client-credentials grant. Caller holds ts.mu.
func (ts *tokenSource) refresh(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", ts.clientID)
	form.Set("client_secret", ts.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &APIError{Code: ErrCodeAuth, Message: "building token request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return &APIError{Code: ErrCodeAuth, Message: "token request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			Code:       ErrCodeAuth,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("token endpoint returned HTTP %d", resp.StatusCode),
		}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return &APIError{Code: ErrCodeAuth, Message: "decoding token response", Cause: err}
	}
	if tr.AccessToken == "" {
		return &APIError{Code: ErrCodeAuth, Message: "token endpoint returned an empty access token"}
	}

	ts.accessToken = tr.AccessToken
	ts.expiresAt = ts.now().Add(time.Duration(tr.ExpiresIn) * time.Second)

	log.Debug().
		Time("expires_at", ts.expiresAt).
		Msg("prokerala access token refreshed")

	return nil
}
