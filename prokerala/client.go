// Package prokerala is a client for the Prokerala horoscope API. A Client
// wraps one credential pair and handles OAuth2 client-credentials
// authentication with lazy token refresh, request pacing, and circuit
// breaking around the daily-prediction endpoint.
package prokerala

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/mcmodersd/astrology/zodiac"
)

const (
	defaultTokenURL      = "https://api.prokerala.com/token"
	defaultPredictionURL = "https://api.prokerala.com/v2/horoscope/daily"
)

// MetricsCallback receives named counter increments when set.
type MetricsCallback func(metric string, value float64)

// Config holds client configuration. Zero values get conservative defaults
// suitable for the Prokerala free tier.
type Config struct {
	ClientID     string
	ClientSecret string

	TokenURL      string
	PredictionURL string

	RequestTimeout time.Duration
	RateLimitRPS   float64
	UserAgent      string

	Breaker BreakerConfig
}

// BreakerConfig controls the per-client circuit breaker. The trip threshold
// counts consecutive failures, so a single blocked request never opens the
// circuit.
type BreakerConfig struct {
	Disabled            bool
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// Client talks to the Prokerala API with a single credential pair. It is
// safe for sequential use; callers needing parallelism should use one
// Client per goroutine.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	tokens     *tokenSource
	metrics    MetricsCallback
	now        func() time.Time
}

// NewClient creates a Prokerala API client for one credential pair.
func NewClient(config Config) (*Client, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("prokerala: client id and client secret are required")
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultTokenURL
	}
	if config.PredictionURL == "" {
		config.PredictionURL = defaultPredictionURL
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if config.RateLimitRPS == 0 {
		config.RateLimitRPS = 5.0
	}
	if config.UserAgent == "" {
		config.UserAgent = "astrology-go/1.0"
	}
	if config.Breaker.ConsecutiveFailures == 0 {
		config.Breaker.ConsecutiveFailures = 5
	}
	if config.Breaker.OpenTimeout == 0 {
		config.Breaker.OpenTimeout = 60 * time.Second
	}

	httpClient := &http.Client{
		Timeout: config.RequestTimeout,
	}

	burst := int(config.RateLimitRPS)
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimitRPS), burst),
		tokens:     newTokenSource(config.ClientID, config.ClientSecret, config.TokenURL, httpClient),
		now:        time.Now,
	}

	if !config.Breaker.Disabled {
		threshold := config.Breaker.ConsecutiveFailures
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "prokerala",
			Timeout: config.Breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}

	return c, nil
}

// SetMetricsCallback sets a callback for counter increments.
func (c *Client) SetMetricsCallback(callback MetricsCallback) {
	c.metrics = callback
}

// TokenURL returns the configured token endpoint.
func (c *Client) TokenURL() string { return c.config.TokenURL }

// PredictionURL returns the configured daily-prediction endpoint.
func (c *Client) PredictionURL() string { return c.config.PredictionURL }

// DailyPrediction fetches the daily horoscope prediction for a sign. It
// refreshes the access token first when needed, so one call costs at most
// two upstream round-trips.
func (c *Client) DailyPrediction(ctx context.Context, sign zodiac.Sign) (*Prediction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Code: ErrCodeRequest, Message: "rate limit wait aborted", Cause: err}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.emitMetric("prokerala_auth_failure", 1)
		return nil, err
	}

	start := c.now()
	prediction, err := c.fetchThroughBreaker(ctx, token, sign)
	if err != nil {
		c.emitMetric("prokerala_request_failure", 1)
		return nil, err
	}
	c.emitMetric("prokerala_request", 1)

	log.Debug().
		Str("sign", sign.Slug()).
		Str("date", prediction.DateString()).
		Dur("duration", c.now().Sub(start)).
		Msg("daily prediction retrieved")

	return prediction, nil
}

// DailyPredictionForDate resolves the date to its sign first, then fetches
// that sign's daily prediction.
func (c *Client) DailyPredictionForDate(ctx context.Context, month, day int) (*Prediction, error) {
	sign, err := zodiac.SignFor(month, day)
	if err != nil {
		return nil, err
	}
	return c.DailyPrediction(ctx, sign)
}

func (c *Client) fetchThroughBreaker(ctx context.Context, token string, sign zodiac.Sign) (*Prediction, error) {
	if c.breaker == nil {
		return c.fetch(ctx, token, sign)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, token, sign)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.emitMetric("prokerala_circuit_open", 1)
			return nil, &APIError{Code: ErrCodeCircuitOpen, Message: "circuit breaker open", Cause: err}
		}
		return nil, err
	}
	return result.(*Prediction), nil
}

func (c *Client) fetch(ctx context.Context, token string, sign zodiac.Sign) (*Prediction, error) {
	query := url.Values{}
	query.Set("sign", sign.Slug())
	query.Set("datetime", c.now().UTC().Format(time.RFC3339))

	requestURL := c.config.PredictionURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &APIError{Code: ErrCodeRequest, Message: "building prediction request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Code: ErrCodeRequest, Message: "prediction request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Code:       ErrCodeRequest,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("prediction endpoint returned HTTP %d", resp.StatusCode),
		}
	}

	var envelope predictionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &APIError{Code: ErrCodeDecode, Message: "decoding prediction response", Cause: err}
	}

	return envelope.Data.DailyPrediction.toPrediction()
}

func (c *Client) emitMetric(metric string, value float64) {
	if c.metrics != nil {
		c.metrics(metric, value)
	}
}
