// Package astrology coordinates daily horoscope fetches across an ordered
// list of API clients. When the current credential is rate-limited or
// blocked upstream it rotates to the next one and retries, bounded to one
// full pass over the configured clients.
package astrology

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcmodersd/astrology/prokerala"
	"github.com/mcmodersd/astrology/zodiac"
)

// Fetcher is the minimal surface the coordinator needs from a client.
// *prokerala.Client satisfies it.
type Fetcher interface {
	DailyPrediction(ctx context.Context, sign zodiac.Sign) (*prokerala.Prediction, error)
}

// MetricsCallback receives named counter increments when set.
type MetricsCallback func(metric string, value float64)

// Astrology rotates over an ordered list of prediction clients. Rotation
// state persists for the lifetime of the instance: the starting client of a
// call is whichever one the previous call left selected, and the swap
// budget is never replenished, so an instance that has exhausted every
// credential stays exhausted.
//
// An instance is not safe for concurrent use; use one per caller.
type Astrology struct {
	clients []Fetcher
	index   int
	swaps   int
	metrics MetricsCallback
}

// New builds a coordinator from parallel client id / client secret lists
// using default client settings.
func New(clientIDs, clientSecrets []string) (*Astrology, error) {
	return NewWithConfig(prokerala.Config{}, clientIDs, clientSecrets)
}

// NewSingle builds a coordinator around a single credential pair.
func NewSingle(clientID, clientSecret string) (*Astrology, error) {
	return New([]string{clientID}, []string{clientSecret})
}

// NewWithConfig builds a coordinator from parallel credential lists, with
// base carrying shared client settings (endpoints, timeouts, rate limits).
// The credential fields of base are overwritten per pair.
func NewWithConfig(base prokerala.Config, clientIDs, clientSecrets []string) (*Astrology, error) {
	if len(clientIDs) != len(clientSecrets) {
		return nil, fmt.Errorf("%w: %d ids, %d secrets", ErrCredentialMismatch, len(clientIDs), len(clientSecrets))
	}
	if len(clientIDs) == 0 {
		return nil, ErrNoCredentials
	}

	clients := make([]Fetcher, len(clientIDs))
	for i := range clientIDs {
		cfg := base
		cfg.ClientID = clientIDs[i]
		cfg.ClientSecret = clientSecrets[i]
		client, err := prokerala.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("astrology: building client %d: %w", i, err)
		}
		clients[i] = client
	}

	return NewFromClients(clients...)
}

// NewFromClients builds a coordinator over pre-built clients, in rotation
// order.
func NewFromClients(clients ...Fetcher) (*Astrology, error) {
	if len(clients) == 0 {
		return nil, ErrNoCredentials
	}
	return &Astrology{clients: clients}, nil
}

// SetMetricsCallback sets a callback for counter increments. It is
// forwarded to any underlying client that supports one.
func (a *Astrology) SetMetricsCallback(callback MetricsCallback) {
	a.metrics = callback
	for _, client := range a.clients {
		if mc, ok := client.(interface {
			SetMetricsCallback(prokerala.MetricsCallback)
		}); ok {
			mc.SetMetricsCallback(prokerala.MetricsCallback(callback))
		}
	}
}

// Clients returns the configured clients in rotation order.
func (a *Astrology) Clients() []Fetcher {
	clients := make([]Fetcher, len(a.clients))
	copy(clients, a.clients)
	return clients
}

// DailyPrediction fetches the daily prediction for a sign, rotating to the
// next configured client whenever the current one reports a block signal.
// A blocked rotation past every client fails with ErrAllClientsBlocked;
// any other failure surfaces immediately as an *UnavailableError.
func (a *Astrology) DailyPrediction(ctx context.Context, sign zodiac.Sign) (*prokerala.Prediction, error) {
	callID := uuid.NewString()

	for {
		prediction, err := a.clients[a.index].DailyPrediction(ctx, sign)
		a.emitMetric("astrology_attempt", 1)
		if err == nil {
			a.emitMetric("astrology_success", 1)
			return prediction, nil
		}

		if !prokerala.IsBlocked(err) {
			a.emitMetric("astrology_failure", 1)
			log.Error().
				Err(err).
				Str("call_id", callID).
				Str("sign", sign.Slug()).
				Int("client_index", a.index).
				Msg("daily prediction failed")
			return nil, &UnavailableError{Cause: err}
		}

		if a.swaps >= len(a.clients) {
			a.emitMetric("astrology_exhausted", 1)
			log.Error().
				Str("call_id", callID).
				Int("swaps", a.swaps).
				Msg("every configured credential is blocked")
			return nil, fmt.Errorf("%w: last error: %v", ErrAllClientsBlocked, err)
		}

		a.swaps++
		a.index = (a.index + 1) % len(a.clients)
		a.emitMetric("astrology_rotation", 1)
		log.Warn().
			Str("call_id", callID).
			Int("client_index", a.index).
			Int("swaps", a.swaps).
			Msg("credential blocked, rotating to next client")
	}
}

// DailyPredictionForDate resolves the date to its zodiac sign, then fetches
// that sign's daily prediction.
func (a *Astrology) DailyPredictionForDate(ctx context.Context, month, day int) (*prokerala.Prediction, error) {
	sign, err := zodiac.SignFor(month, day)
	if err != nil {
		return nil, err
	}
	return a.DailyPrediction(ctx, sign)
}

func (a *Astrology) emitMetric(metric string, value float64) {
	if a.metrics != nil {
		a.metrics(metric, value)
	}
}
