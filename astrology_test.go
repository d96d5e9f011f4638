package astrology

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcmodersd/astrology/prokerala"
	"github.com/mcmodersd/astrology/zodiac"
)

// stubFetcher plays back a scripted sequence of results; once the script
// runs out it repeats the last entry.
type stubFetcher struct {
	name    string
	script  []error
	calls   int
	fetched *prokerala.Prediction
}

func newStubFetcher(name string, script ...error) *stubFetcher {
	return &stubFetcher{
		name:   name,
		script: script,
		fetched: &prokerala.Prediction{
			SignID:   1,
			SignName: name,
			Text:     "stub prediction from " + name,
		},
	}
}

func (s *stubFetcher) DailyPrediction(_ context.Context, _ zodiac.Sign) (*prokerala.Prediction, error) {
	idx := s.calls
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.calls++
	if err := s.script[idx]; err != nil {
		return nil, err
	}
	return s.fetched, nil
}

func blockedErr() error {
	return &prokerala.APIError{
		Code:       prokerala.ErrCodeRequest,
		StatusCode: http.StatusForbidden,
		Message:    "prediction endpoint returned HTTP 403",
	}
}

func serverErr() error {
	return &prokerala.APIError{
		Code:       prokerala.ErrCodeRequest,
		StatusCode: http.StatusInternalServerError,
		Message:    "prediction endpoint returned HTTP 500",
	}
}

func TestNew_CredentialValidation(t *testing.T) {
	_, err := New([]string{"a", "b"}, []string{"s1"})
	assert.ErrorIs(t, err, ErrCredentialMismatch)

	_, err = New(nil, nil)
	assert.ErrorIs(t, err, ErrNoCredentials)

	coordinator, err := New([]string{"a", "b"}, []string{"s1", "s2"})
	require.NoError(t, err)
	assert.Len(t, coordinator.Clients(), 2)
}

func TestDailyPrediction_RotatesPastBlockedClients(t *testing.T) {
	blocked0 := newStubFetcher("c0", blockedErr())
	blocked1 := newStubFetcher("c1", blockedErr())
	healthy := newStubFetcher("c2", nil)

	coordinator, err := NewFromClients(blocked0, blocked1, healthy)
	require.NoError(t, err)

	prediction, err := coordinator.DailyPrediction(context.Background(), zodiac.Aries)
	require.NoError(t, err)

	assert.Equal(t, "stub prediction from c2", prediction.Text)
	assert.Equal(t, 2, coordinator.index, "should end selected on the third client")
	assert.Equal(t, 2, coordinator.swaps, "exactly two rotations")
	assert.Equal(t, 1, blocked0.calls)
	assert.Equal(t, 1, blocked1.calls)
	assert.Equal(t, 1, healthy.calls)
}

func TestDailyPrediction_AllClientsBlocked(t *testing.T) {
	const n = 4
	clients := make([]Fetcher, n)
	stubs := make([]*stubFetcher, n)
	for i := range clients {
		stubs[i] = newStubFetcher(fmt.Sprintf("c%d", i), blockedErr())
		clients[i] = stubs[i]
	}

	coordinator, err := NewFromClients(clients...)
	require.NoError(t, err)

	_, err = coordinator.DailyPrediction(context.Background(), zodiac.Taurus)
	assert.ErrorIs(t, err, ErrAllClientsBlocked)

	total := 0
	for _, stub := range stubs {
		total += stub.calls
	}
	assert.LessOrEqual(t, total, n+1, "rotation must stay bounded")

	// The swap budget is spent for the lifetime of the instance, so the
	// next call fails straight away on the first block signal.
	_, err = coordinator.DailyPrediction(context.Background(), zodiac.Taurus)
	assert.ErrorIs(t, err, ErrAllClientsBlocked)

	totalAfter := 0
	for _, stub := range stubs {
		totalAfter += stub.calls
	}
	assert.Equal(t, total+1, totalAfter, "single attempt on the already-selected client")
}

func TestDailyPrediction_NonBlockFailureDoesNotRotate(t *testing.T) {
	failing := newStubFetcher("c0", serverErr())
	standby := newStubFetcher("c1", nil)

	coordinator, err := NewFromClients(failing, standby)
	require.NoError(t, err)

	_, err = coordinator.DailyPrediction(context.Background(), zodiac.Gemini)
	require.Error(t, err)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)

	var apiErr *prokerala.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	assert.Equal(t, 0, coordinator.index, "no rotation on a non-block failure")
	assert.Equal(t, 0, coordinator.swaps)
	assert.Equal(t, 0, standby.calls)
}

func TestDailyPrediction_RotationStatePersistsAcrossCalls(t *testing.T) {
	// First call rotates off client 0; the second call starts from the
	// client the first call left selected.
	c0 := newStubFetcher("c0", blockedErr())
	c1 := newStubFetcher("c1", nil)
	c2 := newStubFetcher("c2", nil)

	coordinator, err := NewFromClients(c0, c1, c2)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = coordinator.DailyPrediction(ctx, zodiac.Cancer)
	require.NoError(t, err)
	assert.Equal(t, 1, coordinator.index)

	_, err = coordinator.DailyPrediction(ctx, zodiac.Cancer)
	require.NoError(t, err)
	assert.Equal(t, 1, coordinator.index, "start index is not reset between calls")
	assert.Equal(t, 1, c0.calls)
	assert.Equal(t, 2, c1.calls)
	assert.Equal(t, 0, c2.calls)
}

func TestDailyPrediction_TextualBlockSignalTriggersRotation(t *testing.T) {
	// Wrapped transport errors only mention the status in their message.
	wrapped := newStubFetcher("c0", fmt.Errorf("request failed: upstream said HTTP 403 forbidden"))
	healthy := newStubFetcher("c1", nil)

	coordinator, err := NewFromClients(wrapped, healthy)
	require.NoError(t, err)

	prediction, err := coordinator.DailyPrediction(context.Background(), zodiac.Leo)
	require.NoError(t, err)
	assert.Equal(t, "stub prediction from c1", prediction.Text)
	assert.Equal(t, 1, coordinator.swaps)
}

func TestDailyPredictionForDate(t *testing.T) {
	healthy := newStubFetcher("c0", nil)
	coordinator, err := NewFromClients(healthy)
	require.NoError(t, err)

	_, err = coordinator.DailyPredictionForDate(context.Background(), 3, 21)
	require.NoError(t, err)
	assert.Equal(t, 1, healthy.calls)

	_, err = coordinator.DailyPredictionForDate(context.Background(), 0, 5)
	assert.ErrorIs(t, err, zodiac.ErrInvalidDate)
	assert.Equal(t, 1, healthy.calls, "invalid dates never reach a client")
}

func TestSetMetricsCallback_CountsRotations(t *testing.T) {
	counts := map[string]float64{}

	coordinator, err := NewFromClients(
		newStubFetcher("c0", blockedErr()),
		newStubFetcher("c1", nil),
	)
	require.NoError(t, err)
	coordinator.SetMetricsCallback(func(metric string, value float64) {
		counts[metric] += value
	})

	_, err = coordinator.DailyPrediction(context.Background(), zodiac.Virgo)
	require.NoError(t, err)

	assert.Equal(t, float64(2), counts["astrology_attempt"])
	assert.Equal(t, float64(1), counts["astrology_rotation"])
	assert.Equal(t, float64(1), counts["astrology_success"])
}

func TestUnavailableError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &UnavailableError{Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
