package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndReceive(t *testing.T) {
	t.Parallel()

	eb := NewEventBus()
	defer eb.Close()

	require.NoError(t, eb.SendToCore(LoadPageEvent{Page: 2}))
	require.NoError(t, eb.SendToUI(NavigateEvent{}))

	assert.Equal(t, LoadPageEvent{Page: 2}, <-eb.UIToCore())
	assert.IsType(t, NavigateEvent{}, <-eb.CoreToUI())
}

func TestFullChannelReportsAndTripsBreaker(t *testing.T) {
	t.Parallel()

	eb := NewEventBusWithBuffer(1)
	defer eb.Close()

	var reported []EventBusError
	eb.SetErrorCallback(func(err EventBusError) { reported = append(reported, err) })

	require.NoError(t, eb.SendToUI(NavigateEvent{}))
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, eb.SendToUI(NavigateEvent{}), ErrUIFull)
	}
	assert.Equal(t, CircuitOpen, eb.GetCircuitBreakerState())

	assert.ErrorIs(t, eb.SendToCore(LogoutEvent{}), ErrCircuitOpen)
	require.Len(t, reported, 6)
	assert.Equal(t, "SendToUI", reported[0].Operation)
	assert.Contains(t, reported[5].Error(), "circuit breaker is open")
}

func TestCircuitBreakerHalfOpensAfterTimeout(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	cb := NewCircuitBreaker(2, time.Minute)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	now = now.Add(2 * time.Minute)
	assert.False(t, cb.IsOpen())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}

func TestSendAfterClose(t *testing.T) {
	t.Parallel()

	eb := NewEventBus()
	eb.Close()
	eb.Close()
	assert.ErrorIs(t, eb.SendToCore(LogoutEvent{}), ErrBusClosed)
	assert.ErrorIs(t, eb.SendToUI(NavigateEvent{}), ErrBusClosed)
}
