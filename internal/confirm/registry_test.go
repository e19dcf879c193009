package confirm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPresenter struct {
	mu     sync.Mutex
	shown  chan Pending
	hidden []string
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{shown: make(chan Pending, 16)}
}

func (p *recordingPresenter) hooks() Presenter {
	return Presenter{
		Show: func(pending Pending) { p.shown <- pending },
		Hide: func(id string) {
			p.mu.Lock()
			p.hidden = append(p.hidden, id)
			p.mu.Unlock()
		},
	}
}

func (p *recordingPresenter) next(t *testing.T) Pending {
	t.Helper()
	select {
	case pending := <-p.shown:
		return pending
	case <-time.After(2 * time.Second):
		t.Fatal("no confirmation shown")
		return Pending{}
	}
}

type answer struct {
	ok  bool
	err error
}

func requestAsync(r *Registry, ctx context.Context, msg string) <-chan answer {
	out := make(chan answer, 1)
	go func() {
		ok, err := r.Request(ctx, Options{Message: msg})
		out <- answer{ok: ok, err: err}
	}()
	return out
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	p := newRecordingPresenter()
	r := NewRegistry(WithPresenter(p.hooks()))
	defer r.Close()

	res := requestAsync(r, context.Background(), "Delete?")
	pending := p.next(t)
	assert.Equal(t, "Delete?", pending.Options.Message)
	assert.Equal(t, DefaultTitle, pending.Options.Title)
	assert.NotEmpty(t, pending.ID)

	require.NoError(t, r.Resolve(pending.ID, true))
	got := <-res
	require.NoError(t, got.err)
	assert.True(t, got.ok)
	assert.Equal(t, 0, r.Len())

	p.mu.Lock()
	assert.Equal(t, []string{pending.ID}, p.hidden)
	p.mu.Unlock()
}

func TestRegistryQueuesOverlappingRequests(t *testing.T) {
	t.Parallel()

	p := newRecordingPresenter()
	r := NewRegistry(WithPresenter(p.hooks()))
	defer r.Close()

	first := requestAsync(r, context.Background(), "first")
	firstPending := p.next(t)

	second := requestAsync(r, context.Background(), "second")
	require.Eventually(t, func() bool { return r.Len() == 2 }, time.Second, time.Millisecond)

	current, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, firstPending.ID, current.ID, "earlier request stays visible")

	require.NoError(t, r.Resolve(firstPending.ID, false))
	assert.False(t, (<-first).ok)

	secondPending := p.next(t)
	assert.Equal(t, "second", secondPending.Options.Message)
	require.NoError(t, r.ResolveCurrent(true))
	assert.True(t, (<-second).ok)
}

func TestRegistryRejectPolicy(t *testing.T) {
	t.Parallel()

	p := newRecordingPresenter()
	r := NewRegistry(WithPolicy(PolicyReject), WithPresenter(p.hooks()))
	defer r.Close()

	first := requestAsync(r, context.Background(), "first")
	pending := p.next(t)

	ok, err := r.Request(context.Background(), Options{Message: "second"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, r.Resolve(pending.ID, true))
	assert.True(t, (<-first).ok)
}

func TestRegistryStaleResolve(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	defer r.Close()
	assert.ErrorIs(t, r.Resolve("missing", true), ErrUnknownRequest)
	assert.ErrorIs(t, r.ResolveCurrent(true), ErrUnknownRequest)
}

func TestRegistryTimeout(t *testing.T) {
	t.Parallel()

	p := newRecordingPresenter()
	r := NewRegistry(WithTimeout(20*time.Millisecond), WithPresenter(p.hooks()))
	defer r.Close()

	ok, err := r.Request(context.Background(), Options{Message: "slow"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryCancelPromotesNext(t *testing.T) {
	t.Parallel()

	p := newRecordingPresenter()
	r := NewRegistry(WithPresenter(p.hooks()))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	first := requestAsync(r, ctx, "first")
	p.next(t)
	second := requestAsync(r, context.Background(), "second")
	require.Eventually(t, func() bool { return r.Len() == 2 }, time.Second, time.Millisecond)

	cancel()
	got := <-first
	assert.ErrorIs(t, got.err, context.Canceled)

	promoted := p.next(t)
	assert.Equal(t, "second", promoted.Options.Message)
	require.NoError(t, r.Resolve(promoted.ID, true))
	assert.True(t, (<-second).ok)
}

func TestRegistryCloseFailsOutstanding(t *testing.T) {
	t.Parallel()

	p := newRecordingPresenter()
	r := NewRegistry(WithPresenter(p.hooks()))

	res := requestAsync(r, context.Background(), "pending")
	p.next(t)
	r.Close()

	got := <-res
	assert.ErrorIs(t, got.err, ErrClosed)

	_, err := r.Request(context.Background(), Options{Message: "late"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRegistryDrivesSequence(t *testing.T) {
	t.Parallel()

	p := newRecordingPresenter()
	r := NewRegistry(WithPresenter(p.hooks()))
	defer r.Close()

	done := make(chan answer, 1)
	go func() {
		ok, err := Sequence{P: 1, Max: 3}.Run(context.Background(), r, "Delete?", Options{Danger: true})
		done <- answer{ok: ok, err: err}
	}()

	var messages []string
	for i := 0; i < 3; i++ {
		pending := p.next(t)
		messages = append(messages, pending.Options.Message)
		require.NoError(t, r.Resolve(pending.ID, true))
	}
	got := <-done
	require.NoError(t, got.err)
	assert.True(t, got.ok)
	assert.Equal(t, []string{"Delete?", "really Delete?", "really really Delete?"}, messages)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PolicyReject, ParsePolicy("reject"))
	assert.Equal(t, PolicyQueue, ParsePolicy("queue"))
	assert.Equal(t, PolicyQueue, ParsePolicy(""))
	assert.Equal(t, "reject", PolicyReject.String())
}
