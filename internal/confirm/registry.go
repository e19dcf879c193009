package confirm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBusy           = errors.New("confirm: another confirmation is pending")
	ErrTimeout        = errors.New("confirm: confirmation timed out")
	ErrClosed         = errors.New("confirm: registry closed")
	ErrUnknownRequest = errors.New("confirm: unknown or stale confirmation")
)

// Policy decides what happens to a request made while another is visible.
type Policy int

const (
	// PolicyQueue shows overlapping requests one after another, oldest first.
	PolicyQueue Policy = iota
	// PolicyReject fails overlapping requests with ErrBusy.
	PolicyReject
)

// ParsePolicy maps a config value to a Policy. Unknown values queue.
func ParsePolicy(s string) Policy {
	if s == "reject" {
		return PolicyReject
	}
	return PolicyQueue
}

func (p Policy) String() string {
	if p == PolicyReject {
		return "reject"
	}
	return "queue"
}

// Pending is a request waiting for an answer.
type Pending struct {
	ID        string
	Options   Options
	CreatedAt time.Time
}

// Presenter is told when a request becomes visible and when it goes away.
// Both hooks run with the registry lock held and must not block or call back
// into the registry.
type Presenter struct {
	Show func(Pending)
	Hide func(id string)
}

type waiter struct {
	pending Pending
	result  chan bool
}

// Registry mediates between any number of requesters and one visible prompt.
// The head of the queue is the visible prompt.
type Registry struct {
	mu        sync.Mutex
	policy    Policy
	timeout   time.Duration
	presenter Presenter
	queue     []*waiter
	closed    bool
	now       func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPolicy sets the overlap policy.
func WithPolicy(p Policy) RegistryOption {
	return func(r *Registry) { r.policy = p }
}

// WithTimeout rejects requests left unanswered for d. Zero disables it.
func WithTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) { r.timeout = d }
}

// WithPresenter installs the show/hide hooks.
func WithPresenter(p Presenter) RegistryOption {
	return func(r *Registry) { r.presenter = p }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Confirm implements Confirmer.
func (r *Registry) Confirm(ctx context.Context, opts Options) (bool, error) {
	return r.Request(ctx, opts)
}

// Request shows opts (or queues it) and blocks until it is resolved, ctx ends,
// the registry timeout fires, or the registry is closed.
func (r *Registry) Request(ctx context.Context, opts Options) (bool, error) {
	w, err := r.enqueue(opts)
	if err != nil {
		return false, err
	}

	var expired <-chan time.Time
	if r.timeout > 0 {
		timer := time.NewTimer(r.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case v, ok := <-w.result:
		if !ok {
			return false, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return r.abandon(w, ctx.Err())
	case <-expired:
		return r.abandon(w, ErrTimeout)
	}
}

func (r *Registry) enqueue(opts Options) (*waiter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if r.policy == PolicyReject && len(r.queue) > 0 {
		return nil, ErrBusy
	}
	w := &waiter{
		pending: Pending{ID: uuid.NewString(), Options: opts.WithDefaults(), CreatedAt: r.now()},
		result:  make(chan bool, 1),
	}
	r.queue = append(r.queue, w)
	if len(r.queue) == 1 {
		r.show(w.pending)
	}
	return w, nil
}

// abandon drops w after a cancellation. If Resolve won the race the answer is
// already buffered and is returned instead of cause.
func (r *Registry) abandon(w *waiter, cause error) (bool, error) {
	r.mu.Lock()
	idx := r.indexOf(w)
	if idx >= 0 {
		r.removeAt(idx)
	}
	r.mu.Unlock()
	if idx >= 0 {
		return false, cause
	}
	v, ok := <-w.result
	if !ok {
		return false, ErrClosed
	}
	return v, nil
}

// Resolve answers the visible request with the given id.
func (r *Registry) Resolve(id string, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 || r.queue[0].pending.ID != id {
		return ErrUnknownRequest
	}
	w := r.queue[0]
	w.result <- value
	r.removeAt(0)
	return nil
}

// ResolveCurrent answers whatever request is visible.
func (r *Registry) ResolveCurrent(value bool) error {
	r.mu.Lock()
	if len(r.queue) == 0 {
		r.mu.Unlock()
		return ErrUnknownRequest
	}
	id := r.queue[0].pending.ID
	r.mu.Unlock()
	return r.Resolve(id, value)
}

// Current returns the visible request, if any.
func (r *Registry) Current() (Pending, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return Pending{}, false
	}
	return r.queue[0].pending, true
}

// Len counts visible plus queued requests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Close fails every outstanding request with ErrClosed and refuses new ones.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if len(r.queue) > 0 {
		r.hide(r.queue[0].pending.ID)
	}
	for _, w := range r.queue {
		close(w.result)
	}
	r.queue = nil
}

func (r *Registry) indexOf(w *waiter) int {
	for i, candidate := range r.queue {
		if candidate == w {
			return i
		}
	}
	return -1
}

// removeAt must be called with mu held.
func (r *Registry) removeAt(idx int) {
	id := r.queue[idx].pending.ID
	r.queue = append(r.queue[:idx], r.queue[idx+1:]...)
	if idx != 0 {
		return
	}
	r.hide(id)
	if len(r.queue) > 0 {
		r.show(r.queue[0].pending)
	}
}

func (r *Registry) show(p Pending) {
	if r.presenter.Show != nil {
		r.presenter.Show(p)
	}
}

func (r *Registry) hide(id string) {
	if r.presenter.Hide != nil {
		r.presenter.Hide(id)
	}
}
