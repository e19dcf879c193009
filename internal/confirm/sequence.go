package confirm

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// Options describes one confirmation prompt.
type Options struct {
	Title             string `json:"title,omitempty"`
	Message           string `json:"message"`
	ConfirmLabel      string `json:"confirm_label,omitempty"`
	CancelLabel       string `json:"cancel_label,omitempty"`
	Danger            bool   `json:"danger,omitempty"`
	DismissOnBackdrop bool   `json:"dismiss_on_backdrop,omitempty"`
	// Step is the 1-based round within a Sequence, 0 for a lone prompt.
	Step int `json:"-"`
}

const (
	DefaultTitle        = "SYSTEM PROMPT"
	DefaultConfirmLabel = "OK"
	DefaultCancelLabel  = "Cancel"
	DefaultToken        = "really "
)

// WithDefaults fills empty labels and the title.
func (o Options) WithDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.ConfirmLabel == "" {
		o.ConfirmLabel = DefaultConfirmLabel
	}
	if o.CancelLabel == "" {
		o.CancelLabel = DefaultCancelLabel
	}
	return o
}

// Confirmer asks a single yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, opts Options) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, opts Options) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, opts Options) (bool, error) {
	return f(ctx, opts)
}

// SampleTotalSteps draws how many rounds to ask: start at one and keep adding
// a round with probability p until maxSteps is reached or a draw fails.
func SampleTotalSteps(p float64, maxSteps int, rnd func() float64) int {
	if maxSteps < 1 {
		maxSteps = 1
	}
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	if rnd == nil {
		rnd = rand.Float64
	}
	total := 1
	for total < maxSteps && rnd() < p {
		total++
	}
	return total
}

// BuildMessage prefixes base with steps copies of token.
func BuildMessage(base string, steps int, token string) string {
	if steps <= 0 {
		return base
	}
	return strings.Repeat(token, steps) + base
}

// Sequence runs a randomized number of escalating confirmation rounds.
type Sequence struct {
	P     float64
	Max   int
	Delay time.Duration
	// StepTimeout bounds each prompt. Zero waits indefinitely.
	StepTimeout time.Duration
	Token       string
	Rand        func() float64
	// Sleep waits between rounds; nil uses a timer that honors ctx.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnStep observes each round before it is shown.
	OnStep func(step, total int)
}

// DefaultSequence mirrors the general-purpose confirm: p=0.9, up to 6 rounds, 120ms apart.
func DefaultSequence() Sequence {
	return Sequence{P: 0.9, Max: 6, Delay: 120 * time.Millisecond, Token: DefaultToken}
}

// DeleteSequence is the calmer variant used before deleting a post.
func DeleteSequence() Sequence {
	return Sequence{P: 0.5, Max: 9, Delay: 120 * time.Millisecond, Token: DefaultToken}
}

// Run asks base up to the sampled number of times. It returns false with a nil
// error as soon as one round is rejected, and true once every round is accepted.
// Context cancellation and step timeouts surface as errors.
func (s Sequence) Run(ctx context.Context, c Confirmer, base string, opts Options) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("confirm: nil confirmer")
	}
	token := s.Token
	if token == "" {
		token = DefaultToken
	}
	total := SampleTotalSteps(s.P, s.Max, s.Rand)

	for step := 0; step < total; step++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if s.OnStep != nil {
			s.OnStep(step, total)
		}
		prompt := opts
		prompt.Message = BuildMessage(base, step, token)
		prompt.Step = step + 1

		ok, err := s.ask(ctx, c, prompt)
		if err != nil {
			return false, fmt.Errorf("confirm step %d/%d: %w", step+1, total, err)
		}
		if !ok {
			return false, nil
		}
		if s.Delay > 0 && step < total-1 {
			if err := s.sleep(ctx, s.Delay); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func (s Sequence) ask(ctx context.Context, c Confirmer, opts Options) (bool, error) {
	if s.StepTimeout <= 0 {
		return c.Confirm(ctx, opts)
	}
	stepCtx, cancel := context.WithTimeout(ctx, s.StepTimeout)
	defer cancel()
	return c.Confirm(stepCtx, opts)
}

func (s Sequence) sleep(ctx context.Context, d time.Duration) error {
	if s.Sleep != nil {
		return s.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
