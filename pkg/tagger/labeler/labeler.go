package labeler

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Labeler is a sequence-labeling backend.
// This interface allows swapping implementations (crf_test subprocess,
// remote tagging service, in-process heuristics, etc.)
type Labeler interface {
	// Label takes the tab-separated token/feature stream for a batch of
	// lines and returns the same stream with a predicted tag per token and
	// a "# <score>" header before each line.
	Label(ctx context.Context, request string) (string, error)
}

// Func adapts a plain function to the Labeler interface.
type Func func(ctx context.Context, request string) (string, error)

// Label implements Labeler.
func (f Func) Label(ctx context.Context, request string) (string, error) {
	return f(ctx, request)
}

// Throttled wraps a Labeler with a token-bucket limit on calls.
type Throttled struct {
	next    Labeler
	limiter *rate.Limiter
}

// Throttle limits next to perSecond calls with the given burst.
// A non-positive perSecond returns next unchanged.
func Throttle(next Labeler, perSecond float64, burst int) Labeler {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Label waits for the limiter, then calls the wrapped labeler.
func (t *Throttled) Label(ctx context.Context, request string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("labeler throttle: %w", err)
	}
	return t.next.Label(ctx, request)
}
