package render

import (
	"context"
	"time"

	"github.com/psidex/subgraph/internal/force"
)

// Ticker accepts ticks, Renderer is one.
type Ticker interface {
	Tick(force.Tick) error
}

var _ Ticker = (*Renderer)(nil)

// Loop feeds ticks from a layout to a Ticker. The stepper and the target are decoupled
// so either side can be replaced, e.g. by synthetic ticks in tests.
type Loop struct {
	Stepper force.Stepper
	Target  Ticker
	// Interval between ticks, zero runs as fast as possible.
	Interval time.Duration
	// MaxTicks stops the loop early when positive.
	MaxTicks int
	// OnTick is called after each tick has been applied.
	OnTick func(n int, t force.Tick)
}

// Run applies ticks until the layout settles, MaxTicks is reached or ctx is done. It
// returns the number of ticks applied. The final settled positions are applied too.
func (l Loop) Run(ctx context.Context) (int, error) {
	var wait <-chan time.Time
	if l.Interval > 0 {
		ticker := time.NewTicker(l.Interval)
		defer ticker.Stop()
		wait = ticker.C
	}

	n := 0
	for l.MaxTicks <= 0 || n < l.MaxTicks {
		if wait != nil {
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case <-wait:
			}
		} else if err := ctx.Err(); err != nil {
			return n, err
		}

		t, ok := l.Stepper.Step()
		if err := l.Target.Tick(t); err != nil {
			return n, err
		}
		if !ok {
			break
		}
		n++
		if l.OnTick != nil {
			l.OnTick(n, t)
		}
	}
	return n, nil
}
