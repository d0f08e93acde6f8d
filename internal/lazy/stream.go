package lazy

import (
	"context"
	"iter"
)

// Stream returns a single-value sequence for one call. Nothing executes until
// the sequence is ranged over; each range executes once and yields exactly
// one pair.
func (e *Executor) Stream(ctx context.Context, in Inputs) iter.Seq2[*Result, error] {
	return func(yield func(*Result, error) bool) {
		yield(e.run(ctx, in))
	}
}
