// Package errgroup runs a set of producers that feed one mpsc channel,
// built on golang.org/x/sync/errgroup. Each producer owns its own Sender,
// dropped when the producer returns, so the channel closes once the whole
// group is done.
package errgroup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/NetPo4ki/go-mpsc/mpsc"
)

type Option func(*Options)

type Options struct {
	// Limit caps concurrently running producers. Zero or negative means no limit.
	Limit int
}

func WithLimit(n int) Option { return func(o *Options) { o.Limit = n } }

// Group is an errgroup whose tasks produce into a shared channel.
type Group[T any] struct {
	g   *errgroup.Group
	ctx context.Context
	tx  *mpsc.Sender[T]
}

// WithContext creates a Group that takes ownership of tx. The returned context
// is canceled when any producer returns a non-nil error or Wait returns.
func WithContext[T any](ctx context.Context, tx *mpsc.Sender[T], optFns ...Option) (*Group[T], context.Context) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	g, gctx := errgroup.WithContext(ctx)
	if opts.Limit > 0 {
		g.SetLimit(opts.Limit)
	}
	gr := &Group[T]{g: g, ctx: gctx, tx: tx}
	return gr, gr.ctx
}

// Go starts fn with a fresh clone of the group's Sender. The clone is dropped
// when fn returns. With a limit set, Go blocks until a slot is free.
func (g *Group[T]) Go(fn func(ctx context.Context, tx *mpsc.Sender[T]) error) {
	if fn == nil {
		return
	}
	tx := g.tx.Clone()
	g.g.Go(func() error {
		defer tx.Drop()
		return fn(g.ctx, tx)
	})
}

// Wait drops the group's own Sender and blocks until every producer has
// returned. It returns the first non-nil error. After Wait the channel is
// closed unless Senders cloned outside the group are still live.
func (g *Group[T]) Wait() error {
	g.tx.Drop()
	return g.g.Wait()
}
