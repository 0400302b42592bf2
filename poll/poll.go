package poll

import (
	"context"
	"errors"
	"time"

	"github.com/NetPo4ki/go-mpsc/mpsc"
)

// Source is the receiving side polled by Next and Loop. *mpsc.Receiver
// implements it.
type Source[T any] interface {
	Recv() (T, error)
}

type Option func(*Options)

type Options struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Backoff     float64
}

func defaultOptions() Options {
	return Options{
		Interval:    time.Millisecond,
		MaxInterval: 50 * time.Millisecond,
		Backoff:     2,
	}
}

// WithInterval sets the first wait after an empty poll.
func WithInterval(d time.Duration) Option { return func(o *Options) { o.Interval = d } }

// WithMaxInterval caps the wait between polls.
func WithMaxInterval(d time.Duration) Option { return func(o *Options) { o.MaxInterval = d } }

// WithBackoff sets the factor the wait grows by after each empty poll.
// Values below 1 are treated as 1.
func WithBackoff(factor float64) Option { return func(o *Options) { o.Backoff = factor } }

func newOptions(optFns []Option) Options {
	def := defaultOptions()
	o := def
	for _, fn := range optFns {
		fn(&o)
	}
	if o.Interval <= 0 {
		o.Interval = def.Interval
	}
	if o.MaxInterval < o.Interval {
		o.MaxInterval = o.Interval
	}
	if o.Backoff < 1 {
		o.Backoff = 1
	}
	return o
}

func (o Options) grow(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * o.Backoff)
	if d > o.MaxInterval {
		return o.MaxInterval
	}
	return d
}

// Next returns the next value from src, waiting while it reports
// mpsc.ErrEmpty. It returns mpsc.ErrClosed once src is closed and drained,
// or ctx.Err() when ctx is done first.
func Next[T any](ctx context.Context, src Source[T], optFns ...Option) (T, error) {
	return next(ctx, src, newOptions(optFns))
}

func next[T any](ctx context.Context, src Source[T], opts Options) (T, error) {
	var zero T
	wait := opts.Interval
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := src.Recv()
		if !errors.Is(err, mpsc.ErrEmpty) {
			return v, err
		}
		if timer == nil {
			timer = time.NewTimer(wait)
		} else {
			timer.Reset(wait)
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-timer.C:
		}
		wait = opts.grow(wait)
	}
}

// Loop hands every value from src to fn until src is closed and drained, in
// which case it returns nil. It stops early with fn's error or ctx.Err().
func Loop[T any](ctx context.Context, src Source[T], fn func(T) error, optFns ...Option) error {
	opts := newOptions(optFns)
	for {
		v, err := next(ctx, src, opts)
		if errors.Is(err, mpsc.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}
