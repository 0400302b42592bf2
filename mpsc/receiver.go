package mpsc

import (
	"iter"
	"runtime"
)

// Receiver is the single consuming end of a channel. It cannot be cloned.
type Receiver[T any] struct {
	st      *state[T]
	cleanup runtime.Cleanup
}

// Recv removes and returns the oldest queued value. Values queued before the
// channel closed are still returned. With nothing queued it returns ErrEmpty
// while the channel is open and ErrClosed once it is closed.
func (r *Receiver[T]) Recv() (T, error) {
	v, err := r.st.recv()
	runtime.KeepAlive(r)
	return v, err
}

// Close shuts the channel for every Sender. Already queued values remain
// receivable. Close is idempotent.
func (r *Receiver[T]) Close() {
	r.st.close(ReceiverClosed)
	runtime.KeepAlive(r)
}

// Drop closes the channel and discards anything still queued. After Drop,
// Recv reports ErrClosed.
func (r *Receiver[T]) Drop() {
	r.cleanup.Stop()
	r.st.dropReceiver()
}

// Len returns the number of queued values.
func (r *Receiver[T]) Len() int {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.queue.len
}

// Cause reports why the channel closed. ok is false while it is open.
func (r *Receiver[T]) Cause() (cause CloseCause, ok bool) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.cause, r.st.closed
}

// Drain yields queued values until the channel is momentarily empty or
// closed. It never waits for new values.
func (r *Receiver[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := r.Recv()
			if err != nil || !yield(v) {
				return
			}
		}
	}
}
