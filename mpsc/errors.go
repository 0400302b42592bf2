package mpsc

import "errors"

var (
	// ErrEmpty is returned by Recv when nothing is queued but the channel is
	// still open. Poll again later.
	ErrEmpty = errors.New("mpsc: channel is empty")
	// ErrClosed is returned by Recv once the channel is closed and drained.
	// It is terminal.
	ErrClosed = errors.New("mpsc: channel is closed")
)

// SendError is returned by Send when the channel is closed. It carries the
// value back to the caller so it is not lost.
type SendError[T any] struct {
	Value T
}

func (e *SendError[T]) Error() string { return ErrClosed.Error() }

// Is reports ErrClosed as a match so callers can test either side of the
// channel with errors.Is(err, ErrClosed).
func (e *SendError[T]) Is(target error) bool { return target == ErrClosed }
