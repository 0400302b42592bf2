package mpsc

import "runtime"

// Sender enqueues values into a channel. Senders are safe for concurrent use
// and may be cloned freely; each handle is released with Drop. A Sender that
// becomes unreachable without Drop is released by the garbage collector.
type Sender[T any] struct {
	ref     *senderRef[T]
	cleanup runtime.Cleanup
}

// Send appends value to the channel. If the channel is closed, or this handle
// was dropped, it returns a *SendError holding value.
func (s *Sender[T]) Send(value T) error {
	err := s.ref.st.send(value, s.ref)
	runtime.KeepAlive(s)
	return err
}

// IsClosed reports whether the channel can never deliver another value sent
// through this handle.
func (s *Sender[T]) IsClosed() bool {
	closed := s.ref.dropped.Load() || s.ref.st.isClosed()
	runtime.KeepAlive(s)
	return closed
}

// SameChannel reports whether s and other feed the same channel.
func (s *Sender[T]) SameChannel(other *Sender[T]) bool {
	if s == nil || other == nil {
		return false
	}
	return s.ref.st == other.ref.st
}

// Clone returns a new handle to the same channel. The queue is untouched.
// Cloning a dropped handle yields another dropped handle.
func (s *Sender[T]) Clone() *Sender[T] {
	st := s.ref.st
	if !st.addSender(s.ref) {
		return newDroppedSender(st)
	}
	runtime.KeepAlive(s)
	return newSender(st)
}

// Drop releases the handle. Dropping the last live Sender closes the channel.
// Calling Drop more than once is a no-op.
func (s *Sender[T]) Drop() {
	if s.ref.dropped.Load() {
		return
	}
	s.cleanup.Stop()
	s.ref.release()
}
