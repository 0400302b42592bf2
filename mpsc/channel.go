package mpsc

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// CloseCause records which event closed a channel.
type CloseCause int

const (
	ReceiverClosed CloseCause = iota + 1
	ReceiverDropped
	SendersGone
)

func (c CloseCause) String() string {
	switch c {
	case ReceiverClosed:
		return "receiver_closed"
	case ReceiverDropped:
		return "receiver_dropped"
	case SendersGone:
		return "senders_gone"
	default:
		return "open"
	}
}

type Option func(*Options)

type Options struct {
	Name     string
	Observer Observer
}

func defaultOptions() Options { return Options{} }

// WithName sets the label reported to observers. By default each channel is
// named chan-<n> from a process-wide sequence.
func WithName(name string) Option { return func(o *Options) { o.Name = name } }

func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// Observer receives channel lifecycle events. Callbacks run after the
// channel's lock is released, possibly concurrently from several goroutines,
// so the queued and senders counts they carry may arrive out of order.
//
// ChannelClosed fires exactly once per channel. ValuesDiscarded fires when
// the Receiver is dropped with values still queued. ChannelReleased fires once
// after the Receiver and every Sender have been dropped and their own events
// delivered; sends on dropped handles are not reported.
type Observer interface {
	ChannelCreated(name string)
	ValueSent(name string, queued int)
	SendRejected(name string)
	ValueReceived(name string, queued int)
	SenderCloned(name string, senders int)
	SenderDropped(name string, senders int)
	ChannelClosed(name string, cause CloseCause)
	ValuesDiscarded(name string, n int)
	ChannelReleased(name string)
}

var channelSeq atomic.Uint64

// state is shared by every handle of one channel. mu guards all other
// fields; closed never goes back to false.
type state[T any] struct {
	mu           sync.Mutex
	queue        queue[T]
	senders      int
	closed       bool
	cause        CloseCause
	receiverGone bool

	name string
	obs  Observer
	// refs counts the sides still holding the channel: all Senders as one,
	// the Receiver as the other.
	refs atomic.Int32
}

// New creates a channel and returns its only Receiver and its first Sender.
func New[T any](optFns ...Option) (*Sender[T], *Receiver[T]) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Name == "" {
		opts.Name = fmt.Sprintf("chan-%d", channelSeq.Add(1))
	}
	st := &state[T]{senders: 1, name: opts.Name, obs: opts.Observer}
	st.refs.Store(2)
	if st.obs != nil {
		st.obs.ChannelCreated(st.name)
	}
	return newSender(st), newReceiver(st)
}

// closeLocked marks the channel closed and reports whether this call did it.
func (s *state[T]) closeLocked(cause CloseCause) bool {
	if s.closed {
		return false
	}
	s.closed = true
	s.cause = cause
	return true
}

func (s *state[T]) notifyClosed(closedNow bool) {
	if closedNow && s.obs != nil {
		s.obs.ChannelClosed(s.name, s.cause)
	}
}

func (s *state[T]) send(value T, ref *senderRef[T]) error {
	s.mu.Lock()
	dropped := ref.dropped.Load()
	if s.closed || dropped {
		s.mu.Unlock()
		if s.obs != nil && !dropped {
			s.obs.SendRejected(s.name)
		}
		return &SendError[T]{Value: value}
	}
	s.queue.push(value)
	queued := s.queue.len
	s.mu.Unlock()

	if s.obs != nil {
		s.obs.ValueSent(s.name, queued)
	}
	return nil
}

func (s *state[T]) recv() (T, error) {
	s.mu.Lock()
	if v, ok := s.queue.pop(); ok {
		queued := s.queue.len
		s.mu.Unlock()
		if s.obs != nil {
			s.obs.ValueReceived(s.name, queued)
		}
		return v, nil
	}
	closed := s.closed
	s.mu.Unlock()

	var zero T
	if closed {
		return zero, ErrClosed
	}
	return zero, ErrEmpty
}

func (s *state[T]) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// addSender counts a clone of ref. It refuses once ref is dropped, so the
// sender count reaches zero at most once.
func (s *state[T]) addSender(ref *senderRef[T]) bool {
	s.mu.Lock()
	if ref.dropped.Load() {
		s.mu.Unlock()
		return false
	}
	s.senders++
	n := s.senders
	s.mu.Unlock()

	if s.obs != nil {
		s.obs.SenderCloned(s.name, n)
	}
	return true
}

func (s *state[T]) dropSender() {
	s.mu.Lock()
	s.senders--
	n := s.senders
	closedNow := false
	if n == 0 {
		closedNow = s.closeLocked(SendersGone)
	}
	s.mu.Unlock()

	if s.obs != nil {
		s.obs.SenderDropped(s.name, n)
	}
	s.notifyClosed(closedNow)
	if n == 0 {
		s.unref()
	}
}

func (s *state[T]) close(cause CloseCause) {
	s.mu.Lock()
	closedNow := s.closeLocked(cause)
	s.mu.Unlock()
	s.notifyClosed(closedNow)
}

// dropReceiver closes the channel and discards whatever is still queued;
// nobody is left to receive it.
func (s *state[T]) dropReceiver() {
	s.mu.Lock()
	if s.receiverGone {
		s.mu.Unlock()
		return
	}
	s.receiverGone = true
	closedNow := s.closeLocked(ReceiverDropped)
	discarded := s.queue.len
	s.queue.clear()
	s.mu.Unlock()

	if s.obs != nil && discarded > 0 {
		s.obs.ValuesDiscarded(s.name, discarded)
	}
	s.notifyClosed(closedNow)
	s.unref()
}

func (s *state[T]) unref() {
	if s.refs.Add(-1) == 0 && s.obs != nil {
		s.obs.ChannelReleased(s.name)
	}
}

// senderRef is the part of a Sender its cleanup can hold without keeping the
// Sender itself reachable.
type senderRef[T any] struct {
	st      *state[T]
	dropped atomic.Bool
}

func (r *senderRef[T]) release() {
	if !r.dropped.CompareAndSwap(false, true) {
		return
	}
	r.st.dropSender()
}

func newSender[T any](st *state[T]) *Sender[T] {
	s := &Sender[T]{ref: &senderRef[T]{st: st}}
	s.cleanup = runtime.AddCleanup(s, func(r *senderRef[T]) { r.release() }, s.ref)
	return s
}

// newDroppedSender returns a handle that was never counted.
func newDroppedSender[T any](st *state[T]) *Sender[T] {
	s := &Sender[T]{ref: &senderRef[T]{st: st}}
	s.ref.dropped.Store(true)
	return s
}

func newReceiver[T any](st *state[T]) *Receiver[T] {
	r := &Receiver[T]{st: st}
	r.cleanup = runtime.AddCleanup(r, func(st *state[T]) { st.dropReceiver() }, st)
	return r
}
