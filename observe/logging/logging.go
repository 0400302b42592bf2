// Package logging provides an mpsc.Observer that writes channel lifecycle
// events to a structured logger. Per-value events are not logged.
package logging

import (
	"log/slog"

	"github.com/NetPo4ki/go-mpsc/mpsc"
)

// Logger is the logging surface the observer needs. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Option func(*Options)

type Options struct {
	// Logger receives the events. Defaults to slog.Default().
	Logger Logger
	// Args are appended to every log line.
	Args []any
}

func WithLogger(l Logger) Option { return func(o *Options) { o.Logger = l } }

func WithArgs(args ...any) Option { return func(o *Options) { o.Args = append(o.Args, args...) } }

type Observer struct {
	log  Logger
	args []any
}

var _ mpsc.Observer = (*Observer)(nil)

func New(optFns ...Option) *Observer {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Observer{log: opts.Logger, args: opts.Args}
}

func (o *Observer) with(name string, kv ...any) []any {
	out := make([]any, 0, len(o.args)+2+len(kv))
	out = append(out, o.args...)
	out = append(out, "channel", name)
	return append(out, kv...)
}

func (o *Observer) ChannelCreated(name string) {
	o.log.Debug("MPSC: channel created", o.with(name)...)
}

func (o *Observer) ValueSent(string, int) {}

func (o *Observer) SendRejected(name string) {
	o.log.Warn("MPSC: send on closed channel", o.with(name)...)
}

func (o *Observer) ValueReceived(string, int) {}

func (o *Observer) SenderCloned(name string, senders int) {
	o.log.Debug("MPSC: sender cloned", o.with(name, "senders", senders)...)
}

func (o *Observer) SenderDropped(name string, senders int) {
	o.log.Debug("MPSC: sender dropped", o.with(name, "senders", senders)...)
}

func (o *Observer) ChannelClosed(name string, cause mpsc.CloseCause) {
	o.log.Info("MPSC: channel closed", o.with(name, "cause", cause.String())...)
}

func (o *Observer) ValuesDiscarded(name string, n int) {
	o.log.Error("MPSC: queued values discarded", o.with(name, "discarded", n)...)
}

func (o *Observer) ChannelReleased(name string) {
	o.log.Debug("MPSC: channel released", o.with(name)...)
}
