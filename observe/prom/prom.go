// Package prom exports mpsc channel activity as Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/go-mpsc/mpsc"
)

const channelLabel = "channel"

type Option func(*Options)

type Options struct {
	Namespace  string
	Registerer prometheus.Registerer
}

func defaultOptions() Options {
	return Options{Namespace: "mpsc", Registerer: prometheus.DefaultRegisterer}
}

func WithNamespace(ns string) Option { return func(o *Options) { o.Namespace = ns } }

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Registerer = reg }
}

// Metrics is an mpsc.Observer backed by Prometheus collectors, labelled by
// channel name. Gauges move by Inc/Dec so callbacks arriving out of order
// still settle on the right value. A channel's series are deleted once the
// channel is released.
type Metrics struct {
	sent      *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	received  *prometheus.CounterVec
	discarded *prometheus.CounterVec
	closed    *prometheus.CounterVec
	queued    *prometheus.GaugeVec
	senders   *prometheus.GaugeVec
}

var _ mpsc.Observer = (*Metrics)(nil)

// New creates the collectors and registers them.
func New(optFns ...Option) (*Metrics, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      name,
			Help:      help,
		}, append([]string{channelLabel}, labels...))
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      name,
			Help:      help,
		}, []string{channelLabel})
	}
	m := &Metrics{
		sent:      counter("sent_total", "Values accepted by Send."),
		rejected:  counter("send_rejected_total", "Sends rejected because the channel was closed."),
		received:  counter("received_total", "Values returned by Recv."),
		discarded: counter("discarded_total", "Queued values thrown away when the Receiver was dropped."),
		closed:    counter("closed_total", "Channels closed, by cause.", "cause"),
		queued:    gauge("queued", "Values waiting in the channel."),
		senders:   gauge("senders", "Live Sender handles."),
	}
	if opts.Registerer != nil {
		for _, c := range []prometheus.Collector{m.sent, m.rejected, m.received, m.discarded, m.closed, m.queued, m.senders} {
			if err := opts.Registerer.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// MustNew is like New but panics if registration fails.
func MustNew(optFns ...Option) *Metrics {
	m, err := New(optFns...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Metrics) ChannelCreated(name string) {
	m.senders.WithLabelValues(name).Set(1)
	m.queued.WithLabelValues(name).Set(0)
}

func (m *Metrics) ValueSent(name string, _ int) {
	m.sent.WithLabelValues(name).Inc()
	m.queued.WithLabelValues(name).Inc()
}

func (m *Metrics) SendRejected(name string) {
	m.rejected.WithLabelValues(name).Inc()
}

func (m *Metrics) ValueReceived(name string, _ int) {
	m.received.WithLabelValues(name).Inc()
	m.queued.WithLabelValues(name).Dec()
}

func (m *Metrics) SenderCloned(name string, _ int) {
	m.senders.WithLabelValues(name).Inc()
}

func (m *Metrics) SenderDropped(name string, _ int) {
	m.senders.WithLabelValues(name).Dec()
}

func (m *Metrics) ChannelClosed(name string, cause mpsc.CloseCause) {
	m.closed.WithLabelValues(name, cause.String()).Inc()
}

func (m *Metrics) ValuesDiscarded(name string, n int) {
	m.discarded.WithLabelValues(name).Add(float64(n))
	m.queued.WithLabelValues(name).Sub(float64(n))
}

// ChannelReleased deletes every series of the channel so per-channel names do
// not accumulate.
func (m *Metrics) ChannelReleased(name string) {
	labels := prometheus.Labels{channelLabel: name}
	for _, v := range []*prometheus.CounterVec{m.sent, m.rejected, m.received, m.discarded, m.closed} {
		v.DeletePartialMatch(labels)
	}
	m.queued.DeleteLabelValues(name)
	m.senders.DeleteLabelValues(name)
}
