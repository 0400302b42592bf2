// Package mpsc provides an in-process multi-producer, single-consumer channel.
// Any number of Sender handles enqueue values, one Receiver dequeues them in
// the global order the sends committed, and either side can shut the channel
// down. Receive never blocks: an empty but open channel reports ErrEmpty, a
// drained and closed one reports ErrClosed.
//
// Handles are released explicitly with Drop. The channel closes when the
// Receiver is closed or dropped, or when the last Sender is dropped. Values
// queued before closure stay receivable until the queue is drained.
package mpsc
