// Package poll waits on a non-blocking mpsc.Receiver. It retries ErrEmpty
// with exponential backoff and stops on ErrClosed or context cancellation.
package poll
