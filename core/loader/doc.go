// Package loader runs registry loads in the background so callers are never
// blocked by file I/O or parsing.
//
// Requests become Jobs. After Start, jobs are queued on a bounded channel
// consumed by a fixed pool of workers. Finished jobs are staged and their
// callbacks run only from Update, which the owner calls from one goroutine
// (typically once per tick). Callbacks therefore never run concurrently with
// each other.
//
// # Backpressure
//
// LoadAsync never blocks. When the queue is full the job completes
// immediately with ErrQueueFull, delivered on the next Update like any other
// failure, and the error is also returned to the caller.
//
// # Cancellation
//
// CancelLoad withdraws a job that no worker has picked up yet. Canceled jobs
// are never delivered. Jobs already running cannot be canceled.
//
// # Before Start
//
// A loader that has not been started loads synchronously and invokes the
// callback before LoadAsync returns.
package loader
