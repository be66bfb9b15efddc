package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/guardkit/guardkit/pkg/logger"
)

// AsyncOptions configures the buffering behavior of AsyncRecorder.
type AsyncOptions struct {
	// BufferSize is the number of attempts queued in memory before new
	// records are dropped.
	BufferSize int

	// WriteTimeout bounds each write to the inner recorder.
	WriteTimeout time.Duration

	// Logger receives drop and write-failure reports.
	Logger *slog.Logger
}

// AsyncRecorder decouples attempt recording from the login path. Records are
// queued to a background worker; when the buffer is full the record is
// dropped with a log line rather than stalling authentication.
type AsyncRecorder struct {
	inner Recorder
	ch    chan LoginAttempt
	done  chan struct{}
	wg    sync.WaitGroup
	opts  AsyncOptions

	closeOnce sync.Once
}

// NewAsyncRecorder wraps the inner recorder with a buffered worker. Close
// drains the buffer and must be called on shutdown.
func NewAsyncRecorder(inner Recorder, opts AsyncOptions) *AsyncRecorder {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1024
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	r := &AsyncRecorder{
		inner: inner,
		ch:    make(chan LoginAttempt, opts.BufferSize),
		done:  make(chan struct{}),
		opts:  opts,
	}

	r.wg.Add(1)
	go r.worker()
	return r
}

func (r *AsyncRecorder) Record(ctx context.Context, attempt LoginAttempt) error {
	attempt = Prepare(attempt)

	select {
	case <-r.done:
		return ErrRecorderClosed
	default:
	}

	select {
	case r.ch <- attempt:
		return nil
	default:
		r.opts.Logger.WarnContext(ctx, "audit buffer full, attempt dropped",
			logger.Component("audit"),
			slog.String("identifier", attempt.Identifier),
			logger.Guard(attempt.Guard),
		)
		return nil
	}
}

func (r *AsyncRecorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case attempt := <-r.ch:
			r.write(attempt)
		case <-r.done:
			// Drain what is already buffered before exiting.
			for {
				select {
				case attempt := <-r.ch:
					r.write(attempt)
				default:
					return
				}
			}
		}
	}
}

func (r *AsyncRecorder) write(attempt LoginAttempt) {
	// Writes run on a detached context so a cancelled login request cannot
	// abort persistence.
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.WriteTimeout)
	defer cancel()

	if err := r.inner.Record(ctx, attempt); err != nil {
		r.opts.Logger.Error("audit write failed",
			logger.Component("audit"),
			logger.Error(err),
		)
	}
}

// Close stops accepting records and waits for the buffer to drain.
func (r *AsyncRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}
