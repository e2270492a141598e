package server

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/tracked/internal/counters"
	"github.com/vango-dev/tracked/internal/errors"
	"github.com/vango-dev/tracked/pkg/reactive"
)

// job is one unit of board work and the channel its result is sent on.
type job struct {
	fn     func(b *counters.Board) error
	result chan error
}

// loop owns a board and runs every job against it on a single goroutine.
type loop struct {
	board  *counters.Board
	jobs   chan job
	done   chan struct{}
	exited chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once

	logger *slog.Logger
}

func newLoop(board *counters.Board, queueSize int, logger *slog.Logger) *loop {
	return &loop{
		board:  board,
		jobs:   make(chan job, queueSize),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		logger: logger,
	}
}

// run processes jobs until close is called. The board is closed when run
// returns.
func (l *loop) run() {
	defer close(l.exited)
	defer reactive.ReleaseGoroutine()
	defer l.board.Close()

	for {
		select {
		case j := <-l.jobs:
			j.result <- l.execute(j.fn)

		case <-l.done:
			return
		}
	}
}

// execute runs fn with panic recovery, then runs the board's pending
// watchers.
func (l *loop) execute(fn func(b *counters.Board) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
			err = errors.New("T021")
		}
	}()

	err = fn(l.board)

	if n := l.board.Flush(); n > 0 {
		l.logger.Debug("watchers ran", "count", n)
	}
	return err
}

// do queues fn and waits for it to finish. It blocks while the queue is
// full. If ctx ends after fn was queued, fn still runs but its result is
// discarded.
func (l *loop) do(ctx context.Context, fn func(b *counters.Board) error) error {
	if l.closed.Load() {
		return errors.New("T012")
	}

	j := job{fn: fn, result: make(chan error, 1)}
	select {
	case l.jobs <- j:
	case <-l.done:
		return errors.New("T012")
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.result:
		return err
	case <-l.done:
		return errors.New("T012")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops the loop and waits for it to exit.
func (l *loop) close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
	<-l.exited
}
