package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/tracked/internal/config"
	"github.com/vango-dev/tracked/internal/counters"
	"github.com/vango-dev/tracked/internal/errors"
)

func startLoop(t *testing.T, queue int, logger *slog.Logger) *loop {
	t.Helper()
	l := newLoop(counters.NewBoard(counters.WithLogger(logger)), queue, logger)
	go l.run()
	t.Cleanup(l.close)
	return l
}

func TestLoop_RunsJobsInOrder(t *testing.T) {
	l := startLoop(t, 4, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.do(context.Background(), func(b *counters.Board) error {
				_, err := b.AddCounter()
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var ids []int
	require.NoError(t, l.do(context.Background(), func(b *counters.Board) error {
		for _, c := range b.Snapshot().Counters {
			ids = append(ids, c.ID)
		}
		return nil
	}))
	require.Len(t, ids, 20)
	for i, id := range ids {
		assert.Equal(t, i, id)
	}
}

func TestLoop_ReturnsJobError(t *testing.T) {
	l := startLoop(t, 1, quietLogger())

	err := l.do(context.Background(), func(b *counters.Board) error {
		_, err := b.Increment(3, 1)
		return err
	})
	assert.Equal(t, "T011", errors.Code(err))
}

func TestLoop_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	l := startLoop(t, 1, slog.New(slog.NewTextHandler(&buf, nil)))

	err := l.do(context.Background(), func(b *counters.Board) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, "T021", errors.Code(err))
	assert.Contains(t, buf.String(), "dispatch panic")
	assert.Contains(t, buf.String(), "boom")

	err = l.do(context.Background(), func(b *counters.Board) error {
		_, err := b.AddCounter()
		return err
	})
	assert.NoError(t, err, "loop keeps running after a panic")
}

func TestLoop_FlushesWatchersAfterEachJob(t *testing.T) {
	l := startLoop(t, 1, quietLogger())

	var totals []int
	require.NoError(t, l.do(context.Background(), func(b *counters.Board) error {
		b.Watch(func(s counters.Snapshot) { totals = append(totals, len(s.Counters)) })
		return nil
	}))
	require.NoError(t, l.do(context.Background(), func(b *counters.Board) error {
		return b.AddMany(3)
	}))
	require.NoError(t, l.do(context.Background(), func(b *counters.Board) error {
		return nil
	}))

	// totals is only written on the loop goroutine; do waits for it.
	assert.Equal(t, []int{0, 3}, totals)
}

func TestLoop_Closed(t *testing.T) {
	l := startLoop(t, 1, quietLogger())
	l.close()

	err := l.do(context.Background(), func(b *counters.Board) error { return nil })
	assert.Equal(t, "T012", errors.Code(err))
	assert.True(t, l.board.Closed(), "closing the loop closes its board")
}

func TestLoop_ContextCancelled(t *testing.T) {
	l := startLoop(t, 1, quietLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	go l.do(context.Background(), func(b *counters.Board) error {
		close(started)
		<-release
		return nil
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.do(ctx, func(b *counters.Board) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestServer_RegisterCancelledWhileQueued(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.DispatchQueueSize = 1
	})
	s := ts.Server

	release := make(chan struct{})
	started := make(chan struct{})
	go s.loop.do(context.Background(), func(b *counters.Board) error {
		close(started)
		<-release
		return nil
	})
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{send: make(chan []byte, clientBuffer)}
	errc := make(chan error, 1)
	go func() { errc <- s.register(ctx, c) }()

	require.Eventually(t, func() bool { return len(s.loop.jobs) == 1 },
		time.Second, time.Millisecond, "register job queued")
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	require.NoError(t, s.loop.do(context.Background(), func(b *counters.Board) error { return nil }))
	assert.Equal(t, 0, s.hub.len(), "cancelled client is not left in the hub")
}

func TestServer_Register(t *testing.T) {
	s := newTestServer(t, nil).Server

	c := &client{send: make(chan []byte, clientBuffer)}
	require.NoError(t, s.register(context.Background(), c))
	assert.Equal(t, 1, s.hub.len())

	var snap counters.Snapshot
	require.NoError(t, json.Unmarshal(<-c.send, &snap))
	assert.Equal(t, 0, snap.NextID)
}
