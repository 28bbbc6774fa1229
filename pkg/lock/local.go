package lock

import (
	"context"
	"sync"
	"time"

	"growpreen/pkg/metrics"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// LocalLocker serializes callers inside a single process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

func (l *LocalLocker) Obtain(ctx context.Context, key string) (Release, error) {
	start := time.Now()

	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		metrics.RecordLockWait("local", true, time.Since(start))
	case <-ctx.Done():
		l.unref(key, e)
		metrics.RecordLockWait("local", false, time.Since(start))
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-e.ch
			l.unref(key, e)
		})
		return nil
	}, nil
}

func (l *LocalLocker) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
