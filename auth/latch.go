package auth

import "sync"

// resultLatch is the one-shot promise/future the §9 design note asks for:
// one producer per worker, one consumer (the coordinator). sync.Once
// guarantees only the first successful producer's value is ever recorded;
// later calls to set are no-ops.
type resultLatch struct {
	once  sync.Once
	value string
	done  bool
}

func newResultLatch() *resultLatch {
	return &resultLatch{}
}

func (l *resultLatch) set(value string) {
	l.once.Do(func() {
		l.value = value
		l.done = true
	})
}

func (l *resultLatch) get() (string, bool) {
	return l.value, l.done
}
