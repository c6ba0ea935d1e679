package gen

import (
	"context"
	"sync"
)

// completionGate is a single-use synchronization point between the
// definitions pass (producer) and the manifest pass (consumer). The producer
// resolves it exactly once after visiting its last document; the consumer
// waits on it before reading the accumulated manifest. A producer failure is
// carried to the consumer instead of hanging it.
type completionGate struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newCompletionGate() *completionGate {
	return &completionGate{done: make(chan struct{})}
}

// resolve releases every waiter. The first call wins; later calls are
// no-ops, so producers can release on all exit paths without coordination.
func (g *completionGate) resolve(err error) {
	g.once.Do(func() {
		g.err = err
		close(g.done)
	})
}

// wait blocks until the gate resolves or ctx is done, returning the
// producer's error if it failed.
func (g *completionGate) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.done:
		return g.err
	}
}
