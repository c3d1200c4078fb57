package wishlist

import (
	"context"
	"sync/atomic"
)

type lifecycle struct {
	closed atomic.Bool
}

func (l *lifecycle) isClosed() bool {
	return l.closed.Load()
}

// close reports whether this call was the one that closed the lifecycle.
func (l *lifecycle) close() bool {
	return l.closed.CompareAndSwap(false, true)
}

// detach keeps request values but drops the caller's cancellation: a caller
// that walks away does not cancel the collaborator call, its result is
// simply discarded if the session is gone by then.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
