package utils

import (
	"context"
	"sync"
	"time"
)

// WaitContext blocks until wg drains or ctx is done. It reports whether
// the group drained.
func WaitContext(ctx context.Context, wg *sync.WaitGroup) bool {
	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return true
	case <-ctx.Done():
		return false
	}
}

func WaitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return WaitContext(ctx, wg)
}
