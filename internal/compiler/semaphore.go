package compiler

import (
	"context"
)

// semaphore bounds the number of files parsed at once.
type semaphore struct {
	x chan struct{}
}

func newSemaphore(v int) *semaphore {
	return &semaphore{
		x: make(chan struct{}, v),
	}
}

// Lock waits for a free slot. It gives up when ctx is done.
func (self *semaphore) Lock(ctx context.Context) error {
	select {
	case self.x <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (self *semaphore) Unlock() {
	<-self.x
}
