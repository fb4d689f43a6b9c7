package runner

import "context"

// Slots bounds the number of commands running at once across all requests.
type Slots struct {
	sem chan struct{}
}

// NewSlots returns a limiter with size slots; sizes below one mean one.
func NewSlots(size int) *Slots {
	if size <= 0 {
		size = 1
	}
	return &Slots{sem: make(chan struct{}, size)}
}

// Acquire blocks until a slot is free or ctx is done.
func (s *Slots) Acquire(ctx context.Context) (func(), error) {
	select {
	case s.sem <- struct{}{}:
		return func() { <-s.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InUse reports how many slots are currently held.
func (s *Slots) InUse() int {
	return len(s.sem)
}

// Size reports the total number of slots.
func (s *Slots) Size() int {
	return cap(s.sem)
}
