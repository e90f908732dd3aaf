package systems

// Pool is a generic free-list allocator for transient simulation entities.
// It exists to keep the hot per-frame path free of allocation churn: items
// are acquired and released every step, but heap allocation only happens at
// construction and on growth events.
//
// When the free list runs dry the pool grows by a fixed batch rather than
// doubling, to bound worst-case allocation spikes mid-frame. Exhaustion is
// therefore never an error.
type Pool[T any] struct {
	free      []*T
	reset     func(*T)
	batchSize int
	allocated int
	growths   int
}

// NewPool creates a pool pre-sized to initial items. The reset function is
// applied to every item before it becomes visible through Acquire, so callers
// never see a partially-initialized instance.
func NewPool[T any](initial, batchSize int, reset func(*T)) *Pool[T] {
	if initial < 1 {
		initial = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	p := &Pool[T]{
		free:      make([]*T, 0, initial),
		reset:     reset,
		batchSize: batchSize,
	}
	p.grow(initial)
	return p
}

// grow allocates n items as a single slab and pushes them onto the free list.
func (p *Pool[T]) grow(n int) {
	slab := make([]T, n)
	for i := range slab {
		p.reset(&slab[i])
		p.free = append(p.free, &slab[i])
	}
	p.allocated += n
}

// Acquire returns an instance in its canonical reset state, growing the pool
// by one batch if the free list is empty.
func (p *Pool[T]) Acquire() *T {
	if len(p.free) == 0 {
		p.grow(p.batchSize)
		p.growths++
	}
	item := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return item
}

// Release resets the item and returns it to the free list. Ownership reverts
// to the pool; the caller must not touch the item afterwards.
func (p *Pool[T]) Release(item *T) {
	if item == nil {
		return
	}
	p.reset(item)
	p.free = append(p.free, item)
}

// Dispose drops all backing storage. The pool must not be used afterwards.
func (p *Pool[T]) Dispose() {
	p.free = nil
	p.allocated = 0
	p.growths = 0
}

// Allocated returns the total number of items ever allocated by this pool.
func (p *Pool[T]) Allocated() int {
	return p.allocated
}

// FreeCount returns the number of items currently on the free list.
func (p *Pool[T]) FreeCount() int {
	return len(p.free)
}

// Growths returns the number of growth events triggered by exhaustion.
func (p *Pool[T]) Growths() int {
	return p.growths
}
