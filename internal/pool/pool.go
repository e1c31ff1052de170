// Package pool provides a bounded allocator for reusable game objects.
package pool

// Poolable objects are reinitialised by Reset each time they are handed out.
type Poolable interface {
	comparable
	Reset()
	IsActive() bool
}

// preparer is implemented by objects that want a hook when returned.
type preparer interface {
	PrepareForPool()
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	Available int
	InUse     int
	Total     int
	MaxSize   int
}

// ObjectPool hands out up to MaxSize objects built by a factory.
// It is not safe for concurrent use.
type ObjectPool[T Poolable] struct {
	factory   func() T
	available []T
	inUse     map[T]struct{}
	maxSize   int
}

// New pre-creates initial objects, resetting each one. A maxSize of zero or
// less means twice the initial size.
func New[T Poolable](factory func() T, initial, maxSize int) *ObjectPool[T] {
	if initial < 0 {
		initial = 0
	}
	if maxSize <= 0 {
		maxSize = initial * 2
	}
	p := &ObjectPool[T]{
		factory:   factory,
		available: make([]T, 0, initial),
		inUse:     make(map[T]struct{}, initial),
		maxSize:   maxSize,
	}
	for i := 0; i < initial; i++ {
		obj := factory()
		obj.Reset()
		p.available = append(p.available, obj)
	}
	return p
}

// Acquire returns a reset object. It reports false when the pool is
// exhausted, which callers treat as "try again later".
func (p *ObjectPool[T]) Acquire() (T, bool) {
	var obj T
	switch {
	case len(p.available) > 0:
		last := len(p.available) - 1
		obj = p.available[last]
		var zero T
		p.available[last] = zero
		p.available = p.available[:last]
	case len(p.inUse) < p.maxSize:
		obj = p.factory()
	default:
		return obj, false
	}
	obj.Reset()
	p.inUse[obj] = struct{}{}
	return obj, true
}

// Release returns obj to the idle set. Objects the pool did not hand out
// are ignored. Reset is not called; the object stays inert until reacquired.
func (p *ObjectPool[T]) Release(obj T) {
	if _, ok := p.inUse[obj]; !ok {
		return
	}
	delete(p.inUse, obj)
	if pr, ok := any(obj).(preparer); ok {
		pr.PrepareForPool()
	}
	p.available = append(p.available, obj)
}

// ReleaseInactive releases every in-use object whose IsActive is false and
// returns how many were released.
func (p *ObjectPool[T]) ReleaseInactive() int {
	var stale []T
	for obj := range p.inUse {
		if !obj.IsActive() {
			stale = append(stale, obj)
		}
	}
	for _, obj := range stale {
		p.Release(obj)
	}
	return len(stale)
}

func (p *ObjectPool[T]) Stats() Stats {
	return Stats{
		Available: len(p.available),
		InUse:     len(p.inUse),
		Total:     len(p.available) + len(p.inUse),
		MaxSize:   p.maxSize,
	}
}

// Clear forgets every object without calling any hook.
func (p *ObjectPool[T]) Clear() {
	clear(p.available)
	p.available = p.available[:0]
	clear(p.inUse)
}
