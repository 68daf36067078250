package unique

import (
	"sync"

	"github.com/rawbytedev/ownership"
)

// Pool hands out uniquely owned objects that go back to the pool when
// their handle is reset.
type Pool[T any] struct {
	pool  *sync.Pool
	reset func(*T)
}

// NewPool creates a pool. reset, if set, clears an object before it is
// pooled again; otherwise the object is zeroed.
func NewPool[T any](constructor func() *T, reset func(*T)) *Pool[T] {
	return &Pool[T]{
		pool:  &sync.Pool{New: func() any { return constructor() }},
		reset: reset,
	}
}

// Get takes an object from the pool.
func (p *Pool[T]) Get() *Ptr[T, PoolDeleter[T]] {
	return NewWithDeleter(p.pool.Get().(*T), PoolDeleter[T]{pool: p})
}

func (p *Pool[T]) put(obj *T) {
	ownership.Destroy(obj)
	if p.reset != nil {
		p.reset(obj)
	} else {
		var zero T
		*obj = zero
	}
	p.pool.Put(obj)
}

// PoolDeleter returns objects to the Pool they came from.
type PoolDeleter[T any] struct {
	pool *Pool[T]
}

func (d PoolDeleter[T]) Delete(obj *T) {
	if obj == nil || d.pool == nil {
		return
	}
	d.pool.put(obj)
}
