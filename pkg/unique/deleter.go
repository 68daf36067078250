package unique

import (
	"github.com/rawbytedev/ownership"
)

// Deleter releases a single object. It must treat nil as a no-op.
type Deleter[T any] interface {
	Delete(p *T)
}

// ArrayDeleter releases a whole array. It must treat nil as a no-op.
type ArrayDeleter[T any] interface {
	DeleteArray(s []T)
}

// DefaultDelete runs Destroy on the object, or on every element for
// arrays, and leaves the memory to the garbage collector. It carries no
// state, so it takes no room inside Ptr or Array.
type DefaultDelete[T any] struct{}

func (DefaultDelete[T]) Delete(p *T) {
	if p == nil {
		return
	}
	destroyElem(p)
}

func (DefaultDelete[T]) DeleteArray(s []T) {
	for i := range s {
		destroyElem(&s[i])
	}
}

// destroyElem runs Destroy on *p, or on the value stored there when T is
// itself a pointer or interface type.
func destroyElem[T any](p *T) {
	if _, ok := any(p).(ownership.Destroyer); ok {
		ownership.Destroy(p)
		return
	}
	ownership.Destroy(*p)
}

// FuncDeleter adapts a function to Deleter. The function never sees nil.
type FuncDeleter[T any] func(p *T)

func (f FuncDeleter[T]) Delete(p *T) {
	if p == nil {
		return
	}
	f(p)
}

// ArrayFuncDeleter adapts a function to ArrayDeleter. The function never
// sees a nil slice.
type ArrayFuncDeleter[T any] func(s []T)

func (f ArrayFuncDeleter[T]) DeleteArray(s []T) {
	if s == nil {
		return
	}
	f(s)
}
