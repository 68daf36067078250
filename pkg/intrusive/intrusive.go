// Package intrusive provides a pointer over objects that carry their own
// reference count.
package intrusive

import (
	"github.com/pkg/errors"

	"github.com/rawbytedev/ownership/internal/common"
)

var ErrBadCast = errors.New("intrusive: pointee does not have the requested type")

// Ptr holds one reference on obj. T is normally a pointer type, or an
// interface implemented by pointer types.
//
// Every live Ptr holding an object accounts for exactly one unit of its
// count. Dereferencing an empty Ptr through Get yields the zero T.
type Ptr[T RefCounter] struct {
	_    common.NoCopy
	obj  T
	held bool
}

// New takes a new reference on obj. A nil obj gives an empty pointer.
func New[T RefCounter](obj T) *Ptr[T] {
	p := &Ptr[T]{}
	p.adopt(obj)
	return p
}

// Make allocates a T, lets init fill it in, and wraps it.
func Make[T any, PT interface {
	*T
	RefCounter
}](init func(PT)) *Ptr[PT] {
	obj := PT(new(T))
	if init != nil {
		init(obj)
	}
	return New(obj)
}

func (p *Ptr[T]) adopt(obj T) {
	if common.IsNil(obj) {
		return
	}
	obj.IncRef()
	p.obj = obj
	p.held = true
}

func (p *Ptr[T]) take() (T, bool) {
	obj, held := p.obj, p.held
	var zero T
	p.obj, p.held = zero, false
	return obj, held
}

func release[T RefCounter](obj T) {
	if obj.DecRef() == 0 {
		destroy(obj)
	}
}

// Clone returns a second pointer to the same object.
func (p *Ptr[T]) Clone() *Ptr[T] {
	if !p.Valid() {
		return &Ptr[T]{}
	}
	return New(p.obj)
}

// Move hands the reference to a new pointer and empties p.
func (p *Ptr[T]) Move() *Ptr[T] {
	obj, held := p.take()
	return &Ptr[T]{obj: obj, held: held}
}

// CopyFrom makes p point where other points.
func (p *Ptr[T]) CopyFrom(other *Ptr[T]) {
	if p == other {
		return
	}
	if other.held {
		other.obj.IncRef()
	}
	old, had := p.take()
	p.obj, p.held = other.obj, other.held
	if had {
		release(old)
	}
}

// MoveFrom takes other's reference, dropping the one p held. Other is left
// empty.
func (p *Ptr[T]) MoveFrom(other *Ptr[T]) {
	if p == other {
		return
	}
	old, had := p.take()
	p.obj, p.held = other.take()
	if had {
		release(old)
	}
}

// Reset drops the reference and empties p.
func (p *Ptr[T]) Reset() {
	if old, had := p.take(); had {
		release(old)
	}
}

// ResetTo points p at obj. Nothing happens if p already holds obj.
func (p *Ptr[T]) ResetTo(obj T) {
	if p.held && common.SameReference(p.obj, obj) {
		return
	}
	old, had := p.take()
	p.adopt(obj)
	if had {
		release(old)
	}
}

func (p *Ptr[T]) Swap(other *Ptr[T]) {
	p.obj, other.obj = other.obj, p.obj
	p.held, other.held = other.held, p.held
}

func (p *Ptr[T]) Get() T {
	if p == nil {
		var zero T
		return zero
	}
	return p.obj
}

// UseCount returns the object's count, or 0 for an empty pointer.
func (p *Ptr[T]) UseCount() int {
	if !p.Valid() {
		return 0
	}
	return p.obj.RefCount()
}

// Valid reports whether p holds an object.
func (p *Ptr[T]) Valid() bool {
	return p != nil && p.held
}

// Cast returns a new pointer to src's object viewed as T. If the object is
// not a T the result is empty, the error wraps ErrBadCast and no count
// changes. An empty src gives an empty result and no error.
func Cast[T, U RefCounter](src *Ptr[U]) (*Ptr[T], error) {
	if !src.Valid() {
		return &Ptr[T]{}, nil
	}
	obj, ok := any(src.obj).(T)
	if !ok {
		return &Ptr[T]{}, errors.Wrapf(ErrBadCast, "%T is not %s", src.obj, common.TypeName[T]())
	}
	return New(obj), nil
}

// MoveCast is Cast that transfers src's reference instead of adding one.
// On failure src keeps its reference.
func MoveCast[T, U RefCounter](src *Ptr[U]) (*Ptr[T], error) {
	if !src.Valid() {
		return &Ptr[T]{}, nil
	}
	obj, ok := any(src.obj).(T)
	if !ok {
		return &Ptr[T]{}, errors.Wrapf(ErrBadCast, "%T is not %s", src.obj, common.TypeName[T]())
	}
	src.take()
	return &Ptr[T]{obj: obj, held: true}, nil
}
