// Package shared provides shared-ownership handles (Ptr) and observing
// handles (Weak) over a control block that counts both kinds.
//
// The managed object is destroyed when the last Ptr lets go; the control
// block stays around while any Weak still refers to it, so a Weak can
// always tell whether its object is gone.
//
// Handles are not safe for concurrent use.
package shared

import (
	"github.com/pkg/errors"

	"github.com/rawbytedev/ownership/internal/common"
)

var (
	// ErrDanglingReference is returned when a strong reference is requested
	// from an expired weak one.
	ErrDanglingReference = errors.New("shared: weak reference has expired")
	ErrBadCast           = errors.New("shared: managed object does not have the requested type")
)

// Ptr is a shared-ownership handle. Every Ptr with a control block holds
// one unit of its shared count.
type Ptr[T any] struct {
	_    common.NoCopy
	ptr  *T
	ctrl *controlBlock
}

// New takes ownership of p, which must not be owned by anything else.
// A nil p gives an empty handle.
func New[T any](p *T) *Ptr[T] {
	sp := &Ptr[T]{}
	sp.own(p)
	return sp
}

// Make stores v in the same allocation as its control block.
func Make[T any](v T) *Ptr[T] {
	blk := &inlineStorage[T]{obj: v}
	return blk.wrap()
}

// MakeWith is Make for values that must be built in place: build
// receives the final address of the object.
func MakeWith[T any](build func(*T)) *Ptr[T] {
	blk := &inlineStorage[T]{}
	if build != nil {
		build(&blk.obj)
	}
	return blk.wrap()
}

func (blk *inlineStorage[T]) wrap() *Ptr[T] {
	blk.ctrl = controlBlock{
		shared:      1,
		kind:        inlineBlock,
		object:      &blk.obj,
		constructed: true,
	}
	sp := &Ptr[T]{ptr: &blk.obj, ctrl: &blk.ctrl}
	sp.enableSelf()
	return sp
}

func (p *Ptr[T]) own(obj *T) {
	if obj == nil {
		return
	}
	p.ptr = obj
	p.ctrl = &controlBlock{shared: 1, kind: pointerBlock, object: obj}
	p.enableSelf()
}

// enableSelf hands an Observable object its weak self reference. It runs
// only after the object is fully built.
func (p *Ptr[T]) enableSelf() {
	so, ok := any(p.ptr).(selfObserver[T])
	if !ok {
		return
	}
	p.ctrl.observing = true
	so.setWeakThis(NewWeak(p))
}

// Alias returns a handle that shares owner's control block but points at
// p, typically a field of the owned object. An empty owner gives an empty
// handle.
func Alias[T, Y any](owner *Ptr[Y], p *T) *Ptr[T] {
	if owner == nil || owner.ctrl == nil {
		return &Ptr[T]{}
	}
	owner.ctrl.incShared()
	return &Ptr[T]{ptr: p, ctrl: owner.ctrl}
}

// FromWeak promotes w to a strong reference.
func FromWeak[T any](w *Weak[T]) (*Ptr[T], error) {
	if w.Expired() {
		return nil, errors.WithStack(ErrDanglingReference)
	}
	w.ctrl.incShared()
	return &Ptr[T]{ptr: w.ptr, ctrl: w.ctrl}, nil
}

// Cast returns a handle to src's object viewed as *T. Besides the
// pointer src exposes, the dynamic type of the object the control block
// owns is tried, which recovers the owner from an alias to one of its
// fields. On failure no count changes.
func Cast[T, U any](src *Ptr[U]) (*Ptr[T], error) {
	if src == nil || src.ctrl == nil {
		return &Ptr[T]{}, nil
	}
	if p, ok := any(src.ptr).(*T); ok {
		src.ctrl.incShared()
		return &Ptr[T]{ptr: p, ctrl: src.ctrl}, nil
	}
	if p, ok := src.ctrl.object.(*T); ok {
		src.ctrl.incShared()
		return &Ptr[T]{ptr: p, ctrl: src.ctrl}, nil
	}
	return &Ptr[T]{}, errors.Wrapf(ErrBadCast, "%T is not *%s", src.ctrl.object, common.TypeName[T]())
}

// Clone returns another handle sharing p's object.
func (p *Ptr[T]) Clone() *Ptr[T] {
	if p == nil || p.ctrl == nil {
		return &Ptr[T]{}
	}
	p.ctrl.incShared()
	return &Ptr[T]{ptr: p.ptr, ctrl: p.ctrl}
}

// Move hands p's reference to a new handle and empties p.
func (p *Ptr[T]) Move() *Ptr[T] {
	ptr, ctrl := p.take()
	return &Ptr[T]{ptr: ptr, ctrl: ctrl}
}

func (p *Ptr[T]) take() (*T, *controlBlock) {
	ptr, ctrl := p.ptr, p.ctrl
	p.ptr, p.ctrl = nil, nil
	return ptr, ctrl
}

// CopyFrom makes p share other's object, dropping what p held.
func (p *Ptr[T]) CopyFrom(other *Ptr[T]) {
	if p == other {
		return
	}
	if other.ctrl != nil {
		other.ctrl.incShared()
	}
	old := p.ctrl
	p.ptr, p.ctrl = other.ptr, other.ctrl
	if old != nil {
		old.decShared()
	}
}

// MoveFrom takes other's reference, dropping what p held. Other is left
// empty.
func (p *Ptr[T]) MoveFrom(other *Ptr[T]) {
	if p == other {
		return
	}
	old := p.ctrl
	p.ptr, p.ctrl = other.take()
	if old != nil {
		old.decShared()
	}
}

// Reset drops p's reference and empties it.
func (p *Ptr[T]) Reset() {
	if _, ctrl := p.take(); ctrl != nil {
		ctrl.decShared()
	}
}

// ResetTo drops p's reference and takes ownership of obj under a fresh
// control block. Resetting to the object p already points at does nothing.
func (p *Ptr[T]) ResetTo(obj *T) {
	if obj != nil && obj == p.ptr {
		return
	}
	_, old := p.take()
	p.own(obj)
	if old != nil {
		old.decShared()
	}
}

func (p *Ptr[T]) Swap(other *Ptr[T]) {
	p.ptr, other.ptr = other.ptr, p.ptr
	p.ctrl, other.ctrl = other.ctrl, p.ctrl
}

func (p *Ptr[T]) Get() *T {
	if p == nil {
		return nil
	}
	return p.ptr
}

// UseCount returns the number of shared references, 0 when empty.
func (p *Ptr[T]) UseCount() int {
	if p == nil || p.ctrl == nil {
		return 0
	}
	return p.ctrl.shared
}

// WeakCount returns the number of weak references, 0 when empty.
func (p *Ptr[T]) WeakCount() int {
	if p == nil || p.ctrl == nil {
		return 0
	}
	return p.ctrl.weak
}

// Valid reports whether p points at an object.
func (p *Ptr[T]) Valid() bool {
	return p != nil && p.ptr != nil
}

// Equal reports whether both handles share one control block.
func (p *Ptr[T]) Equal(other *Ptr[T]) bool {
	return Same(p, other)
}

// Weak returns a weak handle observing p's object.
func (p *Ptr[T]) Weak() *Weak[T] {
	return NewWeak(p)
}

// Same reports whether a and b share one control block, whatever they
// point at.
func Same[T, U any](a *Ptr[T], b *Ptr[U]) bool {
	return a.control() == b.control()
}

func (p *Ptr[T]) control() *controlBlock {
	if p == nil {
		return nil
	}
	return p.ctrl
}
