package shared

import (
	"github.com/rawbytedev/ownership/internal/common"
)

// Weak observes an object owned by Ptr handles without keeping it alive.
// It does keep the control block around, so Expired stays accurate.
type Weak[T any] struct {
	_    common.NoCopy
	ptr  *T
	ctrl *controlBlock
}

// NewWeak returns a weak handle observing sp's object.
func NewWeak[T any](sp *Ptr[T]) *Weak[T] {
	w := &Weak[T]{}
	if sp == nil || sp.ctrl == nil {
		return w
	}
	sp.ctrl.incWeak()
	w.ptr, w.ctrl = sp.ptr, sp.ctrl
	return w
}

func (w *Weak[T]) Clone() *Weak[T] {
	if w == nil || w.ctrl == nil {
		return &Weak[T]{}
	}
	w.ctrl.incWeak()
	return &Weak[T]{ptr: w.ptr, ctrl: w.ctrl}
}

// Move hands w's weak unit to a new handle and empties w.
func (w *Weak[T]) Move() *Weak[T] {
	ptr, ctrl := w.take()
	return &Weak[T]{ptr: ptr, ctrl: ctrl}
}

func (w *Weak[T]) take() (*T, *controlBlock) {
	ptr, ctrl := w.ptr, w.ctrl
	w.ptr, w.ctrl = nil, nil
	return ptr, ctrl
}

func (w *Weak[T]) assign(ptr *T, ctrl *controlBlock) {
	if ctrl != nil {
		ctrl.incWeak()
	}
	old := w.ctrl
	w.ptr, w.ctrl = ptr, ctrl
	if old != nil {
		old.decWeak()
	}
}

// CopyFrom makes w observe what other observes.
func (w *Weak[T]) CopyFrom(other *Weak[T]) {
	if w == other {
		return
	}
	w.assign(other.ptr, other.ctrl)
}

// AssignShared makes w observe sp's object.
func (w *Weak[T]) AssignShared(sp *Ptr[T]) {
	w.assign(sp.ptr, sp.ctrl)
}

// MoveFrom takes other's weak unit and empties other.
func (w *Weak[T]) MoveFrom(other *Weak[T]) {
	if w == other {
		return
	}
	old := w.ctrl
	w.ptr, w.ctrl = other.take()
	if old != nil {
		old.decWeak()
	}
}

// Reset drops the weak unit and empties w.
func (w *Weak[T]) Reset() {
	if _, ctrl := w.take(); ctrl != nil {
		ctrl.decWeak()
	}
}

func (w *Weak[T]) Swap(other *Weak[T]) {
	w.ptr, other.ptr = other.ptr, w.ptr
	w.ctrl, other.ctrl = other.ctrl, w.ctrl
}

// Expired reports whether the observed object has been destroyed, or w
// observes nothing.
func (w *Weak[T]) Expired() bool {
	return w == nil || w.ctrl == nil || w.ctrl.shared == 0
}

// Lock returns a strong handle to the object, or an empty one if it has
// expired.
func (w *Weak[T]) Lock() *Ptr[T] {
	sp, err := FromWeak(w)
	if err != nil {
		return &Ptr[T]{}
	}
	return sp
}

// UseCount returns the shared count of the observed object.
func (w *Weak[T]) UseCount() int {
	if w == nil || w.ctrl == nil {
		return 0
	}
	return w.ctrl.shared
}
