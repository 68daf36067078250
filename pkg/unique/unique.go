// Package unique provides single-owner handles with a pluggable deleter.
//
// Ownership moves with Move or MoveFrom; there is no way to copy a handle,
// and go vet reports copies of the struct itself. The deleter runs once,
// when the owned object is replaced or dropped with Reset.
package unique

import (
	"github.com/rawbytedev/ownership/internal/common"
	"github.com/rawbytedev/ownership/pkg/pair"
)

// Ptr owns a single object. The deleter is stored first so a stateless
// deleter costs nothing: Ptr[T, DefaultDelete[T]] is one word wide.
type Ptr[T any, D Deleter[T]] struct {
	_       common.NoCopy
	storage pair.Pair[D, *T]
}

// New owns p and releases it with DefaultDelete.
func New[T any](p *T) *Ptr[T, DefaultDelete[T]] {
	return NewWithDeleter(p, DefaultDelete[T]{})
}

// NewWithDeleter owns p and releases it with d.
func NewWithDeleter[T any, D Deleter[T]](p *T, d D) *Ptr[T, D] {
	return &Ptr[T, D]{storage: pair.New(d, p)}
}

// Move hands the object and deleter to a new handle and empties u.
func (u *Ptr[T, D]) Move() *Ptr[T, D] {
	d := u.storage.First()
	return &Ptr[T, D]{storage: pair.New(d, u.Release())}
}

// MoveFrom takes other's object and deleter, releasing what u owned.
func (u *Ptr[T, D]) MoveFrom(other *Ptr[T, D]) {
	if u == other {
		return
	}
	old, oldDeleter := u.storage.Second(), u.storage.First()
	d := other.storage.First()
	u.storage = pair.New(d, other.Release())
	if old != nil && old != u.storage.Second() {
		oldDeleter.Delete(old)
	}
}

// Release gives up ownership without running the deleter.
func (u *Ptr[T, D]) Release() *T {
	p := u.storage.Second()
	u.storage.SetSecond(nil)
	return p
}

// Reset releases the owned object, if any, and empties u.
func (u *Ptr[T, D]) Reset() {
	u.ResetTo(nil)
}

// ResetTo swaps in p and then releases the previous object. Resetting to
// the object already owned does nothing.
func (u *Ptr[T, D]) ResetTo(p *T) {
	old := u.storage.Second()
	if old == p {
		return
	}
	u.storage.SetSecond(p)
	if old != nil {
		u.storage.First().Delete(old)
	}
}

func (u *Ptr[T, D]) Swap(other *Ptr[T, D]) {
	u.storage.Swap(&other.storage)
}

func (u *Ptr[T, D]) Get() *T {
	if u == nil {
		return nil
	}
	return u.storage.Second()
}

// Deleter gives mutable access to the deleter.
func (u *Ptr[T, D]) Deleter() *D {
	return u.storage.FirstRef()
}

func (u *Ptr[T, D]) Valid() bool {
	return u != nil && u.storage.Second() != nil
}
