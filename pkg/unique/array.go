package unique

import (
	"github.com/rawbytedev/ownership/internal/common"
	"github.com/rawbytedev/ownership/pkg/pair"
)

// Array owns a whole array and releases it with the array form of its
// deleter.
type Array[T any, D ArrayDeleter[T]] struct {
	_       common.NoCopy
	storage pair.Pair[D, []T]
}

// NewArray owns s and releases it with DefaultDelete.
func NewArray[T any](s []T) *Array[T, DefaultDelete[T]] {
	return NewArrayWithDeleter(s, DefaultDelete[T]{})
}

// MakeArray allocates n zero elements and owns them.
func MakeArray[T any](n int) *Array[T, DefaultDelete[T]] {
	return NewArray(make([]T, n))
}

// NewArrayWithDeleter owns s and releases it with d.
func NewArrayWithDeleter[T any, D ArrayDeleter[T]](s []T, d D) *Array[T, D] {
	return &Array[T, D]{storage: pair.New(d, s)}
}

// Move hands the array and deleter to a new handle and empties a.
func (a *Array[T, D]) Move() *Array[T, D] {
	d := a.storage.First()
	return &Array[T, D]{storage: pair.New(d, a.Release())}
}

// MoveFrom takes other's array and deleter, releasing what a owned.
func (a *Array[T, D]) MoveFrom(other *Array[T, D]) {
	if a == other {
		return
	}
	old, oldDeleter := a.storage.Second(), a.storage.First()
	d := other.storage.First()
	a.storage = pair.New(d, other.Release())
	if old != nil && !sameArray(old, a.storage.Second()) {
		oldDeleter.DeleteArray(old)
	}
}

// Release gives up ownership without running the deleter.
func (a *Array[T, D]) Release() []T {
	s := a.storage.Second()
	a.storage.SetSecond(nil)
	return s
}

func (a *Array[T, D]) Reset() {
	a.ResetTo(nil)
}

// ResetTo swaps in s and then releases the previous array. Resetting to
// the array already owned does nothing; an empty non-nil array is always
// treated as a different one.
func (a *Array[T, D]) ResetTo(s []T) {
	old := a.storage.Second()
	if sameArray(old, s) {
		return
	}
	a.storage.SetSecond(s)
	if old != nil {
		a.storage.First().DeleteArray(old)
	}
}

func (a *Array[T, D]) Swap(other *Array[T, D]) {
	a.storage.Swap(&other.storage)
}

// At returns the address of element i. It panics when i is out of range.
func (a *Array[T, D]) At(i int) *T {
	return &a.storage.Second()[i]
}

func (a *Array[T, D]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.storage.Second())
}

func (a *Array[T, D]) Get() []T {
	if a == nil {
		return nil
	}
	return a.storage.Second()
}

func (a *Array[T, D]) Deleter() *D {
	return a.storage.FirstRef()
}

func (a *Array[T, D]) Valid() bool {
	return a != nil && a.storage.Second() != nil
}

func sameArray[T any](x, y []T) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if len(x) != len(y) || cap(x) != cap(y) {
		return false
	}
	// Distinct empty allocations may share one address.
	if cap(x) == 0 {
		return false
	}
	return &x[:1][0] == &y[:1][0]
}
