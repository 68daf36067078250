package shared

import (
	"github.com/pkg/errors"
)

// Observable lets an object owned by Ptr obtain handles to itself.
// Embed it with the embedding type as parameter:
//
//	type session struct {
//		shared.Observable[session]
//		...
//	}
//
// New, Make and MakeWith install the self reference once the object is
// built; calling SharedFromThis before that fails with
// ErrDanglingReference. While Destroy runs the object still counts as
// alive, so it may take references to itself during cleanup.
type Observable[T any] struct {
	weakThis *Weak[T]
}

type selfObserver[T any] interface {
	setWeakThis(w *Weak[T])
	releaseWeakThis()
}

// SharedFromThis returns a new strong handle to the object.
func (o *Observable[T]) SharedFromThis() (*Ptr[T], error) {
	if o.weakThis == nil {
		return nil, errors.WithStack(ErrDanglingReference)
	}
	return FromWeak(o.weakThis)
}

// WeakFromThis returns a new weak handle to the object.
func (o *Observable[T]) WeakFromThis() *Weak[T] {
	return o.weakThis.Clone()
}

// setWeakThis installs w as the self reference. A reference already present
// was copied along with the object's value and belongs to the original, so
// it is overwritten, not released.
func (o *Observable[T]) setWeakThis(w *Weak[T]) {
	o.weakThis = w
}

func (o *Observable[T]) releaseWeakThis() {
	if o.weakThis == nil {
		return
	}
	w := o.weakThis
	o.weakThis = nil
	w.Reset()
}
