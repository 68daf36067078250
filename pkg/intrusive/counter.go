package intrusive

import (
	"fmt"

	"github.com/rawbytedev/ownership"
	"github.com/rawbytedev/ownership/internal/common"
)

// RefCounter is what a pointee must provide to be held by Ptr.
// IncRef and DecRef return the count after the change.
type RefCounter interface {
	IncRef() int
	DecRef() int
	RefCount() int
}

// SimpleCounter is a plain, unsynchronized count.
type SimpleCounter struct {
	count int
}

func (c *SimpleCounter) IncRef() int {
	c.count++
	return c.count
}

func (c *SimpleCounter) DecRef() int {
	if c.count <= 0 {
		panic(fmt.Sprintf("intrusive: decrementing non-positive count %p", c))
	}
	c.count--
	return c.count
}

func (c *SimpleCounter) RefCount() int {
	return c.count
}

// Deleter decides how a pointee is torn down once its count reaches zero.
type Deleter interface {
	Destroy(obj any)
}

// DefaultDelete runs the pointee's Destroy method, if any, and leaves the
// memory to the garbage collector.
type DefaultDelete struct{}

func (DefaultDelete) Destroy(obj any) {
	ownership.Destroy(obj)
}

// DeleterFunc adapts a function to Deleter.
type DeleterFunc func(obj any)

func (f DeleterFunc) Destroy(obj any) {
	f(obj)
}

// RefCounted gives the embedding type the RefCounter capability.
//
//	type node struct {
//		intrusive.RefCounted
//		...
//	}
//
// The count lives inside the embedding object. A custom counting policy or
// deleter can be injected before the first IncRef.
type RefCounted struct {
	_       common.NoCopy
	own     SimpleCounter
	custom  RefCounter
	deleter Deleter
}

func (r *RefCounted) counter() RefCounter {
	if r.custom != nil {
		return r.custom
	}
	return &r.own
}

// IncRef adds one reference.
func (r *RefCounted) IncRef() int {
	return r.counter().IncRef()
}

// DecRef drops one reference. Destruction at zero is left to the pointer
// that dropped it.
func (r *RefCounted) DecRef() int {
	return r.counter().DecRef()
}

// RefCount returns the number of strong references.
func (r *RefCounted) RefCount() int {
	return r.counter().RefCount()
}

// SetCounter swaps in a different counting policy. It panics once
// references exist.
func (r *RefCounted) SetCounter(c RefCounter) {
	if r.RefCount() != 0 {
		panic("intrusive: SetCounter on a referenced object")
	}
	r.custom = c
}

// SetDeleter overrides how the object is destroyed at zero.
func (r *RefCounted) SetDeleter(d Deleter) {
	r.deleter = d
}

func (r *RefCounted) refDeleter() Deleter {
	return r.deleter
}

type deleterSource interface {
	refDeleter() Deleter
}

func destroy(obj any) {
	if log := ownership.Logger().V(1); log.Enabled() {
		log.Info("destroying intrusive pointee", "type", fmt.Sprintf("%T", obj))
	}
	if src, ok := obj.(deleterSource); ok {
		if d := src.refDeleter(); d != nil {
			d.Destroy(obj)
			return
		}
	}
	DefaultDelete{}.Destroy(obj)
}
