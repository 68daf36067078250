package common

import (
	"fmt"
	"reflect"
	"unsafe"
)

// NoCopy may be added to structs which must not be copied after first use.
// `go vet` reports copies through its copylocks check.
type NoCopy struct{}

func (*NoCopy) Lock()   {}
func (*NoCopy) Unlock() {}

// IsNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, func or chan.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// SameReference reports whether a and b are the same object. Reference
// kinds compare by address; other values compare with == when their
// dynamic types allow it and are never the same otherwise.
func SameReference(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	}
	if !ra.Comparable() || !rb.Comparable() {
		return false
	}
	return ra.Equal(rb)
}

// TypeName returns the printable name of T.
func TypeName[T any]() string {
	var p *T
	return fmt.Sprintf("%T", p)[1:]
}

// SizeOf returns the in-memory width of T.
func SizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// IsStateless reports whether T carries no state, i.e. takes no bytes.
func IsStateless[T any]() bool {
	return SizeOf[T]() == 0
}

// ZeroAt overwrites the value p points to with its zero value.
// p must be a non-nil pointer; anything else is ignored.
func ZeroAt(p any) {
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	rv.Elem().SetZero()
}
