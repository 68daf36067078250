// Package ownership holds the pieces shared by the pointer packages:
// the destructor hook and the lifecycle logger.
//
// The handles themselves live in sub-packages:
//
//	pkg/pair       two-element storage that takes no room for stateless elements
//	pkg/intrusive  pointers over a counter embedded in the pointee
//	pkg/shared     shared/weak handles over a separate control block
//	pkg/unique     single-owner handles with a pluggable deleter
//
// Counters are not synchronized. Handles sharing a counter must be used
// from one goroutine at a time.
package ownership

import (
	"github.com/go-logr/logr"

	"github.com/rawbytedev/ownership/internal/common"
)

// Destroyer is implemented by pointees that need to run cleanup when the
// last owning handle lets go of them.
type Destroyer interface {
	Destroy()
}

// Destroy runs v's Destroy method if it has one. Nil values are ignored.
func Destroy(v any) {
	if v == nil {
		return
	}
	d, ok := v.(Destroyer)
	if !ok || common.IsNil(d) {
		return
	}
	d.Destroy()
}

var log = logr.Discard()

// SetLogger installs the logger used to trace handle lifecycles.
// Events are emitted at V(1).
func SetLogger(l logr.Logger) {
	log = l
}

// Logger returns the current lifecycle logger.
func Logger() logr.Logger {
	return log
}
