package shared

import (
	"fmt"

	"github.com/rawbytedev/ownership"
	"github.com/rawbytedev/ownership/internal/common"
)

type blockKind uint8

const (
	// pointerBlock owns an object allocated separately by the caller.
	pointerBlock blockKind = iota
	// inlineBlock houses the object in the same allocation as the block.
	inlineBlock
)

func (k blockKind) String() string {
	if k == inlineBlock {
		return "inline"
	}
	return "pointer"
}

// State is the lifecycle stage of a control block.
type State uint8

const (
	// Live: at least one shared reference.
	Live State = iota
	// Zombie: object destroyed, weak references keep the block around.
	Zombie
	// Dead: no references of either kind.
	Dead
)

func (s State) String() string {
	switch s {
	case Live:
		return "live"
	case Zombie:
		return "zombie"
	default:
		return "dead"
	}
}

// controlBlock is the bookkeeping shared by every Ptr and Weak for one
// managed object.
type controlBlock struct {
	shared int
	weak   int
	kind   blockKind
	// object is the owned *U for pointer blocks, or the address of the
	// inline storage for inline blocks.
	object any
	// constructed is cleared once the inline object has been destroyed.
	constructed bool
	// observing is set when the object embeds Observable.
	observing bool
	dead      bool
}

type inlineStorage[T any] struct {
	ctrl controlBlock
	obj  T
}

type selfReleaser interface {
	releaseWeakThis()
}

func (cb *controlBlock) state() State {
	switch {
	case cb.dead:
		return Dead
	case cb.shared > 0:
		return Live
	default:
		return Zombie
	}
}

func (cb *controlBlock) incShared() {
	cb.shared++
}

func (cb *controlBlock) incWeak() {
	cb.weak++
}

// decShared drops one shared unit. The last one destroys the object; for
// observing objects the count is held at one while Destroy runs so the
// object can still hand out references to itself.
func (cb *controlBlock) decShared() {
	if cb.shared <= 0 {
		panic(fmt.Sprintf("shared: decrementing non-positive shared count %p", cb))
	}
	cb.shared--
	if cb.shared > 0 {
		return
	}
	if cb.observing {
		cb.shared++
	}
	cb.destroyObject()
	if cb.observing {
		cb.shared--
	}
	cb.retireIfUnused()
}

func (cb *controlBlock) decWeak() {
	if cb.weak <= 0 {
		panic(fmt.Sprintf("shared: decrementing non-positive weak count %p", cb))
	}
	cb.weak--
	cb.retireIfUnused()
}

func (cb *controlBlock) destroyObject() {
	if log := ownership.Logger().V(1); log.Enabled() {
		log.Info("control block expired", "kind", cb.kind, "type", fmt.Sprintf("%T", cb.object), "weak", cb.weak)
	}
	obj := cb.object
	switch cb.kind {
	case pointerBlock:
		ownership.Destroy(obj)
		cb.releaseSelf(obj)
		cb.object = nil
	case inlineBlock:
		if !cb.constructed {
			return
		}
		cb.constructed = false
		ownership.Destroy(obj)
		cb.releaseSelf(obj)
		common.ZeroAt(obj)
	}
}

func (cb *controlBlock) releaseSelf(obj any) {
	if !cb.observing {
		return
	}
	if r, ok := obj.(selfReleaser); ok {
		r.releaseWeakThis()
	}
}

func (cb *controlBlock) retireIfUnused() {
	if cb.dead || cb.shared != 0 || cb.weak != 0 {
		return
	}
	cb.dead = true
	cb.object = nil
	if log := ownership.Logger().V(1); log.Enabled() {
		log.Info("control block released", "kind", cb.kind)
	}
}
