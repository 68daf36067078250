// Package pair stores two values side by side while taking no room for
// values whose type carries no state.
//
// Go lays out zero-size struct fields without storage, so a stateless
// first element costs nothing: Pair[Less, int] is exactly as wide as int.
// A stateless second element follows a non-empty first one and may cost
// trailing alignment padding, which is why callers that care put the
// stateless value first (see pkg/unique, which stores its deleter there).
package pair

import (
	"github.com/rawbytedev/ownership/internal/common"
)

// Pair holds one logical (first, second) value.
type Pair[F, S any] struct {
	first  F
	second S
}

// New builds a pair from its two elements.
func New[F, S any](first F, second S) Pair[F, S] {
	return Pair[F, S]{first: first, second: second}
}

func (p *Pair[F, S]) First() F {
	return p.first
}

func (p *Pair[F, S]) Second() S {
	return p.second
}

// FirstRef gives mutable access to the first element.
func (p *Pair[F, S]) FirstRef() *F {
	return &p.first
}

// SecondRef gives mutable access to the second element.
func (p *Pair[F, S]) SecondRef() *S {
	return &p.second
}

func (p *Pair[F, S]) SetFirst(v F) {
	p.first = v
}

func (p *Pair[F, S]) SetSecond(v S) {
	p.second = v
}

// Swap exchanges both elements with other.
func (p *Pair[F, S]) Swap(other *Pair[F, S]) {
	if p == other {
		return
	}
	p.first, other.first = other.first, p.first
	p.second, other.second = other.second, p.second
}

// Elided reports which elements take no storage. A stateless second
// element only counts when the pair is no wider than its first element,
// since trailing padding may be added for it.
func (p *Pair[F, S]) Elided() (first, second bool) {
	first = common.IsStateless[F]()
	second = common.IsStateless[S]() && common.SizeOf[Pair[F, S]]() == common.SizeOf[F]()
	return first, second
}
