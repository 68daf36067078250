package shared

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	id        int
	label     string
	destroyed *int
}

func (w *widget) Destroy() {
	if w.destroyed != nil {
		*w.destroyed++
	}
}

type engine struct {
	power int
}

type car struct {
	Engine engine
	name   string
}

func TestNewCountsReferences(t *testing.T) {
	var destroyed int
	sp := New(&widget{id: 1, destroyed: &destroyed})
	require.True(t, sp.Valid())
	require.Equal(t, 1, sp.UseCount())

	c1 := sp.Clone()
	c2 := c1.Clone()
	require.Equal(t, 3, sp.UseCount())
	require.True(t, sp.Equal(c2))

	c1.Reset()
	require.Equal(t, 2, sp.UseCount())
	require.False(t, c1.Valid())
	require.Equal(t, 0, c1.UseCount())

	c2.Reset()
	require.Equal(t, 0, destroyed)
	sp.Reset()
	require.Equal(t, 1, destroyed)
}

func TestUseCountTracksLiveCopies(t *testing.T) {
	condition := func(k uint8) bool {
		var destroyed int
		sp := New(&widget{destroyed: &destroyed})
		copies := make([]*Ptr[widget], int(k%32))
		for i := range copies {
			copies[i] = sp.Clone()
			if sp.UseCount() != i+2 {
				return false
			}
		}
		for i, c := range copies {
			c.Reset()
			if sp.UseCount() != len(copies)-i {
				return false
			}
		}
		sp.Reset()
		return destroyed == 1
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestNilAndZeroHandles(t *testing.T) {
	sp := New[widget](nil)
	require.False(t, sp.Valid())
	require.Equal(t, 0, sp.UseCount())
	require.Nil(t, sp.Get())
	sp.Reset()

	var none *Ptr[widget]
	require.False(t, none.Valid())
	require.Equal(t, 0, none.UseCount())
	require.False(t, none.Clone().Valid())

	var zero Ptr[widget]
	require.True(t, zero.Equal(sp))
}

func TestMoveEmptiesSource(t *testing.T) {
	w := &widget{id: 7}
	sp := New(w)
	moved := sp.Move()
	require.False(t, sp.Valid())
	require.Nil(t, sp.Get())
	require.Same(t, w, moved.Get())
	require.Equal(t, 1, moved.UseCount())
}

func TestCopyFrom(t *testing.T) {
	var da, db int
	a := New(&widget{id: 1, destroyed: &da})
	b := New(&widget{id: 2, destroyed: &db})

	a.CopyFrom(b)
	require.Equal(t, 1, da)
	require.Equal(t, 2, b.UseCount())
	require.Equal(t, 2, a.Get().id)

	a.CopyFrom(a)
	require.Equal(t, 2, b.UseCount())

	// Both sides already share the block.
	c := b.Move()
	a.CopyFrom(c)
	require.Equal(t, 2, c.UseCount())
	require.Equal(t, 0, db)

	empty := &Ptr[widget]{}
	a.CopyFrom(empty)
	require.False(t, a.Valid())
	require.Equal(t, 1, c.UseCount())
}

func TestMoveFrom(t *testing.T) {
	var da, db int
	a := New(&widget{id: 1, destroyed: &da})
	b := New(&widget{id: 2, destroyed: &db})

	a.MoveFrom(a)
	require.Equal(t, 1, a.UseCount())

	a.MoveFrom(b)
	require.Equal(t, 1, da)
	require.False(t, b.Valid())
	require.Equal(t, 1, a.UseCount())

	c := a.Clone()
	a.MoveFrom(c)
	require.Equal(t, 1, a.UseCount())
	require.Equal(t, 0, db)
}

func TestResetTo(t *testing.T) {
	var d1, d2 int
	w1 := &widget{destroyed: &d1}
	sp := New(w1)
	weak := sp.Weak()

	sp.ResetTo(w1)
	require.Equal(t, 0, d1)
	require.Equal(t, 1, sp.UseCount())

	sp.ResetTo(&widget{destroyed: &d2})
	require.Equal(t, 1, d1)
	require.True(t, weak.Expired())
	require.Equal(t, 1, sp.UseCount())
	require.Equal(t, 0, sp.WeakCount())

	sp.ResetTo(nil)
	require.False(t, sp.Valid())
	require.Equal(t, 1, d2)
}

func TestSwap(t *testing.T) {
	a := New(&widget{id: 1})
	b := Make(widget{id: 2})
	a.Swap(b)
	require.Equal(t, 2, a.Get().id)
	require.Equal(t, 1, b.Get().id)
}

func TestAliasSharesControlBlock(t *testing.T) {
	sp := New(&car{name: "c", Engine: engine{power: 90}})
	eng := Alias(sp, &sp.Get().Engine)
	require.Equal(t, 2, sp.UseCount())
	require.True(t, Same(sp, eng))
	require.Equal(t, 90, eng.Get().power)

	sp.Reset()
	require.Equal(t, 1, eng.UseCount())
	require.Equal(t, 90, eng.Get().power)

	empty := Alias(&Ptr[car]{}, &engine{})
	require.False(t, empty.Valid())
}

func TestCastThroughControlBlock(t *testing.T) {
	sp := New(&car{name: "c"})
	eng := Alias(sp, &sp.Get().Engine)

	owner, err := Cast[car](eng)
	require.NoError(t, err)
	require.Same(t, sp.Get(), owner.Get())
	require.Equal(t, 3, sp.UseCount())

	same, err := Cast[engine](eng)
	require.NoError(t, err)
	require.Same(t, eng.Get(), same.Get())

	bad, err := Cast[widget](eng)
	require.ErrorIs(t, err, ErrBadCast)
	require.False(t, bad.Valid())
	require.Equal(t, 4, sp.UseCount())

	none, err := Cast[car](&Ptr[engine]{})
	require.NoError(t, err)
	require.False(t, none.Valid())
}

func TestMakeMatchesNew(t *testing.T) {
	var dn, dm int
	viaNew := New(&widget{id: 3, label: "x", destroyed: &dn})
	viaMake := Make(widget{id: 3, label: "x", destroyed: &dm})

	assert.Equal(t, viaNew.Get().id, viaMake.Get().id)
	assert.Equal(t, viaNew.Get().label, viaMake.Get().label)

	cn, cm := viaNew.Clone(), viaMake.Clone()
	wn, wm := viaNew.Weak(), viaMake.Weak()
	assert.Equal(t, viaNew.UseCount(), viaMake.UseCount())
	assert.Equal(t, viaNew.WeakCount(), viaMake.WeakCount())

	for _, sp := range []*Ptr[widget]{viaNew, cn} {
		sp.Reset()
	}
	for _, sp := range []*Ptr[widget]{viaMake, cm} {
		sp.Reset()
	}
	assert.Equal(t, 1, dn)
	assert.Equal(t, 1, dm)
	assert.True(t, wn.Expired())
	assert.True(t, wm.Expired())
	assert.Equal(t, wn.ctrl.state(), wm.ctrl.state())
}

func TestMakeUsesOneAllocationLessThanNew(t *testing.T) {
	viaNew := testing.AllocsPerRun(100, func() {
		_ = New(&widget{id: 1, label: "a"})
	})
	viaMake := testing.AllocsPerRun(100, func() {
		_ = Make(widget{id: 1, label: "a"})
	})
	require.Equal(t, 1.0, viaNew-viaMake)
}

func TestMakeWithBuildsInPlace(t *testing.T) {
	var addr *widget
	sp := MakeWith(func(w *widget) {
		addr = w
		w.id = 9
	})
	require.Same(t, addr, sp.Get())
	require.Equal(t, 9, sp.Get().id)

	zero := MakeWith[widget](nil)
	require.True(t, zero.Valid())
	require.Equal(t, 0, zero.Get().id)
}

func TestInlineObjectIsZeroedOnExpiry(t *testing.T) {
	var destroyed int
	sp := Make(widget{id: 5, label: "gone", destroyed: &destroyed})
	w := sp.Weak()
	obj := sp.Get()

	sp.Reset()
	require.Equal(t, 1, destroyed)
	require.Equal(t, Zombie, w.ctrl.state())
	require.Equal(t, widget{}, *obj)
}

func TestDecrementingEmptyBlockPanics(t *testing.T) {
	cb := &controlBlock{}
	require.Panics(t, cb.decShared)
	require.Panics(t, cb.decWeak)
}
