package pair

import (
	"testing"
	"testing/quick"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lessInt struct{}

func (lessInt) Less(a, b int) bool { return a < b }

type offset struct{ by int }

func TestStatelessFirstTakesNoRoom(t *testing.T) {
	var p Pair[lessInt, int]
	var i int
	require.Equal(t, unsafe.Sizeof(i), unsafe.Sizeof(p))

	first, second := p.Elided()
	assert.True(t, first)
	assert.False(t, second)
}

func TestBothStored(t *testing.T) {
	var p Pair[int, int]
	var i int
	require.Equal(t, 2*unsafe.Sizeof(i), unsafe.Sizeof(p))

	first, second := p.Elided()
	assert.False(t, first)
	assert.False(t, second)
}

func TestStatelessSecondNoWiderThanTwoWords(t *testing.T) {
	var p Pair[int, lessInt]
	var i int
	require.LessOrEqual(t, unsafe.Sizeof(p), 2*unsafe.Sizeof(i))
	_, second := p.Elided()
	assert.Equal(t, unsafe.Sizeof(p) == unsafe.Sizeof(i), second)
}

func TestBothStateless(t *testing.T) {
	var p Pair[lessInt, struct{}]
	require.Zero(t, unsafe.Sizeof(p))
	first, second := p.Elided()
	assert.True(t, first)
	assert.True(t, second)
}

func TestAccessors(t *testing.T) {
	p := New(lessInt{}, 7)
	require.Equal(t, 7, p.Second())
	require.True(t, p.First().Less(1, 2))

	*p.SecondRef() = 9
	require.Equal(t, 9, p.Second())
	p.SetSecond(11)
	require.Equal(t, 11, p.Second())

	q := New(offset{by: 1}, "a")
	q.FirstRef().by = 5
	q.SetFirst(offset{by: q.First().by + 1})
	require.Equal(t, 6, q.First().by)
}

func TestSwapElidedAndStoredBehaveAlike(t *testing.T) {
	condition := func(a, b int) bool {
		elided1, elided2 := New(lessInt{}, a), New(lessInt{}, b)
		elided1.Swap(&elided2)

		stored1, stored2 := New(offset{by: a}, b), New(offset{by: b}, a)
		stored1.Swap(&stored2)

		return elided1.Second() == b && elided2.Second() == a &&
			stored1.First().by == b && stored1.Second() == a &&
			stored2.First().by == a && stored2.Second() == b
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func TestSwapWithSelf(t *testing.T) {
	p := New(3, "x")
	p.Swap(&p)
	require.Equal(t, 3, p.First())
	require.Equal(t, "x", p.Second())
}
