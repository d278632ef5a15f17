package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCents_RejectsNegative(t *testing.T) {
	_, err := FromCents(-1)
	assert.ErrorIs(t, err, ErrArithmetic)

	m, err := FromCents(2200)
	assert.NoError(t, err)
	assert.Equal(t, int64(2200), m.Cents())
}

func TestAdd(t *testing.T) {
	a := MustFromCents(4400)
	b := MustFromCents(3000)

	sum, err := a.Add(b)
	assert.NoError(t, err)
	assert.Equal(t, int64(7400), sum.Cents())
}

func TestAdd_Overflow(t *testing.T) {
	a := MustFromCents(math.MaxInt64)
	b := MustFromCents(1)

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestMulQty(t *testing.T) {
	unit := MustFromCents(2200)

	total, err := unit.MulQty(2)
	assert.NoError(t, err)
	assert.Equal(t, int64(4400), total.Cents())

	_, err = unit.MulQty(0)
	assert.ErrorIs(t, err, ErrArithmetic)

	_, err = unit.MulQty(-3)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestMulQty_Overflow(t *testing.T) {
	unit := MustFromCents(math.MaxInt64 / 2)

	_, err := unit.MulQty(3)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestCmp(t *testing.T) {
	assert.Equal(t, -1, MustFromCents(100).Cmp(MustFromCents(200)))
	assert.Equal(t, 1, MustFromCents(200).Cmp(MustFromCents(100)))
	assert.Equal(t, 0, MustFromCents(100).Cmp(MustFromCents(100)))
	assert.True(t, MustFromCents(4000).GTE(MustFromCents(4000)))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "$74.00", MustFromCents(7400).Display())
	assert.Equal(t, "$5.05", MustFromCents(505).Display())
	assert.Equal(t, "$0.00", Zero.Display())
}
