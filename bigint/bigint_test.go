package bigint

import (
	"testing"

	"github.com/joeycumines/go-corekernel/kerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(digits ...uint32) *Int {
	z := &Int{}
	require1 := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	require1(z.setMagnitude(digits, 0, false))
	return z
}

func TestCanonicalFormNoLeadingZeroDigit(t *testing.T) {
	z := &Int{}
	require.NoError(t, z.setMagnitude([]uint32{1, 2, 0, 0}, 0, false))
	assert.Equal(t, 2, z.NumDigits())
}

func TestZeroCanonicalizesSignAndExponent(t *testing.T) {
	z := &Int{}
	require.NoError(t, z.setMagnitude([]uint32{0, 0}, 7, true))
	assert.True(t, z.IsZero())
	assert.Equal(t, 0, z.Sign())
	assert.Equal(t, uint32(0), z.Exponent())
}

func TestAddCommutesAndMatchesSub(t *testing.T) {
	a := mk(5, 7)
	b := mk(9)
	var sum1, sum2 Int
	require.NoError(t, sum1.Add(a, b))
	require.NoError(t, sum2.Add(b, a))
	assert.Equal(t, 0, sum1.Cmp(&sum2))

	var diff Int
	require.NoError(t, diff.Sub(&sum1, b))
	assert.Equal(t, 0, diff.Cmp(a))
}

func TestSubNegativeResult(t *testing.T) {
	a := mk(3)
	b := mk(10)
	var z Int
	require.NoError(t, z.Sub(a, b))
	assert.Equal(t, -1, z.Sign())
}

func TestMultSmallMatchesSchoolbook(t *testing.T) {
	a := mk(123456789)
	b := mk(987654321)
	var z Int
	require.NoError(t, z.Mult(a, b))
	var want Int
	require.NoError(t, want.MulUint32(a, 987654321))
	assert.Equal(t, 0, z.Cmp(&want))
}

func TestMultLargeUsesKaratsubaAndMatchesSchoolbook(t *testing.T) {
	const n = 60 // > karatsubaThreshold, forces karatsubaMul's split path
	ad := make([]uint32, n)
	bd := make([]uint32, n)
	for i := range ad {
		ad[i] = uint32(i)*2654435761 + 1
		bd[i] = uint32(i)*40503 + 7
	}
	a := mk(ad...)
	b := mk(bd...)
	var z Int
	require.NoError(t, z.Mult(a, b))

	want := &Int{}
	require.NoError(t, want.setMagnitude(schoolbookMul(ad, bd), 0, false))
	assert.Equal(t, 0, z.Cmp(want))

	// karatsubaMul itself must agree with schoolbookMul on the same inputs.
	assert.Equal(t, trim(schoolbookMul(ad, bd)), karatsubaMul(ad, bd))
}

func TestDivModRoundTrip(t *testing.T) {
	a := mk(0xFFFFFFFF, 0xFFFFFFFF)
	b := mk(12345)
	var q, r Int
	require.NoError(t, DivMod(&q, &r, a, b))

	var check Int
	require.NoError(t, check.Mult(&q, b))
	var recon Int
	require.NoError(t, recon.Add(&check, &r))
	assert.Equal(t, 0, recon.Cmp(a))
	assert.Equal(t, -1, r.CmpMagnitude(b))
}

func TestDivModUint32FastPath(t *testing.T) {
	a := mk(1000000007)
	rem, err := DivModUint32(nil, a, 97)
	require.NoError(t, err)
	assert.Less(t, rem, uint32(97))
}

func TestDivByZeroIsInvalidInput(t *testing.T) {
	a := mk(1)
	zero := &Int{}
	err := DivMod(nil, nil, a, zero)
	require.ErrorIs(t, err, kerr.InvalidInput)
}

func TestFixedCapacityRefusesGrowth(t *testing.T) {
	z := NewFixed(0)
	err := z.SetUint32(1)
	require.Error(t, err)
}

func TestShiftLeftRightRoundTrip(t *testing.T) {
	a := mk(0x12345678, 0x9ABCDEF0)
	var shifted, back Int
	require.NoError(t, shifted.ShiftLeft(a, 40))
	require.NoError(t, back.ShiftRight(&shifted, 40))
	assert.Equal(t, 0, back.Cmp(a))
}

func TestFloat64RoundTripForSmallIntegers(t *testing.T) {
	var z Int
	require.NoError(t, z.SetFloat64(123456.0))
	assert.Equal(t, 123456.0, z.Float64())
}

func TestCmpOrdersBySignThenMagnitude(t *testing.T) {
	neg := mk(5)
	neg.Negate()
	pos := mk(1)
	assert.Equal(t, -1, neg.Cmp(pos))
	assert.Equal(t, 1, pos.Cmp(neg))
}
