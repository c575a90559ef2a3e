package decimal

import (
	"testing"

	"github.com/joeycumines/go-corekernel/kerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, s string) *Decimal {
	t.Helper()
	d := &Decimal{}
	require.NoError(t, d.SetFromString(s))
	return d
}

func TestRoundTripStringParsing(t *testing.T) {
	d := parse(t, "-000034.0567812345678900000000000000000e-32745")
	assert.Equal(t, -1, d.Sign())
	back := parse(t, d.String())
	assert.Equal(t, 0, back.Cmp(d))
}

func TestZeroFromStringVariants(t *testing.T) {
	for _, s := range []string{"0", "0.0", "-0", "0e99"} {
		d := parse(t, s)
		assert.True(t, d.IsZero(), "input %q", s)
	}
}

func mkPlaces(digits ...uint32) *Decimal {
	z := &Decimal{}
	if err := z.setMagnitude(digits, 0, false); err != nil {
		panic(err)
	}
	return z
}

func TestMultLargeUsesKaratsubaAndMatchesSchoolbook(t *testing.T) {
	const n = 60 // > karatsubaThreshold, forces karatsubaMul's split path
	ad := make([]uint32, n)
	bd := make([]uint32, n)
	for i := range ad {
		ad[i] = uint32((uint64(i)*987654321 + 1) % Base)
		bd[i] = uint32((uint64(i)*123456789 + 7) % Base)
	}
	a := mkPlaces(ad...)
	b := mkPlaces(bd...)
	var z Decimal
	require.NoError(t, z.Mult(a, b))

	want := &Decimal{}
	require.NoError(t, want.setMagnitude(schoolbookMul(ad, bd), 0, false))
	assert.Equal(t, 0, z.Cmp(want))

	assert.Equal(t, trim(schoolbookMul(ad, bd)), karatsubaMul(ad, bd))
}

func TestMultThenDivRoundTrips(t *testing.T) {
	a := parse(t, "1.23456789")
	b := parse(t, "9.87654322")
	var z Decimal
	require.NoError(t, z.Mult(a, b))
	assert.Equal(t, 1, z.Sign())

	var back Decimal
	require.NoError(t, Div(&back, &z, b, 20))
	assert.Equal(t, 0, back.CmpMagnitude(a))
}

func TestAddSubInverse(t *testing.T) {
	a := parse(t, "123.456")
	b := parse(t, "0.000789")
	var sum, back Decimal
	require.NoError(t, sum.Add(a, b))
	require.NoError(t, back.Sub(&sum, b))
	assert.Equal(t, 0, back.Cmp(a))
}

func TestDivUint32ClampsPlaces(t *testing.T) {
	a := parse(t, "1")
	var q Decimal
	require.NoError(t, DivUint32(&q, a, 3))
	assert.False(t, q.IsZero())
}

func TestDivByZeroInvalid(t *testing.T) {
	a := parse(t, "1")
	zero := &Decimal{}
	err := Div(nil, a, zero, 10)
	require.ErrorIs(t, err, kerr.InvalidInput)
}

func TestInvalidStringRejected(t *testing.T) {
	d := &Decimal{}
	err := d.SetFromString("not-a-number")
	require.Error(t, err)
}

func TestOverflowExponentBoundary(t *testing.T) {
	d := &Decimal{}
	err := d.SetFromString("1e-294904")
	require.ErrorIs(t, err, kerr.Overflow)
}
