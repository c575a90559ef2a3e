// Package decimal implements arbitrary-precision signed decimal numbers
// backed by base-10^9 digit arrays, in the style of
// original_source/C-kern/math/float/decimal.c. It depends on bigint for the
// power-of-ten table used during float conversion (s_decimal_powbase).
//
// A Decimal's value is (sum of digits[i]*1e9^i) * 1e9^exponent, where
// digits is little-endian and exponent is a signed count of whole base-1e9
// "places" (not individual decimal digits), matching the original's
// exponent_i16 = exp/9 packing.
package decimal

import (
	"github.com/joeycumines/go-corekernel/kerr"
)

const (
	// Base is the digit base: each stored digit covers 9 decimal digits.
	Base = 1_000_000_000
	// DigitsPerPlace is how many decimal digits one stored digit covers.
	DigitsPerPlace = 9

	// MaxDigits bounds the magnitude length at 127 places, the capacity_u8/
	// sign_and_used_u8 packing's ceiling (127 places covers at most 1143
	// decimal digits).
	MaxDigits = 127
	// MaxExponent bounds the place exponent's magnitude (it is signed,
	// unlike bigint's, since decimals can have a fractional part).
	MaxExponent = 0x7FFF
)

// Decimal is an arbitrary-precision signed decimal. The zero value is 0 and
// is ready to use.
type Decimal struct {
	digits []uint32 // canonical base-1e9 magnitude, little-endian
	neg    bool
	exp    int32 // in units of 1e9 (whole places), not decimal digits
	fixed  bool
}

// NewFixed returns a Decimal whose digit storage is exactly cap places and
// can never be reallocated.
func NewFixed(cap int) *Decimal {
	return &Decimal{digits: make([]uint32, 0, cap), fixed: true}
}

func (z *Decimal) NumDigits() int      { return len(z.digits) }
func (z *Decimal) DigitAt(i int) uint32 { return z.digits[i] }
func (z *Decimal) Exponent() int32     { return z.exp }

func (z *Decimal) Sign() int {
	if len(z.digits) == 0 {
		return 0
	}
	if z.neg {
		return -1
	}
	return 1
}

func (z *Decimal) IsZero() bool { return len(z.digits) == 0 }

func (z *Decimal) Negate() {
	if len(z.digits) != 0 {
		z.neg = !z.neg
	}
}

func (z *Decimal) Copy(src *Decimal) error {
	if z == src {
		return nil
	}
	if err := z.grow(len(src.digits)); err != nil {
		return kerr.Wrap("decimal.Copy", kerr.InvalidInput, err)
	}
	z.digits = z.digits[:len(src.digits)]
	copy(z.digits, src.digits)
	z.neg = src.neg
	z.exp = src.exp
	return nil
}

func (z *Decimal) grow(n int) error {
	if n > MaxDigits {
		return kerr.New("decimal.grow", kerr.Overflow)
	}
	if n <= cap(z.digits) {
		return nil
	}
	if z.fixed {
		return kerr.New("decimal.grow", kerr.InvalidInput)
	}
	nd := make([]uint32, len(z.digits), n)
	copy(nd, z.digits)
	z.digits = nd
	return nil
}

func (z *Decimal) canonicalize() {
	n := len(z.digits)
	for n > 0 && z.digits[n-1] == 0 {
		n--
	}
	// also fold low-order zero places into the exponent, keeping the
	// representation minimal the same way bigint folds trailing-zero
	// digits into its exponent field.
	lo := 0
	for lo < n && z.digits[lo] == 0 {
		lo++
	}
	if lo > 0 {
		copy(z.digits, z.digits[lo:n])
		n -= lo
		z.exp += int32(lo)
	}
	z.digits = z.digits[:n]
	if n == 0 {
		z.neg = false
		z.exp = 0
	}
}

func (z *Decimal) setMagnitude(digits []uint32, exp int32, neg bool) error {
	if err := z.grow(len(digits)); err != nil {
		return err
	}
	z.digits = z.digits[:len(digits)]
	copy(z.digits, digits)
	z.exp = exp
	z.neg = neg
	z.canonicalize()
	if len(z.digits) > MaxDigits || z.exp > MaxExponent || z.exp < -MaxExponent {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return kerr.New("decimal.setMagnitude", kerr.Overflow)
	}
	return nil
}

func (z *Decimal) SetUint32(v uint32) error {
	if v == 0 {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	return z.setMagnitude([]uint32{v}, 0, false)
}

// CmpMagnitude compares |z| to |other|.
func (z *Decimal) CmpMagnitude(other *Decimal) int {
	ztop := int64(len(z.digits)) + int64(z.exp)
	otop := int64(len(other.digits)) + int64(other.exp)
	if len(z.digits) == 0 && len(other.digits) == 0 {
		return 0
	}
	if len(z.digits) == 0 {
		return -1
	}
	if len(other.digits) == 0 {
		return 1
	}
	if ztop != otop {
		if ztop < otop {
			return -1
		}
		return 1
	}
	lowExp := z.exp
	if other.exp < lowExp {
		lowExp = other.exp
	}
	n := int(ztop - int64(lowExp))
	for i := n - 1; i >= 0; i-- {
		zv := digitAt(z.digits, z.exp, lowExp, i)
		ov := digitAt(other.digits, other.exp, lowExp, i)
		if zv != ov {
			if zv < ov {
				return -1
			}
			return 1
		}
	}
	return 0
}

func digitAt(d []uint32, exp, lowExp int32, i int) uint32 {
	idx := i - int(exp-lowExp)
	if idx < 0 || idx >= len(d) {
		return 0
	}
	return d[idx]
}

func (z *Decimal) Cmp(other *Decimal) int {
	zs, os := z.Sign(), other.Sign()
	if zs != os {
		if zs < os {
			return -1
		}
		return 1
	}
	if zs == 0 {
		return 0
	}
	c := z.CmpMagnitude(other)
	if zs < 0 {
		return -c
	}
	return c
}
