// Package bigint implements arbitrary-precision signed-magnitude integers
// backed by base-2^32 digit arrays, in the style of
// original_source/C-kern/math/int/bigint.c.
//
// An Int stores its magnitude as a little-endian []uint32 (digits[0] is the
// least significant digit), a sign, and an exponent: the magnitude's true
// value is (sum of digits[i]*2^(32*i)) * 2^(32*exponent). The exponent lets
// long runs of trailing zero digits (common after shifts and division) go
// unstored.
//
// Every mutating operation takes the receiver as the result and one or more
// operands as arguments, e.g. z.Add(a, b) computes z = a + b. z may alias a
// or b. A *Int constructed with NewFixed can never grow its digit slice
// past its initial capacity; operations that would need more room fail with
// kerr.InvalidInput instead of reallocating, mirroring the original's
// bigint_fixed_t.
package bigint

import (
	"github.com/joeycumines/go-corekernel/kerr"
)

const (
	// MaxDigits is the largest representable magnitude length, matching the
	// original's int16_t-sized sign_and_used_digits field.
	MaxDigits = 0x7FFF
	// MaxExponent is the largest representable exponent (16-bit unsigned).
	MaxExponent = 0xFFFF

	digitBits = 32
)

// Int is an arbitrary-precision signed integer. The zero value is the
// integer 0 and is ready to use.
type Int struct {
	digits []uint32 // canonical magnitude: no high zero digit once len>0
	neg    bool
	exp    uint32
	fixed  bool
}

// NewFixed returns an Int whose digit storage is exactly cap slots and can
// never be reallocated; operations that would need more than cap digits
// fail with kerr.InvalidInput. This mirrors the original's
// bigint_fixed_t (a zero-capacity variant refuses any growth at all).
func NewFixed(cap int) *Int {
	return &Int{digits: make([]uint32, 0, cap), fixed: true}
}

// NumDigits returns the number of stored (non-implicit) digits.
func (z *Int) NumDigits() int { return len(z.digits) }

// DigitAt returns digit i (0 = least significant stored digit).
func (z *Int) DigitAt(i int) uint32 { return z.digits[i] }

// Exponent returns the number of implicit trailing zero digits.
func (z *Int) Exponent() uint32 { return z.exp }

// Sign returns -1, 0 or 1.
func (z *Int) Sign() int {
	if len(z.digits) == 0 {
		return 0
	}
	if z.neg {
		return -1
	}
	return 1
}

// IsZero reports whether z is 0.
func (z *Int) IsZero() bool { return len(z.digits) == 0 }

// Negate flips the sign of z in place. Negating 0 is a no-op.
func (z *Int) Negate() {
	if len(z.digits) != 0 {
		z.neg = !z.neg
	}
}

// Copy sets z = src, growing z if necessary.
func (z *Int) Copy(src *Int) error {
	if z == src {
		return nil
	}
	if err := z.grow(len(src.digits)); err != nil {
		return kerr.Wrap("bigint.Copy", kerr.InvalidInput, err)
	}
	z.digits = z.digits[:len(src.digits)]
	copy(z.digits, src.digits)
	z.neg = src.neg
	z.exp = src.exp
	z.canonicalize()
	return nil
}

// SetUint32 sets z = v.
func (z *Int) SetUint32(v uint32) error {
	if v == 0 {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	if err := z.grow(1); err != nil {
		return kerr.Wrap("bigint.SetUint32", kerr.InvalidInput, err)
	}
	z.digits = z.digits[:1]
	z.digits[0] = v
	z.neg = false
	z.exp = 0
	return nil
}

// grow ensures z.digits has capacity (not length) for n digits, preserving
// existing content. It never shrinks. Fixed Ints fail once n exceeds their
// original capacity.
func (z *Int) grow(n int) error {
	if n > MaxDigits {
		return kerr.New("bigint.grow", kerr.Overflow)
	}
	if n <= cap(z.digits) {
		return nil
	}
	if z.fixed {
		return kerr.New("bigint.grow", kerr.InvalidInput)
	}
	nd := make([]uint32, len(z.digits), n)
	copy(nd, z.digits)
	z.digits = nd
	return nil
}

// canonicalize strips high zero digits and normalizes the zero value's
// sign/exponent to false/0.
func (z *Int) canonicalize() {
	n := len(z.digits)
	for n > 0 && z.digits[n-1] == 0 {
		n--
	}
	z.digits = z.digits[:n]
	if n == 0 {
		z.neg = false
		z.exp = 0
	}
}

// trimLow returns the low-order-zero-stripped view of digits along with the
// exponent adjusted to account for the stripped digits. It does not mutate
// digits; it is used by Add/Sub/Mul to normalize an operand's effective
// alignment before combining magnitudes, the same normalization
// add_bigint/sub_bigint perform over "trailing zero input digits".
func trimLow(digits []uint32, exp uint32) ([]uint32, uint32) {
	i := 0
	for i < len(digits) && digits[i] == 0 {
		i++
	}
	return digits[i:], exp + uint32(i)
}

// CmpMagnitude compares |z| to |other|: -1, 0, or 1.
func (z *Int) CmpMagnitude(other *Int) int {
	zd, ze := trimLow(z.digits, z.exp)
	od, oe := trimLow(other.digits, other.exp)
	zlen := uint64(len(zd)) + uint64(ze)
	olen := uint64(len(od)) + uint64(oe)
	if len(zd) == 0 && len(od) == 0 {
		return 0
	}
	if zlen != olen {
		if zlen < olen {
			return -1
		}
		return 1
	}
	// same effective length: compare from the most significant digit down,
	// accounting for the possibly different low-order exponents.
	for i := len(zd) - 1; i >= 0; i-- {
		// position (in digits, from the top) of zd[i] is i+ze; find the
		// corresponding od entry at the same absolute position.
		pos := int64(i) + int64(ze)
		j := pos - int64(oe)
		var ov uint32
		if j >= 0 && j < int64(len(od)) {
			ov = od[j]
		}
		if zd[i] != ov {
			if zd[i] < ov {
				return -1
			}
			return 1
		}
	}
	// now sweep any od positions below what zd covered
	for j := int64(len(od)) - 1; j >= 0; j-- {
		pos := j + int64(oe)
		if pos >= int64(ze) {
			continue // already compared above
		}
		if od[j] != 0 {
			return -1
		}
	}
	return 0
}

// Cmp compares z to other: -1, 0, or 1, honoring sign.
func (z *Int) Cmp(other *Int) int {
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
