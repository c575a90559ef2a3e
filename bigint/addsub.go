package bigint

import (
	"github.com/joeycumines/go-corekernel/internal/ordered"
	"github.com/joeycumines/go-corekernel/kerr"
)

// alignedLen returns the digit-array length and low exponent needed to hold
// both a and b aligned to the same digit grid; it does not include room for
// a carry-out digit.
func alignedLen(ad, bd []uint32, ae, be uint32) (lowExp uint32, length int) {
	lowExp = ordered.Min(ae, be)
	top := ordered.Max(uint64(len(ad))+uint64(ae), uint64(len(bd))+uint64(be))
	return lowExp, int(top - uint64(lowExp))
}

func digitAtAbs(d []uint32, exp uint32, abs int64) uint32 {
	i := abs - int64(exp)
	if i < 0 || i >= int64(len(d)) {
		return 0
	}
	return d[i]
}

// addMagnitude computes |a| + |b| into a freshly allocated slice (length =
// aligned length + 1, trimmed by the caller), returning the low exponent used.
func addMagnitude(ad, bd []uint32, ae, be uint32) ([]uint32, uint32) {
	lowExp, n := alignedLen(ad, bd, ae, be)
	out := make([]uint32, n+1)
	var carry uint64
	for i := 0; i < n; i++ {
		abs := int64(lowExp) + int64(i)
		sum := uint64(digitAtAbs(ad, ae, abs)) + uint64(digitAtAbs(bd, be, abs)) + carry
		out[i] = uint32(sum)
		carry = sum >> digitBits
	}
	out[n] = uint32(carry)
	return out, lowExp
}

// subMagnitude computes |a| - |b| assuming |a| >= |b|, into a freshly
// allocated slice, returning the low exponent used.
func subMagnitude(ad, bd []uint32, ae, be uint32) ([]uint32, uint32) {
	lowExp, n := alignedLen(ad, bd, ae, be)
	out := make([]uint32, n)
	var borrow uint64
	for i := 0; i < n; i++ {
		abs := int64(lowExp) + int64(i)
		av := uint64(digitAtAbs(ad, ae, abs))
		bv := uint64(digitAtAbs(bd, be, abs)) + borrow
		if av >= bv {
			out[i] = uint32(av - bv)
			borrow = 0
		} else {
			out[i] = uint32(av + (1 << digitBits) - bv)
			borrow = 1
		}
	}
	return out, lowExp
}

func (z *Int) setMagnitude(digits []uint32, exp uint32, neg bool) error {
	if err := z.grow(len(digits)); err != nil {
		return err
	}
	z.digits = z.digits[:len(digits)]
	copy(z.digits, digits)
	z.exp = exp
	z.neg = neg
	z.canonicalize()
	if len(z.digits) > MaxDigits || z.exp > MaxExponent {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return kerr.New("bigint.setMagnitude", kerr.Overflow)
	}
	return nil
}

// Add computes z = a + b.
func (z *Int) Add(a, b *Int) error {
	ad, ae := trimLow(a.digits, a.exp)
	bd, be := trimLow(b.digits, b.exp)
	if a.Sign() == 0 {
		return z.setMagnitude(bd, be, b.neg)
	}
	if b.Sign() == 0 {
		return z.setMagnitude(ad, ae, a.neg)
	}
	if a.neg == b.neg {
		sum, exp := addMagnitude(ad, bd, ae, be)
		return z.setMagnitude(sum, exp, a.neg)
	}
	// opposite signs: subtract the smaller magnitude from the larger.
	if a.CmpMagnitude(b) >= 0 {
		diff, exp := subMagnitude(ad, bd, ae, be)
		return z.setMagnitude(diff, exp, a.neg)
	}
	diff, exp := subMagnitude(bd, ad, be, ae)
	return z.setMagnitude(diff, exp, b.neg)
}

// Sub computes z = a - b.
func (z *Int) Sub(a, b *Int) error {
	neg := Int{digits: append([]uint32(nil), b.digits...), neg: !b.neg, exp: b.exp}
	if neg.IsZero() {
		neg.neg = false
	}
	return z.Add(a, &neg)
}
