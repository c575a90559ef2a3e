package decimal

import "github.com/joeycumines/go-corekernel/internal/ordered"

func alignedLen(ad, bd []uint32, ae, be int32) (lowExp int32, length int) {
	lowExp = ordered.Min(ae, be)
	top := ordered.Max(int64(len(ad))+int64(ae), int64(len(bd))+int64(be))
	return lowExp, int(top - int64(lowExp))
}

func digitAtAbs(d []uint32, exp int32, abs int64) uint32 {
	i := abs - int64(exp)
	if i < 0 || i >= int64(len(d)) {
		return 0
	}
	return d[i]
}

func addMagnitude(ad, bd []uint32, ae, be int32) ([]uint32, int32) {
	lowExp, n := alignedLen(ad, bd, ae, be)
	out := make([]uint32, n+1)
	var carry uint64
	for i := 0; i < n; i++ {
		abs := int64(lowExp) + int64(i)
		sum := uint64(digitAtAbs(ad, ae, abs)) + uint64(digitAtAbs(bd, be, abs)) + carry
		out[i] = uint32(sum % Base)
		carry = sum / Base
	}
	out[n] = uint32(carry)
	return out, lowExp
}

func subMagnitude(ad, bd []uint32, ae, be int32) ([]uint32, int32) {
	lowExp, n := alignedLen(ad, bd, ae, be)
	out := make([]uint32, n)
	var borrow int64
	for i := 0; i < n; i++ {
		abs := int64(lowExp) + int64(i)
		av := int64(digitAtAbs(ad, ae, abs))
		bv := int64(digitAtAbs(bd, be, abs)) + borrow
		if av >= bv {
			out[i] = uint32(av - bv)
			borrow = 0
		} else {
			out[i] = uint32(av + Base - bv)
			borrow = 1
		}
	}
	return out, lowExp
}

// Add computes z = a + b.
func (z *Decimal) Add(a, b *Decimal) error {
	if a.Sign() == 0 {
		return z.setMagnitude(b.digits, b.exp, b.neg)
	}
	if b.Sign() == 0 {
		return z.setMagnitude(a.digits, a.exp, a.neg)
	}
	if a.neg == b.neg {
		sum, exp := addMagnitude(a.digits, b.digits, a.exp, b.exp)
		return z.setMagnitude(sum, exp, a.neg)
	}
	if a.CmpMagnitude(b) >= 0 {
		diff, exp := subMagnitude(a.digits, b.digits, a.exp, b.exp)
		return z.setMagnitude(diff, exp, a.neg)
	}
	diff, exp := subMagnitude(b.digits, a.digits, b.exp, a.exp)
	return z.setMagnitude(diff, exp, b.neg)
}

// Sub computes z = a - b.
func (z *Decimal) Sub(a, b *Decimal) error {
	neg := Decimal{digits: append([]uint32(nil), b.digits...), neg: !b.neg, exp: b.exp}
	if neg.IsZero() {
		neg.neg = false
	}
	return z.Add(a, &neg)
}
