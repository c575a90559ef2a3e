package decimal

import (
	"math/bits"

	"github.com/joeycumines/go-corekernel/kerr"
)

// maxDivPlaces is the clamp divi32_decimal applies to its result size (127
// base-1e9 places), kept distinct from the full Div, which takes an
// explicit place count instead of clamping silently. See DESIGN.md's Open
// Question resolution for why DivUint32 and Div are asymmetric here.
const maxDivPlaces = 127

// DivUint32 computes quotient = a / divisor, producing up to maxDivPlaces
// base-1e9 places after the units place, the way divi32_decimal
// clamps its working buffer instead of erroring on a caller-supplied size.
func DivUint32(quotient *Decimal, a *Decimal, divisor uint32) error {
	if divisor == 0 {
		return kerr.New("decimal.DivUint32", kerr.InvalidInput)
	}
	return divCommon(quotient, a, &Decimal{digits: []uint32{divisor}}, maxDivPlaces)
}

// Div computes quotient = a / b to exactly places base-1e9 digits after the
// units place (quotient exponent -places before canonicalization), rounding
// the final place half-to-even.
func Div(quotient *Decimal, a *Decimal, b *Decimal, places int) error {
	if b.IsZero() {
		return kerr.New("decimal.Div", kerr.InvalidInput)
	}
	if places < 0 || places > MaxDigits {
		return kerr.New("decimal.Div", kerr.InvalidInput)
	}
	return divCommon(quotient, a, b, places)
}

func divCommon(quotient *Decimal, a, b *Decimal, places int) error {
	if a.IsZero() {
		return quotient.SetUint32(0)
	}

	lowExp := a.exp
	if b.exp < lowExp {
		lowExp = b.exp
	}
	widen := func(d []uint32, exp int32) []uint32 {
		pad := int(exp - lowExp)
		if pad == 0 {
			return append([]uint32(nil), d...)
		}
		out := make([]uint32, len(d)+pad)
		copy(out[pad:], d)
		return out
	}
	workA := widen(a.digits, a.exp)
	workB := trim(widen(b.digits, b.exp))

	// extend the dividend with `places` extra zero places below the
	// current low exponent so the quotient carries fractional precision.
	// The shared scale 1e9^lowExp cancels in workA/workB, so only the
	// extension sets the quotient's exponent.
	ext := make([]uint32, len(workA)+places)
	copy(ext[places:], workA)
	workA = ext
	resultExp := -int32(places)

	n := len(workB)
	diff := append([]uint32(nil), workA...)
	diff = append(diff, 0)

	qlen := len(diff) - n
	if qlen < 1 {
		qlen = 1
	}
	q := make([]uint32, qlen)

	for shift := qlen - 1; shift >= 0; shift-- {
		top := func(i int) uint64 {
			if shift+i >= 0 && shift+i < len(diff) {
				return uint64(diff[shift+i])
			}
			return 0
		}
		// three window digits against the divisor's top two (the second
		// is 0 for a one-digit divisor): never too small and at most one
		// too large, which submul's single correction absorbs.
		var d0 uint64
		if n >= 2 {
			d0 = uint64(workB[n-2])
		}
		den := uint64(workB[n-1])*Base + d0
		hi, lo := bits.Mul64(top(n), Base*Base)
		lo, c := bits.Add64(lo, top(n-1)*Base+top(n-2), 0)
		est := uint64(Base - 1)
		if hi+c < den {
			est, _ = bits.Div64(hi+c, lo, den)
			est = min(est, Base-1)
		}
		q[shift] = submul(diff, workB, uint32(est), shift)
	}

	qExp := resultExp
	rem := trim(diff)
	// round the last computed place half-to-even by comparing 2*remainder
	// against the divisor's magnitude at the same alignment.
	if len(rem) > 0 && shouldRoundUp(rem, workB, q) {
		carry := uint64(1)
		for i := 0; i < len(q) && carry != 0; i++ {
			s := uint64(q[i]) + carry
			q[i] = uint32(s % Base)
			carry = s / Base
		}
		if carry != 0 {
			q = append(q, uint32(carry))
		}
	}

	return quotient.setMagnitude(trim(q), qExp, a.neg != b.neg)
}

func shouldRoundUp(rem, divisor, q []uint32) bool {
	twice := addMag(rem, rem)
	c := cmpMag(twice, divisor)
	if c > 0 {
		return true
	}
	if c < 0 {
		return false
	}
	if len(q) == 0 {
		return false
	}
	return q[0]%2 != 0
}

func submul(diff, divisor []uint32, q uint32, shift int) uint32 {
	if q == 0 {
		return 0
	}
	prod := make([]uint32, len(divisor)+1)
	var carry uint64
	for i, d := range divisor {
		p := uint64(d)*uint64(q) + carry
		prod[i] = uint32(p % Base)
		carry = p / Base
	}
	prod[len(divisor)] = uint32(carry)

	if cmpMag(prod, diff[shift:]) > 0 {
		q--
		carry = 0
		for i, d := range divisor {
			p := uint64(d)*uint64(q) + carry
			prod[i] = uint32(p % Base)
			carry = p / Base
		}
		prod[len(divisor)] = uint32(carry)
	}

	var borrow int64
	for i, v := range prod {
		if shift+i >= len(diff) {
			break
		}
		av := int64(diff[shift+i])
		bv := int64(v) + borrow
		if av >= bv {
			diff[shift+i] = uint32(av - bv)
			borrow = 0
		} else {
			diff[shift+i] = uint32(av + Base - bv)
			borrow = 1
		}
	}
	for k := shift + len(prod); borrow != 0 && k < len(diff); k++ {
		av := int64(diff[k])
		if av >= borrow {
			diff[k] = uint32(av - borrow)
			borrow = 0
		} else {
			diff[k] = uint32(av + Base - borrow)
			borrow = 1
		}
	}
	return q
}
