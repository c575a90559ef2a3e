package bigint

import "github.com/joeycumines/go-corekernel/kerr"

// estimateDigit2 produces a quotient digit estimate from the top two digits
// of the remaining dividend against the top digit of the divisor, the way
// estimatedigit2_biginthelper does when the divisor has a single
// significant digit at the current shift.
func estimateDigit2(top1, top0, div uint32) uint32 {
	num := uint64(top1)<<digitBits | uint64(top0)
	if div == 0 {
		return 0
	}
	q := num / uint64(div)
	if q > 0xFFFFFFFF {
		q = 0xFFFFFFFF
	}
	return uint32(q)
}

// estimateDigit3 refines a quotient digit estimate using three digits of
// dividend against two digits of divisor, the counterpart of
// estimatedigit3_biginthelper: it starts from estimateDigit2's estimate on
// the divisor's top digit and decrements it until q times the two-digit
// divisor no longer exceeds the three-digit window.
func estimateDigit3(top2, top1, top0 uint32, div1, div0 uint32) uint32 {
	divisor := uint64(div1)<<digitBits | uint64(div0)
	if divisor == 0 {
		return 0
	}
	q := estimateDigit2(top2, top1, div1)
	// correct using the third (lowest) digit via a 96-bit trial multiply
	// against the double-digit divisor, decrementing as often as needed.
	for {
		hi, lo := mul64x32(divisor, q)
		if hi > uint64(top2) || (hi == uint64(top2) && lo > (uint64(top1)<<digitBits|uint64(top0))) {
			q--
			continue
		}
		break
	}
	return q
}

// mul64x32 multiplies a 64-bit value by a 32-bit quotient digit, returning
// the exact 96-bit product split into hi (bits 64 and up) and lo (the low 64
// bits).
func mul64x32(a uint64, b uint32) (hi, lo uint64) {
	aLo := a & 0xFFFFFFFF
	aHi := a >> digitBits
	p0 := aLo * uint64(b)
	p1 := aHi * uint64(b)
	lo = p0 + (p1 << digitBits)
	hi = p1 >> digitBits
	if lo < p0 {
		hi++
	}
	return hi, lo
}

// submul subtracts q*divisor (shifted left by `shift` digits) from diff,
// correcting by decrementing q and adding divisor back at most once, the
// way submul_biginthelper does.
func submul(diff []uint32, divisor []uint32, q uint32, shift int) uint32 {
	if q == 0 {
		return 0
	}
	prod := make([]uint32, len(divisor)+1)
	var carry uint64
	for i, d := range divisor {
		p := uint64(d)*uint64(q) + carry
		prod[i] = uint32(p)
		carry = p >> digitBits
	}
	prod[len(divisor)] = uint32(carry)

	if cmpMag(prod, diff[shift:]) > 0 {
		q--
		// redo with corrected q
		carry = 0
		for i, d := range divisor {
			p := uint64(d)*uint64(q) + carry
			prod[i] = uint32(p)
			carry = p >> digitBits
		}
		prod[len(divisor)] = uint32(carry)
	}

	var borrow uint64
	for i, v := range prod {
		if shift+i >= len(diff) {
			break
		}
		av := uint64(diff[shift+i])
		bv := uint64(v) + borrow
		if av >= bv {
			diff[shift+i] = uint32(av - bv)
			borrow = 0
		} else {
			diff[shift+i] = uint32(av + (1 << digitBits) - bv)
			borrow = 1
		}
	}
	for k := shift + len(prod); borrow != 0 && k < len(diff); k++ {
		av := uint64(diff[k])
		if av >= borrow {
			diff[k] = uint32(av - borrow)
			borrow = 0
		} else {
			diff[k] = uint32(av + (1 << digitBits) - borrow)
			borrow = 1
		}
	}
	return q
}

// DivModUint32 computes quotient = a / divisor and returns the remainder,
// the single-digit-divisor fast path divmodui32_bigint provides to avoid a
// full multi-digit long division. quotient may be nil to discard the
// quotient.
func DivModUint32(quotient *Int, a *Int, divisor uint32) (remainder uint32, err error) {
	if divisor == 0 {
		return 0, kerr.New("bigint.DivModUint32", kerr.InvalidInput)
	}
	ad, ae := trimLow(a.digits, a.exp)
	if len(ad) == 0 {
		if quotient != nil {
			if err := quotient.SetUint32(0); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}
	// the ae implicit zero digits below ad take part in the division like
	// any other digit, so they are made explicit here.
	if ae > 0 {
		w := make([]uint32, len(ad)+int(ae))
		copy(w[ae:], ad)
		ad, ae = w, 0
	}
	q := make([]uint32, len(ad))
	var rem uint64
	for i := len(ad) - 1; i >= 0; i-- {
		cur := rem<<digitBits | uint64(ad[i])
		q[i] = uint32(cur / uint64(divisor))
		rem = cur % uint64(divisor)
	}
	if quotient != nil {
		if err := quotient.setMagnitude(q, ae, a.neg); err != nil {
			return 0, err
		}
	}
	return uint32(rem), nil
}

// DivMod computes quotient = a / b and remainder = a % b via schoolbook long
// division with digit estimation and single-step correction, the way
// divmod_bigint drives estimatedigit2/estimatedigit3/submul_biginthelper.
// Either quotient or remainder may be nil to discard that result.
func DivMod(quotient, remainder *Int, a, b *Int) error {
	if b.IsZero() {
		return kerr.New("bigint.DivMod", kerr.InvalidInput)
	}
	ad, ae := trimLow(a.digits, a.exp)
	bd, be := trimLow(b.digits, b.exp)
	if len(bd) == 1 && be == 0 {
		var q Int
		rem, err := DivModUint32(&q, &Int{digits: ad, exp: ae, neg: a.neg}, bd[0])
		if err != nil {
			return err
		}
		if quotient != nil {
			q.neg = (a.neg != b.neg) && !q.IsZero()
			if err := quotient.Copy(&q); err != nil {
				return err
			}
		}
		if remainder != nil {
			if err := remainder.SetUint32(rem); err != nil {
				return err
			}
			remainder.neg = a.neg && rem != 0
		}
		return nil
	}

	// align a and b to the same exponent grid by treating the lower
	// exponent's worth of implicit zero digits as explicit zero digits in
	// the working copies.
	lowExp := ae
	if be < lowExp {
		lowExp = be
	}
	widen := func(d []uint32, exp, lowExp uint32) []uint32 {
		pad := exp - lowExp
		if pad == 0 {
			return append([]uint32(nil), d...)
		}
		out := make([]uint32, len(d)+int(pad))
		copy(out[pad:], d)
		return out
	}
	workA := widen(ad, ae, lowExp)
	workB := widen(bd, be, lowExp)

	if cmpMag(workA, workB) < 0 {
		if quotient != nil {
			if err := quotient.SetUint32(0); err != nil {
				return err
			}
		}
		if remainder != nil {
			if err := remainder.Copy(a); err != nil {
				return err
			}
		}
		return nil
	}

	workB = trim(workB)
	n := len(workB)
	diff := make([]uint32, len(workA)+1)
	copy(diff, workA)

	qlen := len(diff) - n
	if qlen < 1 {
		qlen = 1
	}
	q := make([]uint32, qlen)

	for shift := qlen - 1; shift >= 0; shift-- {
		top := func(i int) uint32 {
			if shift+i >= 0 && shift+i < len(diff) {
				return diff[shift+i]
			}
			return 0
		}
		var est uint32
		if n == 1 {
			est = estimateDigit2(top(n), top(n-1), workB[n-1])
		} else {
			d1 := workB[n-1]
			var d0 uint32
			if n >= 2 {
				d0 = workB[n-2]
			}
			est = estimateDigit3(top(n), top(n-1), top(n-2), d1, d0)
		}
		q[shift] = submul(diff, workB, est, shift)
	}

	if quotient != nil {
		// workA and workB share the scale base^lowExp, which cancels in
		// the quotient; only the remainder keeps it.
		qExp := uint32(0)
		if err := quotient.setMagnitude(q, qExp, a.neg != b.neg); err != nil {
			return err
		}
	}
	if remainder != nil {
		if err := remainder.setMagnitude(trim(diff), lowExp, a.neg); err != nil {
			return err
		}
	}
	return nil
}
