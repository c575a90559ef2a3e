package bigint

import "github.com/joeycumines/go-corekernel/kerr"

// ShiftLeft computes z = a << n (a multiplied by 2^n).
func (z *Int) ShiftLeft(a *Int, n uint32) error {
	ad, ae := trimLow(a.digits, a.exp)
	if len(ad) == 0 {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	wholeDigits := n / digitBits
	bits := n % digitBits

	exp := uint64(ae) + uint64(wholeDigits)
	if bits == 0 {
		if exp > MaxExponent {
			return kerr.New("bigint.ShiftLeft", kerr.Overflow)
		}
		return z.setMagnitude(append([]uint32(nil), ad...), uint32(exp), a.neg)
	}

	out := make([]uint32, len(ad)+1)
	var carry uint32
	for i, d := range ad {
		out[i] = (d << bits) | carry
		carry = d >> (digitBits - bits)
	}
	out[len(ad)] = carry
	if exp > MaxExponent {
		return kerr.New("bigint.ShiftLeft", kerr.Overflow)
	}
	return z.setMagnitude(out, uint32(exp), a.neg)
}

// ShiftRight computes z = a >> n (a divided by 2^n, truncating toward
// zero). While a's exponent leaves room, bits shifted out of the lowest
// stored digit move into one extra low digit; bits shifted below digit
// position 0 are discarded.
func (z *Int) ShiftRight(a *Int, n uint32) error {
	ad, ae := trimLow(a.digits, a.exp)
	if len(ad) == 0 {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	wholeDigits := n / digitBits
	bits := n % digitBits

	if uint64(wholeDigits) >= uint64(len(ad))+uint64(ae) {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}

	var newExp uint32
	var src []uint32
	if wholeDigits <= ae {
		newExp = ae - wholeDigits
		src = ad
	} else {
		drop := int(wholeDigits - ae)
		if drop > len(ad) {
			drop = len(ad)
		}
		src = ad[drop:]
		newExp = 0
	}

	if bits == 0 {
		return z.setMagnitude(append([]uint32(nil), src...), newExp, a.neg)
	}
	lowDigit := 0
	if newExp > 0 {
		lowDigit = 1
		newExp--
	}
	out := make([]uint32, len(src)+lowDigit)
	var carry uint32
	for i := len(src) - 1; i >= 0; i-- {
		out[i+lowDigit] = (src[i] >> bits) | carry
		carry = src[i] << (digitBits - bits)
	}
	if lowDigit == 1 {
		out[0] = carry
	}
	return z.setMagnitude(out, newExp, a.neg)
}
