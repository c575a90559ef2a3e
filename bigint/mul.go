package bigint

import "github.com/joeycumines/go-corekernel/kerr"

// karatsubaThreshold is the magnitude length at or below which schoolbook
// multiplication is used directly instead of splitting, matching the
// original's 48-digit schoolbook cutoff.
const karatsubaThreshold = 48

// MulUint32 computes z = a * factor.
func (z *Int) MulUint32(a *Int, factor uint32) error {
	ad, ae := trimLow(a.digits, a.exp)
	if factor == 0 || len(ad) == 0 {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	out := make([]uint32, len(ad)+1)
	var carry uint64
	f := uint64(factor)
	for i, d := range ad {
		p := uint64(d)*f + carry
		out[i] = uint32(p)
		carry = p >> digitBits
	}
	out[len(ad)] = uint32(carry)
	return z.setMagnitude(out, ae, a.neg)
}

func schoolbookMul(ad, bd []uint32) []uint32 {
	out := make([]uint32, len(ad)+len(bd))
	for i, av := range ad {
		if av == 0 {
			continue
		}
		var carry uint64
		for j, bv := range bd {
			p := uint64(av)*uint64(bv) + uint64(out[i+j]) + carry
			out[i+j] = uint32(p)
			carry = p >> digitBits
		}
		k := i + len(bd)
		for carry != 0 {
			p := uint64(out[k]) + carry
			out[k] = uint32(p)
			carry = p >> digitBits
			k++
		}
	}
	return out
}

func addInto(dst []uint32, src []uint32, offset int) {
	var carry uint64
	for i, v := range src {
		p := uint64(dst[offset+i]) + uint64(v) + carry
		dst[offset+i] = uint32(p)
		carry = p >> digitBits
	}
	k := offset + len(src)
	for carry != 0 && k < len(dst) {
		p := uint64(dst[k]) + carry
		dst[k] = uint32(p)
		carry = p >> digitBits
		k++
	}
}

func subFrom(dst []uint32, src []uint32, offset int) {
	var borrow uint64
	for i, v := range src {
		av := uint64(dst[offset+i])
		bv := uint64(v) + borrow
		if av >= bv {
			dst[offset+i] = uint32(av - bv)
			borrow = 0
		} else {
			dst[offset+i] = uint32(av + (1 << digitBits) - bv)
			borrow = 1
		}
	}
	k := offset + len(src)
	for borrow != 0 {
		av := uint64(dst[k])
		if av >= borrow {
			dst[k] = uint32(av - borrow)
			borrow = 0
		} else {
			dst[k] = uint32(av + (1 << digitBits) - borrow)
			borrow = 1
		}
		k++
	}
}

func trim(d []uint32) []uint32 {
	n := len(d)
	for n > 0 && d[n-1] == 0 {
		n--
	}
	return d[:n]
}

func cmpMag(a, b []uint32) int {
	a, b = trim(a), trim(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func subMag(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow uint64
	for i := range a {
		av := uint64(a[i])
		var bv uint64
		if i < len(b) {
			bv = uint64(b[i])
		}
		bv += borrow
		if av >= bv {
			out[i] = uint32(av - bv)
			borrow = 0
		} else {
			out[i] = uint32(av + (1 << digitBits) - bv)
			borrow = 1
		}
	}
	return trim(out)
}

func addMag(a, b []uint32) []uint32 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint32, n+1)
	var carry uint64
	for i := 0; i < n; i++ {
		var av, bv uint64
		if i < len(a) {
			av = uint64(a[i])
		}
		if i < len(b) {
			bv = uint64(b[i])
		}
		s := av + bv + carry
		out[i] = uint32(s)
		carry = s >> digitBits
	}
	out[n] = uint32(carry)
	return trim(out)
}

// karatsubaMul multiplies two magnitude digit slices via the split-at-half
// Karatsuba identity, falling back to schoolbook at or below
// karatsubaThreshold, matching mult_biginthelper's split strategy.
func karatsubaMul(ad, bd []uint32) []uint32 {
	ad, bd = trim(ad), trim(bd)
	small, big := ad, bd
	if len(small) > len(big) {
		small, big = big, small
	}
	if len(small) <= karatsubaThreshold || len(small) == 0 {
		return trim(schoolbookMul(ad, bd))
	}
	m := len(small) / 2

	split := func(d []uint32, m int) (lo, hi []uint32) {
		if m > len(d) {
			m = len(d)
		}
		return d[:m], d[m:]
	}

	aLo, aHi := split(ad, m)
	bLo, bHi := split(bd, m)

	z0 := karatsubaMul(aLo, bLo)
	z2 := karatsubaMul(aHi, bHi)

	aSum := addMag(aLo, aHi)
	bSum := addMag(bLo, bHi)
	z1 := karatsubaMul(aSum, bSum)
	z1 = subMag(z1, z0)
	z1 = subMag(z1, z2)

	out := make([]uint32, len(ad)+len(bd))
	addInto(out, z0, 0)
	addInto(out, z1, m)
	addInto(out, z2, 2*m)
	return trim(out)
}

// Mult computes z = a * b using schoolbook multiplication for small operands
// and Karatsuba for large ones, as mult_biginthelper dispatches.
func (z *Int) Mult(a, b *Int) error {
	ad, ae := trimLow(a.digits, a.exp)
	bd, be := trimLow(b.digits, b.exp)
	if len(ad) == 0 || len(bd) == 0 {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	exp := uint64(ae) + uint64(be)
	if exp > MaxExponent {
		return kerr.New("bigint.Mult", kerr.Overflow)
	}
	product := karatsubaMul(ad, bd)
	return z.setMagnitude(product, uint32(exp), a.neg != b.neg)
}
