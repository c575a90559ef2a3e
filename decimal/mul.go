package decimal

import "github.com/joeycumines/go-corekernel/kerr"

const karatsubaThreshold = 48

func (z *Decimal) MulUint32(a *Decimal, factor uint32) error {
	if factor == 0 || a.IsZero() {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	out := make([]uint32, len(a.digits)+1)
	var carry uint64
	f := uint64(factor)
	for i, d := range a.digits {
		p := uint64(d)*f + carry
		out[i] = uint32(p % Base)
		carry = p / Base
	}
	for k := len(a.digits); carry != 0; k++ {
		out[k] = uint32(carry % Base)
		carry /= Base
	}
	return z.setMagnitude(trim(out), a.exp, a.neg)
}

func trim(d []uint32) []uint32 {
	n := len(d)
	for n > 0 && d[n-1] == 0 {
		n--
	}
	return d[:n]
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
			out[i+j] = uint32(p % Base)
			carry = p / Base
		}
		k := i + len(bd)
		for carry != 0 {
			p := uint64(out[k]) + carry
			out[k] = uint32(p % Base)
			carry = p / Base
			k++
		}
	}
	return out
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
		out[i] = uint32(s % Base)
		carry = s / Base
	}
	out[n] = uint32(carry)
	return trim(out)
}

func subMag(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow int64
	for i := range a {
		av := int64(a[i])
		var bv int64
		if i < len(b) {
			bv = int64(b[i])
		}
		bv += borrow
		if av >= bv {
			out[i] = uint32(av - bv)
			borrow = 0
		} else {
			out[i] = uint32(av + Base - bv)
			borrow = 1
		}
	}
	return trim(out)
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

func addInto(dst, src []uint32, offset int) {
	var carry uint64
	for i, v := range src {
		p := uint64(dst[offset+i]) + uint64(v) + carry
		dst[offset+i] = uint32(p % Base)
		carry = p / Base
	}
	k := offset + len(src)
	for carry != 0 && k < len(dst) {
		p := uint64(dst[k]) + carry
		dst[k] = uint32(p % Base)
		carry = p / Base
		k++
	}
}

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

// Mult computes z = a * b.
func (z *Decimal) Mult(a, b *Decimal) error {
	if a.IsZero() || b.IsZero() {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	exp := int64(a.exp) + int64(b.exp)
	if exp > MaxExponent || exp < -MaxExponent {
		return kerr.New("decimal.Mult", kerr.Overflow)
	}
	product := karatsubaMul(a.digits, b.digits)
	return z.setMagnitude(product, int32(exp), a.neg != b.neg)
}
