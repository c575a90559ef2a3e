package bigint

import (
	"math"
	"math/bits"

	"github.com/joeycumines/go-corekernel/kerr"
)

// SetFloat64 sets z to the integer part of f's exact binary value (f must
// be finite, otherwise kerr.InvalidInput). The 53-bit mantissa from
// frexp/ldexp is placed at its base-2^32 digit position, whole trailing
// zero digits go into the exponent, and bits below the binary point are
// discarded.
func (z *Int) SetFloat64(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return kerr.New("bigint.SetFloat64", kerr.InvalidInput)
	}
	if f == 0 {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	neg := f < 0
	if neg {
		f = -f
	}
	frac, exp2 := math.Frexp(f) // f == frac * 2^exp2, 0.5 <= frac < 1
	// scale the 53-bit mantissa into an exact 53-bit integer.
	mantissa := uint64(math.Ldexp(frac, 53))
	exp2 -= 53

	var digits []uint32
	if mantissa>>digitBits != 0 {
		digits = []uint32{uint32(mantissa), uint32(mantissa >> digitBits)}
	} else {
		digits = []uint32{uint32(mantissa)}
	}

	if exp2 >= 0 {
		wholeDigits := uint32(exp2) / digitBits
		bits := uint32(exp2) % digitBits
		if bits != 0 {
			out := make([]uint32, len(digits)+1)
			var carry uint32
			for i, d := range digits {
				out[i] = (d << bits) | carry
				carry = d >> (digitBits - bits)
			}
			out[len(digits)] = carry
			digits = out
		}
		return z.setMagnitude(digits, wholeDigits, neg)
	}

	// negative exp2: shift right, discarding fractional bits (the float's
	// value is not a whole number below this granularity).
	shift := uint32(-exp2)
	wholeDigits := shift / digitBits
	bits := shift % digitBits
	if int(wholeDigits) >= len(digits) {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}
	digits = digits[wholeDigits:]
	if bits != 0 {
		out := make([]uint32, len(digits))
		var carry uint32
		for i := len(digits) - 1; i >= 0; i-- {
			out[i] = (digits[i] >> bits) | carry
			carry = digits[i] << (digitBits - bits)
		}
		digits = out
	}
	return z.setMagnitude(digits, 0, neg)
}

// Float64 converts z to a float64 by rounding its top 64 significant bits
// to nearest (lower bits are truncated first), returning +/-Inf when z's
// magnitude exceeds float64's range, matching todouble's documented
// overflow behavior.
func (z *Int) Float64() float64 {
	d, e := trimLow(z.digits, z.exp)
	if len(d) == 0 {
		return 0
	}
	// combine the top two digits, topped up from the third digit when the
	// top digit leaves leading zero bits, into a 64-bit mantissa; track the
	// exponent of the rest in bits.
	top := uint64(d[len(d)-1])
	var second uint64
	if len(d) >= 2 {
		second = uint64(d[len(d)-2])
	}
	mant := top<<digitBits | second
	exp := (len(d)-2)*digitBits + int(e)*digitBits
	if lz := bits.LeadingZeros64(mant); lz > 0 && len(d) >= 3 {
		mant = mant<<lz | uint64(d[len(d)-3])>>(digitBits-lz)
		exp -= lz
	}
	f := math.Ldexp(float64(mant), exp)
	if z.neg {
		f = -f
	}
	return f
}
