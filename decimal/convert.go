package decimal

import (
	"math"
	"strconv"

	"github.com/joeycumines/go-corekernel/bigint"
	"github.com/joeycumines/go-corekernel/kerr"
)

// powbase mirrors s_decimal_powbase: a table of BigInt powers of 1e9 used to
// scale a decimal's magnitude into IEEE-754 double range. Each entry is the
// square of the previous: 10^9, 10^18, ..., 10^576 (7 entries); Float
// multiplies by the entries selected by the bits of a positive place
// exponent, so it covers place exponents up to 127.
var powbase = func() [7]*bigint.Int {
	var table [7]*bigint.Int
	p := &bigint.Int{}
	if err := p.SetUint32(Base); err != nil {
		panic(err)
	}
	for i := range table {
		v := &bigint.Int{}
		if err := v.Copy(p); err != nil {
			panic(err)
		}
		table[i] = v
		next := &bigint.Int{}
		if err := next.Mult(p, p); err != nil {
			panic(err)
		}
		p = next
	}
	return table
}()

// SetFromFloat sets z from f's shortest round-tripping decimal
// representation (f must be finite), via strconv's exact float-to-decimal
// conversion: there is no ecosystem arbitrary-precision decimal-from-float
// routine in the retrieved pack, and strconv.AppendFloat already performs
// the exact base conversion the original hand-rolls with its power table,
// so this is the one place that table isn't exercised on the encode path;
// it is exercised by Float on the decode path below.
func (z *Decimal) SetFromFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return kerr.New("decimal.SetFromFloat", kerr.InvalidInput)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	return z.SetFromString(s)
}

// Float converts z to the nearest representable float64, returning
// +/-Inf if z's magnitude exceeds float64's range (mirroring todouble's
// documented overflow behavior). The magnitude is built as a binary BigInt;
// a positive place exponent is applied through the BigInt power-of-1e9
// table before the conversion to float64, a negative one as a float64
// power of 1e9 after it.
func (z *Decimal) Float() float64 {
	if z.IsZero() {
		return 0
	}
	acc := &bigint.Int{}
	if err := acc.SetUint32(0); err != nil {
		return math.NaN()
	}
	for i := len(z.digits) - 1; i >= 0; i-- {
		scaled := &bigint.Int{}
		if err := scaled.MulUint32(acc, Base); err != nil {
			return math.Inf(sign(z))
		}
		digit := &bigint.Int{}
		if err := digit.SetUint32(z.digits[i]); err != nil {
			return math.NaN()
		}
		sum := &bigint.Int{}
		if err := sum.Add(scaled, digit); err != nil {
			return math.Inf(sign(z))
		}
		acc = sum
	}
	if z.exp > 0 {
		if z.exp > int32(1<<len(powbase))-1 {
			return math.Inf(sign(z))
		}
		for i, p := range powbase {
			if z.exp&(int32(1)<<uint(i)) != 0 {
				scaled := &bigint.Int{}
				if err := scaled.Mult(acc, p); err != nil {
					return math.Inf(sign(z))
				}
				acc = scaled
			}
		}
		f := acc.Float64()
		if z.neg {
			f = -f
		}
		return f
	}

	f := acc.Float64()
	if z.exp < 0 {
		f *= math.Pow(float64(Base), float64(z.exp))
	}
	if z.neg {
		f = -f
	}
	return f
}

func sign(z *Decimal) int {
	if z.neg {
		return -1
	}
	return 1
}
