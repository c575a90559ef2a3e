package decimal

import (
	"strconv"
	"strings"

	"github.com/joeycumines/go-corekernel/kerr"
)

// SetFromString parses a decimal literal of the form
// [sign] digits [. digits] [(e|E) [sign] digits], e.g.
// "-000034.0567812345678900000000000000000e-32745", the grammar
// from_str/to_str round-trip on.
func (z *Decimal) SetFromString(s string) error {
	orig := s
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	mantissa := s
	exp10 := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return kerr.Wrap("decimal.SetFromString", kerr.InvalidInput, err)
		}
		exp10 = e
	}

	intPart := mantissa
	fracPart := ""
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		intPart = mantissa[:i]
		fracPart = mantissa[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return kerr.New("decimal.SetFromString: "+orig, kerr.InvalidInput)
	}
	for _, c := range intPart + fracPart {
		if c < '0' || c > '9' {
			return kerr.New("decimal.SetFromString: "+orig, kerr.InvalidInput)
		}
	}

	allDigits := intPart + fracPart
	totalExp := exp10 - len(fracPart)

	// strip leading zeros (no value impact).
	i := 0
	for i < len(allDigits)-1 && allDigits[i] == '0' {
		i++
	}
	allDigits = allDigits[i:]
	// strip trailing zeros, folding them into the exponent.
	j := len(allDigits)
	for j > 1 && allDigits[j-1] == '0' {
		j--
		totalExp++
	}
	allDigits = allDigits[:j]

	if allDigits == "0" {
		z.digits = z.digits[:0]
		z.neg = false
		z.exp = 0
		return nil
	}

	placeExp, rem := floorDivMod(totalExp, DigitsPerPlace)
	if placeExp > MaxExponent || placeExp < -MaxExponent {
		return kerr.New("decimal.SetFromString: "+orig, kerr.Overflow)
	}
	if rem > 0 {
		allDigits += strings.Repeat("0", rem)
	}

	digits, err := packBase1e9(allDigits)
	if err != nil {
		return kerr.Wrap("decimal.SetFromString: "+orig, kerr.InvalidInput, err)
	}
	return z.setMagnitude(digits, int32(placeExp), neg)
}

// floorDivMod returns q, r such that a == q*b+r and 0 <= r < b (b > 0).
func floorDivMod(a, b int) (q, r int) {
	q = a / b
	r = a % b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

func packBase1e9(digits string) ([]uint32, error) {
	n := len(digits)
	count := (n + DigitsPerPlace - 1) / DigitsPerPlace
	out := make([]uint32, count)
	pos := n
	for i := 0; i < count; i++ {
		start := pos - DigitsPerPlace
		if start < 0 {
			start = 0
		}
		v, err := strconv.ParseUint(digits[start:pos], 10, 32)
		if err != nil {
			return nil, err
		}
		out[i] = uint32(v)
		pos = start
	}
	return trim(out), nil
}

// String formats z as a plain run of significant digits followed by an
// "e"/"e-" exponent suffix, emitted iff the decimal exponent is nonzero,
// matching tocstring_decimal: no decimal point is ever written.
func (z *Decimal) String() string {
	if z.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for i := len(z.digits) - 1; i >= 0; i-- {
		if i == len(z.digits)-1 {
			sb.WriteString(strconv.FormatUint(uint64(z.digits[i]), 10))
		} else {
			sb.WriteString(zeroPad(z.digits[i], DigitsPerPlace))
		}
	}
	digitStr := sb.String()

	trimmed := strings.TrimRight(digitStr, "0")
	stripped := len(digitStr) - len(trimmed)
	if trimmed == "" {
		trimmed = "0"
	}
	decExp := int(z.exp)*DigitsPerPlace + stripped

	var out strings.Builder
	if z.neg {
		out.WriteByte('-')
	}
	out.WriteString(trimmed)
	if decExp != 0 {
		out.WriteByte('e')
		out.WriteString(strconv.Itoa(decExp))
	}
	return out.String()
}

func zeroPad(v uint32, width int) string {
	s := strconv.FormatUint(uint64(v), 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
