package core

import (
	"strconv"
	"strings"
)

// Cents is an amount of money in US cents.
//
// Invariant: every monetary field in the system is a Cents value. Products with
// rates or ratios go through MulRate/MulDiv so rounding happens once per line,
// half away from zero.
type Cents int64

// Rate is a multiplier expressed in parts per million (1% == 10_000).
type Rate int64

const ppm = 1_000_000

// Common rates.
const (
	RateZero    Rate = 0
	RateHundred Rate = ppm
)

// Dollars converts whole dollars to Cents.
func Dollars(d int64) Cents { return Cents(d * 100) }

// Percent builds a Rate from a whole-number percentage.
func Percent(p int64) Rate { return Rate(p * 10_000) }

// MulRate returns c × r rounded half away from zero to the nearest cent.
func (c Cents) MulRate(r Rate) Cents {
	return Cents(roundDiv(int64(c)*int64(r), ppm))
}

// MulDiv returns c × num / den rounded half away from zero. den must be > 0.
func (c Cents) MulDiv(num, den int64) Cents {
	if den == 0 {
		return 0
	}
	if den < 0 {
		num, den = -num, -den
	}
	return Cents(roundDiv(int64(c)*num, den))
}

// Neg returns -c.
func (c Cents) Neg() Cents { return -c }

// Abs returns |c|.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// NonNegative floors c at zero.
func (c Cents) NonNegative() Cents {
	if c < 0 {
		return 0
	}
	return c
}

// IsZero reports whether c == 0.
func (c Cents) IsZero() bool { return c == 0 }

// String renders c as "$1,234.56" (negative amounts as "-$1,234.56").
func (c Cents) String() string {
	neg := c < 0
	v := int64(c)
	if neg {
		v = -v
	}
	whole := strconv.FormatInt(v/100, 10)
	frac := v % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// MinCents returns the smallest of the given amounts (0 for none).
func MinCents(vals ...Cents) Cents {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// MaxCents returns the largest of the given amounts (0 for none).
func MaxCents(vals ...Cents) Cents {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// SumCents adds the given amounts.
func SumCents(vals ...Cents) Cents {
	var s Cents
	for _, v := range vals {
		s += v
	}
	return s
}

// ClampCents bounds v to [lo, hi].
func ClampCents(v, lo, hi Cents) Cents {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CeilDiv returns ceil(n / d) for n >= 0, d > 0. It is used for the statutory
// "per $X or fraction thereof" step reductions.
func CeilDiv(n, d Cents) int64 {
	if n <= 0 || d <= 0 {
		return 0
	}
	return int64((n + d - 1) / d)
}

// roundDiv divides n by d (d > 0) rounding half away from zero.
func roundDiv(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return -((-n + d/2) / d)
}

// RoundHalfAwayFromZero divides n by d (d > 0) with the rounding rule used at
// every computed line.
func RoundHalfAwayFromZero(n, d int64) int64 { return roundDiv(n, d) }
