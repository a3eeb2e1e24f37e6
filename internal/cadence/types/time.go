package types

import "math/big"

// Time is a rational number of beats, kept in lowest terms. Exact
// rational arithmetic matters here because pattern steps subdivide a
// cycle into fractions (e.g. a 3-step pattern gives each step 1/3 of a
// cycle) and repeated addition must not drift the way floating point
// would.
//
// There is no fraction/rational third-party library anywhere in the
// example pack (checked every top-level go.mod and other_examples/), so
// this wraps the standard library's math/big.Rat — see DESIGN.md's
// standard-library justifications.
type Time struct {
	r *big.Rat
}

// NewTime builds a Time of n/d beats (reduced to lowest terms).
func NewTime(n, d int64) Time {
	return Time{r: big.NewRat(n, d)}
}

// Beats builds a whole-beat Time.
func Beats(n int64) Time {
	return NewTime(n, 1)
}

// ZeroTime is the additive identity.
func ZeroTime() Time { return NewTime(0, 1) }

func (t Time) rat() *big.Rat {
	if t.r == nil {
		return big.NewRat(0, 1)
	}
	return t.r
}

// Add returns t + other.
func (t Time) Add(other Time) Time {
	return Time{r: new(big.Rat).Add(t.rat(), other.rat())}
}

// Sub returns t - other.
func (t Time) Sub(other Time) Time {
	return Time{r: new(big.Rat).Sub(t.rat(), other.rat())}
}

// Mul returns t * other.
func (t Time) Mul(other Time) Time {
	return Time{r: new(big.Rat).Mul(t.rat(), other.rat())}
}

// Quo returns t / other.
func (t Time) Quo(other Time) Time {
	return Time{r: new(big.Rat).Quo(t.rat(), other.rat())}
}

// Cmp compares t to other: -1, 0, or 1.
func (t Time) Cmp(other Time) int {
	return t.rat().Cmp(other.rat())
}

// Equal reports whether t == other.
func (t Time) Equal(other Time) bool { return t.Cmp(other) == 0 }

// Float64 converts to a float64 approximation.
func (t Time) Float64() float64 {
	f, _ := t.rat().Float64()
	return f
}

// TimeFromFloat64 builds a Time from a float64, using a fixed
// denominator of 9600 (matching the original reference's rounding
// granularity for beat subdivisions).
func TimeFromFloat64(f float64) Time {
	const denom = 9600
	n := int64(f * denom)
	return NewTime(n, denom)
}

func (t Time) String() string { return t.rat().RatString() }

// Arc is a half-open time span [Start, End).
type Arc struct {
	Start Time
	End   Time
}

// NewArc builds an Arc from explicit start and end.
func NewArc(start, end Time) Arc { return Arc{Start: start, End: end} }

// Duration returns End - Start.
func (a Arc) Duration() Time { return a.End.Sub(a.Start) }

// Contains reports whether t falls in the half-open span [Start, End).
func (a Arc) Contains(t Time) bool {
	return t.Cmp(a.Start) >= 0 && t.Cmp(a.End) < 0
}

// Overlaps reports whether a and other share any sub-interval.
func (a Arc) Overlaps(other Arc) bool {
	return a.Start.Cmp(other.End) < 0 && other.Start.Cmp(a.End) < 0
}
