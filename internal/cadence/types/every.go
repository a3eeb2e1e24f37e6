package types

// EveryPattern combines a base pattern with a transformed variant that
// plays once every N cycles. Both patterns are pre-computed at
// construction, per spec §3. Grounded on
// cadence-core/src/types/pattern/every.rs.
type EveryPattern struct {
	Interval    int
	Base        Pattern
	Transformed Pattern
}

// NewEveryPattern builds an EveryPattern, flooring interval to a
// minimum of 1.
func NewEveryPattern(interval int, base, transformed Pattern) EveryPattern {
	if interval < 1 {
		interval = 1
	}
	return EveryPattern{Interval: interval, Base: base, Transformed: transformed}
}

// SelectForCycle returns Transformed iff (cycle+1) mod Interval == 0,
// else Base. For interval=2: transform fires on cycles 1, 3, 5, ...
// For interval=3: transform fires on cycles 2, 5, 8, ...
func (e EveryPattern) SelectForCycle(cycle int) Pattern {
	if mod(cycle+1, e.Interval) == 0 {
		return e.Transformed
	}
	return e.Base
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// Transpose shifts both the base and transformed patterns.
func (e EveryPattern) Transpose(semitones int8) EveryPattern {
	return NewEveryPattern(e.Interval, e.Base.Transpose(semitones), e.Transformed.Transpose(semitones))
}
