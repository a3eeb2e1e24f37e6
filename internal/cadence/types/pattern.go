package types

import "fmt"

// Pattern is an ordered sequence of PatternSteps occupying a
// beats-per-cycle duration. Grounded on the teacher's Strudel
// mini-notation generator (strudel/generator.go) and the Rust reference
// cadence-core/src/types/pattern/{core,every,euclidean}.rs.
type Pattern struct {
	steps         []PatternStep
	beatsPerCycle Time
}

// WithSteps builds a Pattern from steps with the default one-bar
// (4 beat) cycle length.
func WithSteps(steps []PatternStep) Pattern {
	return Pattern{steps: steps, beatsPerCycle: Beats(4)}
}

// NewPattern builds a Pattern with an explicit cycle duration.
func NewPattern(steps []PatternStep, beatsPerCycle Time) Pattern {
	return Pattern{steps: steps, beatsPerCycle: beatsPerCycle}
}

// Steps returns the pattern's top-level steps.
func (p Pattern) Steps() []PatternStep { return p.steps }

// BeatsPerCycle returns the pattern's cycle duration.
func (p Pattern) BeatsPerCycle() Time { return p.beatsPerCycle }

// Len returns the number of top-level steps.
func (p Pattern) Len() int { return len(p.steps) }

// Transpose shifts every pitched step by semitones (addition of an
// integer transposes all pitched steps, per spec §3).
func (p Pattern) Transpose(semitones int8) Pattern {
	return Pattern{steps: transposeAll(p.steps, semitones), beatsPerCycle: p.beatsPerCycle}
}

// Reverse reverses the top-level step order, keeping beatsPerCycle.
func (p Pattern) Reverse() Pattern {
	out := make([]PatternStep, len(p.steps))
	for i, s := range p.steps {
		out[len(p.steps)-1-i] = s
	}
	return Pattern{steps: out, beatsPerCycle: p.beatsPerCycle}
}

// Fast divides beatsPerCycle by k (k >= 1), compressing the pattern to
// play faster within the same wall-clock cycle.
func (p Pattern) Fast(k int64) Pattern {
	if k < 1 {
		k = 1
	}
	return Pattern{steps: p.steps, beatsPerCycle: p.beatsPerCycle.Quo(Beats(k))}
}

// Slow multiplies beatsPerCycle by k (k >= 1), stretching the pattern to
// play slower.
func (p Pattern) Slow(k int64) Pattern {
	if k < 1 {
		k = 1
	}
	return Pattern{steps: p.steps, beatsPerCycle: p.beatsPerCycle.Mul(Beats(k))}
}

// HasVariables reports whether any step (recursively) is a Variable.
func (p Pattern) HasVariables() bool {
	for _, s := range p.steps {
		if s.hasVariables() {
			return true
		}
	}
	return false
}

// VariableNames returns the distinct variable names referenced anywhere
// in the pattern.
func (p Pattern) VariableNames() []string {
	set := map[string]bool{}
	for _, s := range p.steps {
		s.variableNames(set)
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}

// ResolveVariables resolves every Variable step against resolve, which
// maps a name to the steps it stands for (or ok=false if unbound).
// Thunks and other indirections are the caller's responsibility to
// unwrap before calling resolve (the evaluator forces them first).
func (p Pattern) ResolveVariables(resolve func(name string) ([]PatternStep, bool)) (Pattern, error) {
	resolved, err := resolveSteps(p.steps, resolve)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{steps: resolved, beatsPerCycle: p.beatsPerCycle}, nil
}

func resolveSteps(steps []PatternStep, resolve func(name string) ([]PatternStep, bool)) ([]PatternStep, error) {
	out := make([]PatternStep, 0, len(steps))
	for _, s := range steps {
		switch s.Kind {
		case StepVariable:
			replacement, ok := resolve(s.Variable)
			if !ok {
				return nil, fmt.Errorf("unresolved pattern variable '%s'", s.Variable)
			}
			out = append(out, replacement...)
		case StepGroup:
			children, err := resolveSteps(s.Steps, resolve)
			if err != nil {
				return nil, err
			}
			out = append(out, GroupStep(children))
		case StepAlternation:
			children, err := resolveSteps(s.Steps, resolve)
			if err != nil {
				return nil, err
			}
			out = append(out, AlternationStep(children))
		case StepRepeat:
			inner, err := resolveSteps([]PatternStep{*s.Inner}, resolve)
			if err != nil {
				return nil, err
			}
			if len(inner) != 1 {
				return nil, fmt.Errorf("cannot repeat a multi-step variable expansion")
			}
			out = append(out, RepeatStep(inner[0], s.Count))
		case StepWeighted:
			inner, err := resolveSteps([]PatternStep{*s.Inner}, resolve)
			if err != nil {
				return nil, err
			}
			if len(inner) != 1 {
				return nil, fmt.Errorf("cannot weight a multi-step variable expansion")
			}
			out = append(out, WeightedStep(inner[0], s.Weight))
		case StepEuclidean:
			inner, err := resolveSteps([]PatternStep{*s.Inner}, resolve)
			if err != nil {
				return nil, err
			}
			if len(inner) != 1 {
				return nil, fmt.Errorf("cannot apply a euclidean rhythm to a multi-step variable expansion")
			}
			out = append(out, EuclideanStep(inner[0], s.Pulses, s.Slots))
		default:
			out = append(out, s)
		}
	}
	return out, nil
}

// Event is a single sounded (or resting) slot of a pattern, resolved to
// an absolute Arc within one cycle.
type Event struct {
	Arc   Arc
	Kind  StepKind
	Note  Note
	Chord Chord
	Drum  DrumSound
	Rest  bool
}

// Events renders the pattern's events for cycle index 0. Use
// EventsForCycle for patterns containing Alternation steps whose
// content depends on the cycle.
func (p Pattern) Events() ([]Event, error) {
	return p.EventsForCycle(0)
}

// EventsForCycle renders the pattern's events for the given cycle
// index, resolving any Alternation steps by cycle. All Variable steps
// must already be resolved (ResolveVariables) or this returns an error,
// matching the invariant in spec §3: unresolved variables never pass
// through evaluation.
func (p Pattern) EventsForCycle(cycle int) ([]Event, error) {
	return renderSteps(p.steps, NewArc(ZeroTime(), p.beatsPerCycle), cycle)
}

func renderSteps(steps []PatternStep, arc Arc, cycle int) ([]Event, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	totalWeight := 0
	for _, s := range steps {
		totalWeight += s.weight()
	}
	total := arc.Duration()
	var events []Event
	cursor := arc.Start
	for _, s := range steps {
		w := s.weight()
		width := total.Mul(NewTime(int64(w), 1)).Quo(NewTime(int64(totalWeight), 1))
		slot := NewArc(cursor, cursor.Add(width))
		evs, err := renderStep(s, slot, cycle)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
		cursor = slot.End
	}
	return events, nil
}

func renderStep(s PatternStep, slot Arc, cycle int) ([]Event, error) {
	switch s.Kind {
	case StepNote:
		return []Event{{Arc: slot, Kind: StepNote, Note: s.Note}}, nil
	case StepChord:
		return []Event{{Arc: slot, Kind: StepChord, Chord: s.Chord}}, nil
	case StepRest:
		return []Event{{Arc: slot, Kind: StepRest, Rest: true}}, nil
	case StepDrum:
		return []Event{{Arc: slot, Kind: StepDrum, Drum: s.Drum}}, nil
	case StepVariable:
		return nil, fmt.Errorf("unresolved pattern variable '%s'", s.Variable)
	case StepGroup:
		return renderSteps(s.Steps, slot, cycle)
	case StepAlternation:
		if len(s.Steps) == 0 {
			return nil, nil
		}
		idx := ((cycle % len(s.Steps)) + len(s.Steps)) % len(s.Steps)
		return renderStep(s.Steps[idx], slot, cycle)
	case StepRepeat:
		count := s.Count
		if count < 1 {
			count = 1
		}
		repeated := make([]PatternStep, count)
		for i := range repeated {
			repeated[i] = *s.Inner
		}
		return renderSteps(repeated, slot, cycle)
	case StepWeighted:
		return renderStep(*s.Inner, slot, cycle)
	case StepEuclidean:
		mask := Bjorklund(s.Pulses, s.Slots)
		rest := PatternStep{Kind: StepRest}
		expanded := make([]PatternStep, len(mask))
		for i, hit := range mask {
			if hit {
				expanded[i] = *s.Inner
			} else {
				expanded[i] = rest
			}
		}
		return renderSteps(expanded, slot, cycle)
	}
	return nil, fmt.Errorf("unknown pattern step kind %d", s.Kind)
}

// Bjorklund distributes pulses evenly across steps slots using
// Bjorklund's algorithm, returning a slice where true marks a pulse.
// Grounded on the teacher's midi/drums.go generateEuclideanRhythm and
// cross-checked against cadence-core/src/types/pattern/euclidean.rs.
func Bjorklund(pulses, steps int) []bool {
	if steps <= 0 {
		return nil
	}
	if pulses >= steps {
		out := make([]bool, steps)
		for i := range out {
			out[i] = true
		}
		return out
	}
	if pulses <= 0 {
		return make([]bool, steps)
	}

	pattern := make([][]bool, pulses)
	for i := range pattern {
		pattern[i] = []bool{true}
	}
	remainder := make([][]bool, steps-pulses)
	for i := range remainder {
		remainder[i] = []bool{false}
	}

	for len(remainder) > 1 {
		minLen := len(pattern)
		if len(remainder) < minLen {
			minLen = len(remainder)
		}
		newPattern := make([][]bool, 0, minLen)
		for i := 0; i < minLen; i++ {
			combined := append(append([]bool{}, pattern[i]...), remainder[i]...)
			newPattern = append(newPattern, combined)
		}
		leftoverPattern := append([][]bool{}, pattern[minLen:]...)
		leftoverRemainder := append([][]bool{}, remainder[minLen:]...)

		pattern = newPattern
		if len(leftoverPattern) == 0 {
			remainder = leftoverRemainder
		} else {
			remainder = leftoverPattern
		}
	}

	var result []bool
	for _, seq := range pattern {
		result = append(result, seq...)
	}
	for _, seq := range remainder {
		result = append(result, seq...)
	}
	return result
}
