package host

import (
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"cadence/internal/cadence/types"
)

// MIDISink renders Play effects into a Standard MIDI File, demonstrating
// an EffectSink without implying any audio synthesis/playback engine
// (that remains a Non-goal; this only emits a portable file format a
// player the user already owns can open). Grounded on the teacher's
// midi/generator.go (smf.New/MetricTicks/Track.Add delta-time idiom).
type MIDISink struct {
	smf          *smf.SMF
	track        smf.Track
	cursor       uint32
	ticksPerBeat uint32
	channel      uint8
}

// NewMIDISink builds a MIDISink at 480 ticks per quarter note (matching
// the teacher's resolution), channel 0.
func NewMIDISink() *MIDISink {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	return &MIDISink{smf: s, ticksPerBeat: 480, channel: 0}
}

func (m *MIDISink) Play(e Effect) error {
	p, ok := e.Value.AsPattern()
	if !ok {
		return fmt.Errorf("MIDI export can only play patterns, got %s", e.Value.TypeName())
	}
	events, err := p.Events()
	if err != nil {
		return err
	}

	type timedMsg struct {
		tick    uint32
		on      bool
		note    uint8
		channel uint8
	}
	var msgs []timedMsg
	cycleStartTick := m.cursor

	for _, ev := range events {
		startTick := cycleStartTick + m.ticksToBeats(ev.Arc.Start)
		endTick := cycleStartTick + m.ticksToBeats(ev.Arc.End)
		if ev.Rest {
			continue
		}
		for _, note := range notesForEvent(ev) {
			msgs = append(msgs, timedMsg{tick: startTick, on: true, note: note, channel: m.channel})
			msgs = append(msgs, timedMsg{tick: endTick, on: false, note: note, channel: m.channel})
		}
	}
	m.cursor = cycleStartTick + m.ticksToBeats(p.BeatsPerCycle())

	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].tick < msgs[j].tick })

	prevTick := uint32(0)
	for _, msg := range msgs {
		delta := msg.tick - prevTick
		var smsg midi.Message
		if msg.on {
			smsg = midi.NoteOn(msg.channel, msg.note, 100)
		} else {
			smsg = midi.NoteOff(msg.channel, msg.note)
		}
		m.track.Add(delta, smsg)
		prevTick = msg.tick
	}
	return nil
}

func (m *MIDISink) ticksToBeats(t types.Time) uint32 {
	return uint32(t.Float64() * float64(m.ticksPerBeat))
}

func notesForEvent(ev types.Event) []uint8 {
	switch ev.Kind {
	case types.StepNote:
		return []uint8{uint8(ev.Note.MIDI())}
	case types.StepChord:
		notes := ev.Chord.Notes()
		out := make([]uint8, len(notes))
		for i, n := range notes {
			out[i] = uint8(n.MIDI())
		}
		return out
	case types.StepDrum:
		return []uint8{ev.Drum.MIDINote()}
	}
	return nil
}

func (m *MIDISink) Tempo(bpm float64) error {
	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(bpm))
	tempoTrack.Close(0)
	m.smf.Add(tempoTrack)
	return nil
}

func (m *MIDISink) Volume(level float64) error {
	// Volume is carried per Play effect into note velocity in a fuller
	// implementation; the export sink currently fixes velocity at 100
	// and only needs to satisfy the EffectSink interface here.
	return nil
}

func (m *MIDISink) Waveform(name string) error {
	programs := map[string]uint8{"sine": 80, "saw": 81, "square": 82, "triangle": 83}
	program, ok := programs[name]
	if !ok {
		program = 0
	}
	m.track.Add(0, midi.ProgramChange(m.channel, program))
	return nil
}

func (m *MIDISink) Stop() error { return nil }

func (m *MIDISink) Track(name string, body func() error) error {
	return body()
}

// WriteFile closes the pending track and writes the SMF to path, matching
// the teacher's os.Create + SMF.WriteTo idiom in midi/generator.go.
func (m *MIDISink) WriteFile(path string) error {
	m.track.Close(0)
	m.smf.Add(m.track)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = m.smf.WriteTo(f)
	return err
}
