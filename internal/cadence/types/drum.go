package types

import "strings"

// DrumSound is a percussion voice with a TidalCycles-style short name and
// a General MIDI percussion note number (channel 10).
type DrumSound int

const (
	Kick DrumSound = iota
	Snare
	HiHat
	OpenHiHat
	Clap
	Tom
	Crash
	Ride
	Rim
	Cowbell
)

// drumNames maps recognized tokens (TidalCycles-style) to a DrumSound.
var drumNames = map[string]DrumSound{
	"kick": Kick, "k": Kick, "bd": Kick, "bass": Kick,
	"snare": Snare, "s": Snare, "sn": Snare, "sd": Snare,
	"hihat": HiHat, "hh": HiHat, "h": HiHat, "ch": HiHat,
	"openhat": OpenHiHat, "oh": OpenHiHat, "ho": OpenHiHat,
	"clap": Clap, "cp": Clap, "cl": Clap,
	"tom": Tom, "t": Tom, "lt": Tom,
	"crash": Crash, "cr": Crash, "cc": Crash,
	"ride": Ride, "rd": Ride, "ri": Ride,
	"rim": Rim, "rm": Rim, "rs": Rim,
	"cowbell": Cowbell, "cb": Cowbell, "cow": Cowbell,
}

// ParseDrumSound parses a drum token (case-insensitive).
func ParseDrumSound(s string) (DrumSound, bool) {
	d, ok := drumNames[strings.ToLower(s)]
	return d, ok
}

// MIDINote returns the General MIDI percussion note number for the drum.
func (d DrumSound) MIDINote() uint8 {
	switch d {
	case Kick:
		return 36
	case Snare:
		return 38
	case HiHat:
		return 42
	case OpenHiHat:
		return 46
	case Clap:
		return 39
	case Tom:
		return 45
	case Crash:
		return 49
	case Ride:
		return 51
	case Rim:
		return 37
	case Cowbell:
		return 56
	}
	return 0
}

// ShortName returns the canonical display name for the drum.
func (d DrumSound) ShortName() string {
	switch d {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case HiHat:
		return "hh"
	case OpenHiHat:
		return "oh"
	case Clap:
		return "clap"
	case Tom:
		return "tom"
	case Crash:
		return "crash"
	case Ride:
		return "ride"
	case Rim:
		return "rim"
	case Cowbell:
		return "cowbell"
	}
	return "?"
}

func (d DrumSound) String() string { return d.ShortName() }

// DisplayFrequency returns a pseudo-frequency for visualization purposes
// only (not an actual pitch), spreading drums across a piano roll.
func (d DrumSound) DisplayFrequency() float32 {
	switch d {
	case Kick:
		return 65.41
	case Snare:
		return 130.81
	case Clap:
		return 146.83
	case Rim:
		return 164.81
	case Tom:
		return 174.61
	case HiHat:
		return 261.63
	case OpenHiHat:
		return 293.66
	case Cowbell:
		return 329.63
	case Crash:
		return 392.00
	case Ride:
		return 440.00
	}
	return 0
}
