// Package config loads a Cadence project file: the default tempo,
// volume, and waveform a program starts with, plus a module search path
// that Project.ResolveModule looks relative paths up in (the host's
// module resolver does not consult it). Grounded on the
// teacher's parser/parser.go (struct-tag YAML shape, StringOrList-style
// custom unmarshal, LoadTrack's read-then-default pattern).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"cadence/internal/cadence/types"
)

// Project is a Cadence project's settings file (cadence.yaml).
type Project struct {
	Name     string       `yaml:"name"`
	Tempo    int          `yaml:"tempo"`
	Volume   float64      `yaml:"volume"`
	Waveform string       `yaml:"waveform"`
	EnvRef   *EnvelopeRef `yaml:"envelope,omitempty"`
	Search   StringOrList `yaml:"search,omitempty"`
	Entry    string       `yaml:"entry"`
}

// EnvelopeRef names one of the package's built-in ADSR presets, or
// supplies explicit attack/decay/sustain/release values.
type EnvelopeRef struct {
	Preset  string  `yaml:"preset,omitempty"`
	Attack  float32 `yaml:"attack,omitempty"`
	Decay   float32 `yaml:"decay,omitempty"`
	Sustain float32 `yaml:"sustain,omitempty"`
	Release float32 `yaml:"release,omitempty"`
}

// StringOrList unmarshals from either a scalar path or a list of paths,
// matching the teacher's StringOrList idiom.
type StringOrList []string

func (s *StringOrList) UnmarshalYAML(node *yaml.Node) error {
	var single string
	if err := node.Decode(&single); err == nil {
		*s = StringOrList{single}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = StringOrList(list)
	return nil
}

// Load reads and parses a project file at path, filling in defaults the
// same way the teacher's LoadTrack does (tempo/repeat defaults applied
// after unmarshal, not via zero-value coincidence).
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file '%s': %w", path, err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project file '%s': %w", path, err)
	}

	if p.Tempo == 0 {
		p.Tempo = 120
	}
	if p.Volume == 0 {
		p.Volume = 1.0
	}
	if p.Waveform == "" {
		p.Waveform = "sine"
	}
	if len(p.Search) == 0 {
		p.Search = StringOrList{filepath.Dir(path)}
	}
	return &p, nil
}

// Envelope resolves the project's envelope setting to ADSR parameters,
// falling back to the default envelope when unset.
func (p *Project) Envelope() types.AdsrParams {
	if p.EnvRef == nil {
		return types.DefaultEnvelope()
	}
	if p.EnvRef.Preset != "" {
		switch p.EnvRef.Preset {
		case "pluck":
			return types.PluckEnvelope()
		case "pad":
			return types.PadEnvelope()
		case "perc":
			return types.PercEnvelope()
		case "organ":
			return types.OrganEnvelope()
		}
	}
	return types.NewAdsrParams(p.EnvRef.Attack, p.EnvRef.Decay, p.EnvRef.Sustain, p.EnvRef.Release)
}

// ResolveModule resolves a `use` path against the project's search
// directories, returning the first existing match (or the raw path
// unresolved if nothing matches, letting the caller's own error surface).
func (p *Project) ResolveModule(useePath string) string {
	if filepath.IsAbs(useePath) {
		return useePath
	}
	for _, dir := range p.Search {
		candidate := filepath.Join(dir, useePath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return useePath
}
