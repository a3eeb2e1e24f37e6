// Package host drives a parsed program against a live environment,
// threading effect statements (Play/Tempo/Volume/Waveform/Stop/Load/
// Track/Use) out to a Sink. Grounded on the older src/parser/interpreter.rs
// host driver and the teacher's player/realtime.go mutex/stopOnce idiom,
// generalized from a fixed backing-track shape to an arbitrary Cadence
// program (spec §4.7's "outer interpreter" addition).
package host

import (
	"fmt"
	"sync"

	"cadence/internal/cadence/ast"
	"cadence/internal/cadence/env"
	"cadence/internal/cadence/eval"
	"cadence/internal/cadence/module"
	"cadence/internal/cadence/value"
)

// Interpreter owns the live environment, tempo/volume state, and the
// effect sink a running program emits into.
type Interpreter struct {
	Env    *env.SharedEnvironment
	Sink   EffectSink
	Loader *module.Resolver

	mu       sync.Mutex
	tempo    float64
	volume   float64
	waveform string
	stopOnce sync.Once
	stopped  chan struct{}
}

// New builds an Interpreter with a fresh environment, default tempo
// (120 bpm) and volume (1.0), wired to sink.
func New(sink EffectSink) *Interpreter {
	return &Interpreter{
		Env:      env.NewShared(),
		Sink:     sink,
		Loader:   module.NewResolver(module.NativeFileProvider{}),
		tempo:    120,
		volume:   1.0,
		waveform: "sine",
		stopped:  make(chan struct{}),
	}
}

// Run evaluates an already-parsed program against the interpreter's
// environment.
func (i *Interpreter) Run(prog ast.Program) error {
	evaluator := eval.New(i.Env, i)
	return evaluator.Run(prog)
}

// Stop signals any in-flight playback to halt; idempotent.
func (i *Interpreter) Stop() error {
	i.stopOnce.Do(func() { close(i.stopped) })
	return i.Sink.Stop()
}

// --- eval.Sink implementation: effect statements delegate to Sink ---

func (i *Interpreter) Play(v value.Value) error {
	i.mu.Lock()
	tempo, volume, waveform := i.tempo, i.volume, i.waveform
	i.mu.Unlock()
	return i.Sink.Play(Effect{Value: v, Tempo: tempo, Volume: volume, Waveform: waveform})
}

func (i *Interpreter) Tempo(bpm float64) error {
	i.mu.Lock()
	i.tempo = bpm
	i.mu.Unlock()
	return i.Sink.Tempo(bpm)
}

func (i *Interpreter) Volume(level float64) error {
	i.mu.Lock()
	i.volume = level
	i.mu.Unlock()
	return i.Sink.Volume(level)
}

func (i *Interpreter) Waveform(name string) error {
	i.mu.Lock()
	i.waveform = name
	i.mu.Unlock()
	return i.Sink.Waveform(name)
}

func (i *Interpreter) Load(path string) error {
	exports, err := i.Loader.Resolve(path)
	if err != nil {
		return err
	}
	evaluator := eval.New(i.Env, i)
	return evaluator.Run(ast.Program{Statements: exports.Program.Statements})
}

func (i *Interpreter) Track(name string, body func() error) error {
	return i.Sink.Track(name, body)
}

func (i *Interpreter) Use(modulePath string, items []string, alias string) error {
	exports, err := i.Loader.Resolve(modulePath)
	if err != nil {
		return err
	}
	stmts := module.Select(exports, items, alias)
	evaluator := eval.New(i.Env, i)
	return evaluator.Run(ast.Program{Statements: stmts})
}

// EffectSink is the boundary between the host interpreter and whatever
// consumes its effects — a terminal REPL renderer, or the MIDI export
// sink in midi_sink.go. It is a distinct interface from eval.Sink:
// eval.Sink's Play/Tempo/etc. signatures are exactly what the evaluator
// calls; EffectSink.Play receives an enriched Effect carrying the
// tempo/volume/waveform state active at play time, which a renderer or
// file writer actually needs.
type EffectSink interface {
	Play(e Effect) error
	Tempo(bpm float64) error
	Volume(level float64) error
	Waveform(name string) error
	Stop() error
	Track(name string, body func() error) error
}

// Effect is one Play statement's fully-resolved context.
type Effect struct {
	Value    value.Value
	Tempo    float64
	Volume   float64
	Waveform string
}

func (e Effect) String() string {
	return fmt.Sprintf("play %s @ %gbpm vol=%g wave=%s", e.Value.String_(), e.Tempo, e.Volume, e.Waveform)
}
