package audio

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
)

// Cue names one game event sound.
type Cue int

const (
	CueTick Cue = iota
	CueBuy
	CueSell
	CueAlert
	CueCrash
)

// tone describes one scheduled burst of a cue.
type tone struct {
	freq  float64
	wave  Waveform
	dur   time.Duration
	vol   float64
	delay time.Duration
}

// cueTable maps each cue onto its bursts. The crash cue is handled
// separately as a frequency sweep.
var cueTable = map[Cue][]tone{
	CueTick: {
		{freq: 880, wave: WaveSine, dur: 60 * time.Millisecond, vol: 0.12},
	},
	CueBuy: {
		{freq: 523.25, wave: WaveTriangle, dur: 90 * time.Millisecond, vol: 0.25},
		{freq: 659.25, wave: WaveTriangle, dur: 120 * time.Millisecond, vol: 0.25, delay: 90 * time.Millisecond},
	},
	CueSell: {
		{freq: 659.25, wave: WaveTriangle, dur: 90 * time.Millisecond, vol: 0.25},
		{freq: 523.25, wave: WaveTriangle, dur: 120 * time.Millisecond, vol: 0.25, delay: 90 * time.Millisecond},
	},
	CueAlert: {
		{freq: 440, wave: WaveSquare, dur: 150 * time.Millisecond, vol: 0.2},
		{freq: 440, wave: WaveSquare, dur: 150 * time.Millisecond, vol: 0.2, delay: 200 * time.Millisecond},
	},
}

// crash cue parameters: a long descending sweep.
const (
	crashStartFreq = 700
	crashEndFreq   = 55
	crashDur       = 2500 * time.Millisecond
	crashVol       = 0.3
)

// Sink plays scheduled streamers. The production sink wraps the
// speaker; tests substitute a recorder.
type Sink interface {
	Play(s beep.Streamer)
}

// Engine generates short synthesized cues. It is stateless with
// respect to game data; callers decide when a cue is warranted.
type Engine struct {
	sr      beep.SampleRate
	sink    Sink
	logger  *slog.Logger
	enabled atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a cue engine playing through the given sink.
// Playback starts enabled.
func NewEngine(sr beep.SampleRate, sink Sink, opts ...Option) *Engine {
	e := &Engine{sr: sr, sink: sink}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.enabled.Store(true)
	return e
}

// Enabled reports whether playback is currently on.
func (e *Engine) Enabled() bool { return e.enabled.Load() }

// SetEnabled sets the global playback flag.
func (e *Engine) SetEnabled(on bool) { e.enabled.Store(on) }

// Toggle flips the global playback flag and returns the new state.
func (e *Engine) Toggle() bool {
	on := !e.enabled.Load()
	e.enabled.Store(on)
	return on
}

// Play schedules the bursts of the named cue. A muted engine plays
// nothing.
func (e *Engine) Play(c Cue) {
	if !e.enabled.Load() {
		return
	}

	if c == CueCrash {
		e.sink.Play(newSweep(e.sr, crashStartFreq, crashEndFreq, crashDur, crashVol))
		return
	}

	tones, ok := cueTable[c]
	if !ok {
		e.logger.Warn("unknown cue", "cue", int(c))
		return
	}
	for _, t := range tones {
		burst := beep.Streamer(newTone(e.sr, t.freq, t.wave, t.dur, t.vol))
		if t.delay > 0 {
			burst = beep.Seq(newSilence(e.sr, t.delay), burst)
		}
		e.sink.Play(burst)
	}
}
