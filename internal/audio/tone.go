package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

// Waveform selects the oscillator shape of a tone.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveTriangle
)

// edgeRamp is the attack/release window that keeps tone edges from
// clicking.
const edgeRamp = 4 * time.Millisecond

// toneStreamer produces a fixed-frequency tone burst.
type toneStreamer struct {
	sr   beep.SampleRate
	freq float64
	wave Waveform
	vol  float64

	pos   int
	total int
	ramp  int
}

func newTone(sr beep.SampleRate, freq float64, wave Waveform, dur time.Duration, vol float64) *toneStreamer {
	total := sr.N(dur)
	ramp := sr.N(edgeRamp)
	if ramp*2 > total {
		ramp = total / 2
	}
	return &toneStreamer{sr: sr, freq: freq, wave: wave, vol: vol, total: total, ramp: ramp}
}

func (t *toneStreamer) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if t.pos >= t.total {
			break
		}
		phase := float64(t.pos) * t.freq / float64(t.sr)
		v := oscillate(t.wave, phase) * t.vol * t.envelope()
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
		n++
	}
	return n, true
}

func (t *toneStreamer) Err() error { return nil }

// envelope is 1 in the middle of the burst with linear edge ramps.
func (t *toneStreamer) envelope() float64 {
	if t.ramp == 0 {
		return 1
	}
	if t.pos < t.ramp {
		return float64(t.pos) / float64(t.ramp)
	}
	if left := t.total - t.pos; left < t.ramp {
		return float64(left) / float64(t.ramp)
	}
	return 1
}

func oscillate(wave Waveform, phase float64) float64 {
	frac := phase - math.Floor(phase)
	switch wave {
	case WaveSquare:
		if frac < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 1 - 4*math.Abs(frac-0.5)
	default:
		return math.Sin(2 * math.Pi * frac)
	}
}

// silenceStreamer delays a following streamer inside a beep.Seq.
type silenceStreamer struct {
	left int
}

func newSilence(sr beep.SampleRate, d time.Duration) *silenceStreamer {
	return &silenceStreamer{left: sr.N(d)}
}

func (s *silenceStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.left <= 0 {
		return 0, false
	}
	n := len(samples)
	if n > s.left {
		n = s.left
	}
	for i := 0; i < n; i++ {
		samples[i][0] = 0
		samples[i][1] = 0
	}
	s.left -= n
	return n, true
}

func (s *silenceStreamer) Err() error { return nil }

// sweepStreamer produces the crash cue: one long tone whose frequency
// descends exponentially from startFreq to endFreq while the volume
// decays linearly to zero.
type sweepStreamer struct {
	sr        beep.SampleRate
	startFreq float64
	endFreq   float64
	vol       float64

	phase float64
	pos   int
	total int
}

func newSweep(sr beep.SampleRate, startFreq, endFreq float64, dur time.Duration, vol float64) *sweepStreamer {
	return &sweepStreamer{
		sr:        sr,
		startFreq: startFreq,
		endFreq:   endFreq,
		vol:       vol,
		total:     sr.N(dur),
	}
}

// frequencyAt returns the instantaneous frequency at sample position n.
func (s *sweepStreamer) frequencyAt(n int) float64 {
	progress := float64(n) / float64(s.total)
	return s.startFreq * math.Pow(s.endFreq/s.startFreq, progress)
}

func (s *sweepStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if s.pos >= s.total {
			break
		}
		s.phase += s.frequencyAt(s.pos) / float64(s.sr)
		gain := s.vol * (1 - float64(s.pos)/float64(s.total))
		v := math.Sin(2*math.Pi*s.phase) * gain
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
		n++
	}
	return n, true
}

func (s *sweepStreamer) Err() error { return nil }
