package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
)

const testRate = beep.SampleRate(8000)

// recordSink captures scheduled streamers instead of playing them.
type recordSink struct {
	streamers []beep.Streamer
}

func (r *recordSink) Play(s beep.Streamer) {
	r.streamers = append(r.streamers, s)
}

func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestPlay_SchedulesAllBursts(t *testing.T) {
	tests := []struct {
		name   string
		cue    Cue
		bursts int
	}{
		{"tick", CueTick, 1},
		{"buy", CueBuy, 2},
		{"sell", CueSell, 2},
		{"alert", CueAlert, 2},
		{"crash", CueCrash, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordSink{}
			e := NewEngine(testRate, sink)
			e.Play(tc.cue)
			if len(sink.streamers) != tc.bursts {
				t.Fatalf("scheduled %d streamers, want %d", len(sink.streamers), tc.bursts)
			}
		})
	}
}

func TestPlay_MutedIsNoOp(t *testing.T) {
	sink := &recordSink{}
	e := NewEngine(testRate, sink)
	e.SetEnabled(false)

	e.Play(CueTick)
	e.Play(CueCrash)

	if len(sink.streamers) != 0 {
		t.Fatalf("muted engine scheduled %d streamers", len(sink.streamers))
	}
}

func TestToggle_FlipsAndReturnsNewState(t *testing.T) {
	e := NewEngine(testRate, &recordSink{})

	if !e.Enabled() {
		t.Fatal("engine should start enabled")
	}
	if on := e.Toggle(); on {
		t.Fatal("first toggle should disable")
	}
	if on := e.Toggle(); !on {
		t.Fatal("second toggle should re-enable")
	}
}

func TestTone_LengthAndAmplitude(t *testing.T) {
	tone := newTone(testRate, 440, WaveSine, 100*time.Millisecond, 0.5)
	samples := drain(t, tone)

	want := testRate.N(100 * time.Millisecond)
	if len(samples) != want {
		t.Fatalf("tone produced %d samples, want %d", len(samples), want)
	}

	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s[0]); a > peak {
			peak = a
		}
		if s[0] != s[1] {
			t.Fatal("channels differ")
		}
	}
	if peak > 0.5+1e-9 {
		t.Fatalf("peak %v exceeds volume 0.5", peak)
	}
	if peak < 0.4 {
		t.Fatalf("peak %v suspiciously low for volume 0.5", peak)
	}
}

func TestTone_SinePeriod(t *testing.T) {
	// 1000 Hz at 8 kHz: one full period every 8 samples. Check the
	// waveform repeats there, away from the edge ramps.
	tone := newTone(testRate, 1000, WaveSine, 100*time.Millisecond, 1)
	samples := drain(t, tone)

	mid := len(samples) / 2
	for i := mid; i < mid+32; i++ {
		if diff := math.Abs(samples[i][0] - samples[i+8][0]); diff > 1e-6 {
			t.Fatalf("sample %d does not repeat after one period: diff=%v", i, diff)
		}
	}
}

func TestSquareAndTriangle_Shapes(t *testing.T) {
	if v := oscillate(WaveSquare, 0.25); v != 1 {
		t.Fatalf("square at 0.25 = %v, want 1", v)
	}
	if v := oscillate(WaveSquare, 0.75); v != -1 {
		t.Fatalf("square at 0.75 = %v, want -1", v)
	}
	if v := oscillate(WaveTriangle, 0.5); v != 1 {
		t.Fatalf("triangle at 0.5 = %v, want 1", v)
	}
	if v := oscillate(WaveTriangle, 0.0); v != -1 {
		t.Fatalf("triangle at 0 = %v, want -1", v)
	}
}

func TestSweep_FrequencyDescendsExponentially(t *testing.T) {
	sweep := newSweep(testRate, crashStartFreq, crashEndFreq, time.Second, 1)

	prev := sweep.frequencyAt(0)
	if math.Abs(prev-crashStartFreq) > 1e-9 {
		t.Fatalf("start frequency %v, want %v", prev, float64(crashStartFreq))
	}
	for n := 1; n <= sweep.total; n += sweep.total / 20 {
		f := sweep.frequencyAt(n)
		if f >= prev {
			t.Fatalf("frequency rose at sample %d: %v -> %v", n, prev, f)
		}
		prev = f
	}
	end := sweep.frequencyAt(sweep.total)
	if math.Abs(end-crashEndFreq) > 1e-6 {
		t.Fatalf("end frequency %v, want %v", end, float64(crashEndFreq))
	}
}

func TestSweep_VolumeDecaysToZero(t *testing.T) {
	sweep := newSweep(testRate, 700, 55, 250*time.Millisecond, 0.8)
	samples := drain(t, sweep)

	if len(samples) != testRate.N(250*time.Millisecond) {
		t.Fatalf("sweep length %d", len(samples))
	}

	// Envelope of the last 5% must sit well under the first 5%.
	head, tail := 0.0, 0.0
	n := len(samples) / 20
	for i := 0; i < n; i++ {
		if a := math.Abs(samples[i][0]); a > head {
			head = a
		}
		if a := math.Abs(samples[len(samples)-1-i][0]); a > tail {
			tail = a
		}
	}
	if tail > head/4 {
		t.Fatalf("volume did not decay: head=%v tail=%v", head, tail)
	}
}

func TestSilence_DelaysExactly(t *testing.T) {
	s := newSilence(testRate, 25*time.Millisecond)
	samples := drain(t, s)
	if len(samples) != testRate.N(25*time.Millisecond) {
		t.Fatalf("silence length %d", len(samples))
	}
	for _, v := range samples {
		if v[0] != 0 || v[1] != 0 {
			t.Fatal("silence produced non-zero sample")
		}
	}
}
