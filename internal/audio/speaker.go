package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the engine's synthesis rate.
const DefaultSampleRate = beep.SampleRate(44100)

// SpeakerSink plays streamers through the system audio device.
type SpeakerSink struct{}

// NewSpeakerSink initializes the audio device. On headless hosts the
// error lets the caller fall back to a silent engine.
func NewSpeakerSink(sr beep.SampleRate) (*SpeakerSink, error) {
	if err := speaker.Init(sr, sr.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &SpeakerSink{}, nil
}

// Play mixes the streamer into the speaker output.
func (*SpeakerSink) Play(s beep.Streamer) {
	speaker.Play(s)
}

// NullSink discards all playback. Used when no audio device is
// available.
type NullSink struct{}

// Play discards the streamer.
func (NullSink) Play(beep.Streamer) {}
