package inter

import (
	"context"
	"time"
)

// FrameSource abstracts where PCM16 mono frames come from: a live microphone
// stream forwarded over a transport, or a file-backed stream in tests.
type FrameSource interface {
	// ReadFrame returns the next fixed-size PCM16 little-endian frame.
	// io.EOF signals a clean end of stream; any other error is a source
	// failure and must not be treated as silence.
	ReadFrame(ctx context.Context) ([]byte, error)
}

// VADProvider decides whether a single frame contains speech. Implementations
// must not retain or mutate the frame.
type VADProvider interface {
	IsSpeech(frame []byte) (bool, error)

	// Reset clears any internal state between utterances.
	Reset()
}

// Config tunes endpoint detection. SilenceWindow is wall-clock time; the
// detector converts it to a consecutive-frame count using the frame duration
// derived from SampleRate and FrameSize.
type Config struct {
	SampleRate      int
	FrameSize       int // samples per frame
	EnergyThreshold float64
	SilenceWindow   time.Duration
	ListenTimeout   time.Duration
}

// FrameDuration returns the wall-clock span of one frame.
func (c Config) FrameDuration() time.Duration {
	if c.SampleRate <= 0 || c.FrameSize <= 0 {
		return 0
	}
	return time.Duration(c.FrameSize) * time.Second / time.Duration(c.SampleRate)
}

// SilenceFrames converts the silence window into the number of consecutive
// low-energy frames that seal an utterance.
func (c Config) SilenceFrames() int {
	d := c.FrameDuration()
	if d <= 0 {
		return 1
	}
	n := int(c.SilenceWindow / d)
	if n < 1 {
		n = 1
	}
	return n
}
