package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Utterance is the ordered frame sequence collected between detected speech
// onset and detected speech end. It is sealed by the endpoint detector and
// consumed exactly once by transcription.
type Utterance struct {
	sampleRate int
	frames     [][]byte
}

func NewUtterance(sampleRate int) *Utterance {
	return &Utterance{sampleRate: sampleRate}
}

// AppendFrame copies the frame into the utterance; the caller may reuse the
// buffer afterwards.
func (u *Utterance) AppendFrame(frame []byte) {
	buf := make([]byte, len(frame))
	copy(buf, frame)
	u.frames = append(u.frames, buf)
}

func (u *Utterance) FrameCount() int {
	return len(u.frames)
}

func (u *Utterance) Empty() bool {
	return len(u.frames) == 0
}

// SampleRate returns the PCM sample rate the frames were captured at.
func (u *Utterance) SampleRate() int {
	return u.sampleRate
}

// Duration returns the captured wall-clock span.
func (u *Utterance) Duration() time.Duration {
	if u.sampleRate <= 0 {
		return 0
	}
	samples := 0
	for _, f := range u.frames {
		samples += len(f) / 2
	}
	return time.Duration(samples) * time.Second / time.Duration(u.sampleRate)
}

// PCM concatenates all frames into a single little-endian sample buffer.
func (u *Utterance) PCM() []byte {
	size := 0
	for _, f := range u.frames {
		size += len(f)
	}
	out := make([]byte, 0, size)
	for _, f := range u.frames {
		out = append(out, f...)
	}
	return out
}

// WAV materializes the utterance as a mono 16-bit WAV buffer (header plus
// concatenated samples) ready for a transcription request.
func (u *Utterance) WAV() ([]byte, error) {
	pcm := u.PCM()
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	buf := &writeSeekBuffer{}
	enc := wav.NewEncoder(buf, u.sampleRate, 16, 1, 1)
	if err := enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: u.sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}
	return buf.data, nil
}

// writeSeekBuffer gives the wav encoder the io.WriteSeeker it needs without
// touching the filesystem.
type writeSeekBuffer struct {
	data []byte
	pos  int
}

func (b *writeSeekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.data) {
		grown := make([]byte, need)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *writeSeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(b.pos) + offset
	case io.SeekEnd:
		next = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative seek position: %d", next)
	}
	b.pos = int(next)
	return next, nil
}
