package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-audio/wav"

	"smartface-server-go/internal/domain/audio/inter"
)

// StreamSource adapts frames pushed by a transport (a websocket client
// forwarding microphone audio) into a FrameSource the endpoint detector can
// pull from.
type StreamSource struct {
	frames chan []byte
	done   chan struct{}
	once   sync.Once

	mu  sync.Mutex
	err error
}

func NewStreamSource(buffer int) *StreamSource {
	if buffer <= 0 {
		buffer = 64
	}
	return &StreamSource{
		frames: make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

// Push enqueues a frame for the detector. It reports false once the source
// is closed or the buffer is full (the frame is dropped rather than blocking
// the transport read loop).
func (s *StreamSource) Push(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.frames <- frame:
		return true
	default:
		return false
	}
}

// CloseSend marks a clean end of stream; pending frames are still delivered.
func (s *StreamSource) CloseSend() {
	s.once.Do(func() { close(s.done) })
}

// Fail terminates the stream with a hardware/transport failure that the
// detector will surface as a source error.
func (s *StreamSource) Fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
}

func (s *StreamSource) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-s.frames:
		return frame, nil
	default:
	}

	select {
	case frame := <-s.frames:
		return frame, nil
	case <-s.done:
		// Drain anything queued before the close.
		select {
		case frame := <-s.frames:
			return frame, nil
		default:
		}
		s.mu.Lock()
		err := s.err
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var _ inter.FrameSource = (*StreamSource)(nil)

// FileSource replays a mono 16-bit WAV file as fixed-size frames. It exists
// for offline runs and tests; the sample rate must match the pipeline's.
type FileSource struct {
	pcm       []byte
	frameSize int // bytes per frame
	offset    int
}

func NewFileSource(path string, frameSamples int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf.Format != nil && buf.Format.NumChannels != 1 {
		return nil, fmt.Errorf("expected mono audio, got %d channels", buf.Format.NumChannels)
	}

	pcm := make([]byte, len(buf.Data)*2)
	for i, s := range buf.Data {
		v := int16(s)
		pcm[2*i] = byte(v)
		pcm[2*i+1] = byte(v >> 8)
	}

	return &FileSource{pcm: pcm, frameSize: frameSamples * 2}, nil
}

func (s *FileSource) ReadFrame(_ context.Context) ([]byte, error) {
	if s.offset >= len(s.pcm) {
		return nil, io.EOF
	}
	end := s.offset + s.frameSize
	if end > len(s.pcm) {
		end = len(s.pcm)
	}
	frame := s.pcm[s.offset:end]
	s.offset = end
	return frame, nil
}

var _ inter.FrameSource = (*FileSource)(nil)
