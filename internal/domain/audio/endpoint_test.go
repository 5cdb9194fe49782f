package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"smartface-server-go/internal/domain/audio/energy"
	"smartface-server-go/internal/domain/audio/inter"
	platformerrors "smartface-server-go/internal/platform/errors"
)

func testConfig() inter.Config {
	return inter.Config{
		SampleRate:      16000,
		FrameSize:       160, // 10ms frames
		EnergyThreshold: 500,
		SilenceWindow:   50 * time.Millisecond, // 5 frames
		ListenTimeout:   time.Second,
	}
}

func makeFrame(amplitude int16, samples int) []byte {
	frame := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(frame[2*i:], uint16(amplitude))
	}
	return frame
}

type sliceSource struct {
	frames [][]byte
	next   int
}

func (s *sliceSource) ReadFrame(context.Context) ([]byte, error) {
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	frame := s.frames[s.next]
	s.next++
	return frame, nil
}

type blockingSource struct{}

func (blockingSource) ReadFrame(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// endlessSource repeats the same frame forever.
type endlessSource struct{ frame []byte }

func (s endlessSource) ReadFrame(context.Context) ([]byte, error) {
	return s.frame, nil
}

type failingSource struct{ err error }

func (s failingSource) ReadFrame(context.Context) ([]byte, error) {
	return nil, s.err
}

func newDetector(cfg inter.Config) *EndpointDetector {
	return NewEndpointDetector(cfg, energy.New(cfg.EnergyThreshold))
}

func TestDetectAllSilenceYieldsNoUtterance(t *testing.T) {
	cfg := testConfig()
	frames := make([][]byte, 0, 40)
	for i := 0; i < 40; i++ {
		frames = append(frames, makeFrame(10, cfg.FrameSize))
	}

	utt, err := newDetector(cfg).Detect(context.Background(), &sliceSource{frames: frames})
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF for exhausted silent stream, got %v", err)
	}
	if utt != nil {
		t.Fatalf("expected no utterance, got %d frames", utt.FrameCount())
	}
}

func TestDetectTimeoutWithoutSpeech(t *testing.T) {
	cfg := testConfig()
	cfg.ListenTimeout = 50 * time.Millisecond

	start := time.Now()
	utt, err := newDetector(cfg).Detect(context.Background(), blockingSource{})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if utt != nil {
		t.Fatal("expected no utterance on timeout")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Detect blocked too long: %v", elapsed)
	}
}

func TestDetectSpeechThenSilence(t *testing.T) {
	cfg := testConfig()
	silenceBudget := cfg.SilenceFrames()

	const speechFrames = 8
	var frames [][]byte
	for i := 0; i < speechFrames; i++ {
		frames = append(frames, makeFrame(2000, cfg.FrameSize))
	}
	for i := 0; i < silenceBudget+10; i++ {
		frames = append(frames, makeFrame(10, cfg.FrameSize))
	}

	utt, err := newDetector(cfg).Detect(context.Background(), &sliceSource{frames: frames})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if utt == nil {
		t.Fatal("expected an utterance")
	}

	want := speechFrames + silenceBudget
	if utt.FrameCount() != want {
		t.Fatalf("expected %d frames (speech + silence run), got %d", want, utt.FrameCount())
	}
}

func TestDetectDiscardsLeadingSilence(t *testing.T) {
	cfg := testConfig()

	var frames [][]byte
	for i := 0; i < 6; i++ {
		frames = append(frames, makeFrame(10, cfg.FrameSize))
	}
	frames = append(frames, makeFrame(2000, cfg.FrameSize))
	frames = append(frames, makeFrame(2000, cfg.FrameSize))

	utt, err := newDetector(cfg).Detect(context.Background(), &sliceSource{frames: frames})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if utt == nil {
		t.Fatal("expected an utterance")
	}
	// Leading silence dropped; stream ended cleanly mid-speech.
	if utt.FrameCount() != 2 {
		t.Fatalf("expected 2 frames, got %d", utt.FrameCount())
	}
}

func TestDetectListenTimeoutSealsOngoingSpeech(t *testing.T) {
	cfg := testConfig()
	cfg.ListenTimeout = 50 * time.Millisecond

	// A speaker who never pauses still gets cut off at the listen timeout,
	// and whatever was captured by then comes back as the utterance.
	start := time.Now()
	utt, err := newDetector(cfg).Detect(context.Background(),
		endlessSource{frame: makeFrame(2000, cfg.FrameSize)})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if utt == nil || utt.FrameCount() == 0 {
		t.Fatal("expected a sealed non-empty utterance at the listen timeout")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Detect blocked past the listen timeout: %v", elapsed)
	}
}

func TestDetectCallerCancellationIsNotASourceFailure(t *testing.T) {
	cfg := testConfig()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	utt, err := newDetector(cfg).Detect(ctx, blockingSource{})
	if utt != nil {
		t.Fatal("expected no utterance after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if platformerrors.IsKind(err, platformerrors.KindAudio) {
		t.Fatalf("cancellation must not be wrapped as an audio error: %v", err)
	}
}

func TestDetectSourceFailureIsNotSilence(t *testing.T) {
	cfg := testConfig()
	cause := errors.New("device unplugged")

	utt, err := newDetector(cfg).Detect(context.Background(), failingSource{err: cause})
	if err == nil {
		t.Fatal("expected an error for a failing source")
	}
	if utt != nil {
		t.Fatal("expected no utterance on source failure")
	}
	if !platformerrors.IsKind(err, platformerrors.KindAudio) {
		t.Fatalf("expected audio-kind error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestUtteranceWAVRoundTrip(t *testing.T) {
	cfg := testConfig()
	utt := NewUtterance(cfg.SampleRate)
	utt.AppendFrame(makeFrame(1000, cfg.FrameSize))
	utt.AppendFrame(makeFrame(-1000, cfg.FrameSize))

	data, err := utt.WAV()
	if err != nil {
		t.Fatalf("WAV returned error: %v", err)
	}
	if len(data) <= 44 {
		t.Fatalf("wav buffer too small: %d bytes", len(data))
	}
	if string(data[:4]) != "RIFF" {
		t.Fatalf("expected RIFF header, got %q", data[:4])
	}
	if utt.Duration() != 20*time.Millisecond {
		t.Fatalf("expected 20ms duration, got %v", utt.Duration())
	}
}

func TestStreamSourceDeliversAndCloses(t *testing.T) {
	src := NewStreamSource(4)
	frame := makeFrame(100, 160)
	if !src.Push(frame) {
		t.Fatal("push should succeed while open")
	}
	src.CloseSend()

	got, err := src.ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("ReadFrame returned error: %v", err)
	}
	if len(got) != len(frame) {
		t.Fatalf("unexpected frame size: %d", len(got))
	}

	if _, err := src.ReadFrame(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after close, got %v", err)
	}
	if src.Push(frame) {
		t.Fatal("push should fail after close")
	}
}

func TestStreamSourceFailure(t *testing.T) {
	src := NewStreamSource(4)
	cause := errors.New("stream reset")
	src.Fail(cause)

	if _, err := src.ReadFrame(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected stream failure, got %v", err)
	}
}
