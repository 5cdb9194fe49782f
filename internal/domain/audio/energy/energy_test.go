package energy

import (
	"encoding/binary"
	"math"
	"testing"
)

func frameOf(amplitude int16, samples int) []byte {
	frame := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(frame[2*i:], uint16(amplitude))
	}
	return frame
}

func TestRMSConstantAmplitude(t *testing.T) {
	frame := frameOf(1000, 160)
	if got := RMS(frame); math.Abs(got-1000) > 0.01 {
		t.Fatalf("expected RMS 1000, got %f", got)
	}
	if got := RMS(nil); got != 0 {
		t.Fatalf("expected RMS 0 for empty frame, got %f", got)
	}
}

func TestIsSpeechThreshold(t *testing.T) {
	vad := New(500)

	speech, err := vad.IsSpeech(frameOf(2000, 160))
	if err != nil {
		t.Fatalf("IsSpeech returned error: %v", err)
	}
	if !speech {
		t.Fatal("expected loud frame to register as speech")
	}

	speech, err = vad.IsSpeech(frameOf(10, 160))
	if err != nil {
		t.Fatalf("IsSpeech returned error: %v", err)
	}
	if speech {
		t.Fatal("expected quiet frame to register as silence")
	}

	// Negative samples carry the same energy as positive ones.
	speech, err = vad.IsSpeech(frameOf(-2000, 160))
	if err != nil {
		t.Fatalf("IsSpeech returned error: %v", err)
	}
	if !speech {
		t.Fatal("expected loud negative frame to register as speech")
	}
}
