package energy

import (
	"encoding/binary"
	"math"

	"smartface-server-go/internal/domain/audio/inter"
)

// Provider is an energy-based voice activity detector: a frame counts as
// speech when the RMS amplitude of its 16-bit samples exceeds a fixed
// threshold. The threshold is configuration, not adaptive; swapping in an
// adaptive noise floor only requires another inter.VADProvider.
type Provider struct {
	threshold float64
}

func New(threshold float64) *Provider {
	return &Provider{threshold: threshold}
}

// IsSpeech reports whether the frame's RMS energy exceeds the threshold.
func (p *Provider) IsSpeech(frame []byte) (bool, error) {
	if len(frame) < 2 {
		return false, nil
	}
	return RMS(frame) > p.threshold, nil
}

// Reset is a no-op; the detector is stateless across frames.
func (p *Provider) Reset() {}

var _ inter.VADProvider = (*Provider)(nil)

// RMS computes the root-mean-square amplitude of PCM16 little-endian samples.
func RMS(frame []byte) float64 {
	n := len(frame) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(frame[2*i:])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}
