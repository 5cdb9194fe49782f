package edge

import (
	"context"

	"github.com/wujunwei928/edge-tts-go/edge_tts"

	"smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
)

// Provider synthesizes speech through the Edge TTS service.
type Provider struct {
	voice string
}

func New(cfg config.TTSConfig) *Provider {
	voice := cfg.Voice
	if voice == "" {
		voice = "en-US-AriaNeural"
	}
	return &Provider{voice: voice}
}

// Synthesize returns MP3 audio for the text. The communicator is built per
// call; the underlying library keeps no reusable connection.
func (p *Provider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}
	communicate, err := edge_tts.NewCommunicate(text, edge_tts.SetVoice(p.voice))
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSkill, "tts.synthesize", "create tts communicator failed", err)
	}

	audio, err := communicate.Stream()
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSkill, "tts.synthesize", "speech synthesis failed", err)
	}
	return audio, nil
}
