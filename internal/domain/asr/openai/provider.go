package openai

import (
	"bytes"
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
)

// Provider transcribes speech through the Whisper API.
type Provider struct {
	client *openai.Client
	model  string
}

func New(cfg config.ASRConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "asr.new", "asr api key required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &Provider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (p *Provider) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", nil
	}
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: "utterance.wav",
		Reader:   bytes.NewReader(wav),
	})
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.KindNLP, "asr.transcribe", "transcription request failed", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
