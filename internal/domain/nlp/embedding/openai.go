package embedding

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	platformerrors "smartface-server-go/internal/platform/errors"
)

// Config carries the embedding API connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI calls the embeddings endpoint of an OpenAI-compatible API.
type OpenAI struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAI builds the embedding client. BaseURL may point at any
// OpenAI-compatible server.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "embedding.new", "embedding api key required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(model),
	}, nil
}

// Embed returns one vector per input text, in input order.
func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: o.model,
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindNLP, "embedding.embed", "embedding request failed", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, platformerrors.New(platformerrors.KindNLP, "embedding.embed", "embedding response count mismatch")
	}
	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
