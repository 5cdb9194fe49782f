package inter

import "context"

// Provider renders response text into MP3 audio.
type Provider interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
