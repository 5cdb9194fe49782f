package inter

import "context"

// Provider turns a WAV-encoded utterance into text. An empty transcript with
// a nil error means the audio contained no recognizable speech.
type Provider interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}
