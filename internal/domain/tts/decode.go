package tts

import (
	"bytes"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"

	platformerrors "smartface-server-go/internal/platform/errors"
)

// DecodePCM converts MP3 audio into 16-bit stereo PCM for clients that
// cannot play MP3 directly. Returns the samples and their rate.
func DecodePCM(data []byte) ([]byte, int, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, platformerrors.Wrap(platformerrors.KindAudio, "tts.decode", "open mp3 stream failed", err)
	}

	var pcm bytes.Buffer
	if _, err := io.Copy(&pcm, decoder); err != nil {
		return nil, 0, platformerrors.Wrap(platformerrors.KindAudio, "tts.decode", "decode mp3 stream failed", err)
	}
	return pcm.Bytes(), decoder.SampleRate(), nil
}
