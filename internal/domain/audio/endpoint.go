package audio

import (
	"context"
	"errors"
	"io"
	"time"

	"smartface-server-go/internal/domain/audio/inter"
	platformerrors "smartface-server-go/internal/platform/errors"
)

type detectorState int

const (
	stateIdle detectorState = iota
	stateSpeaking
	stateDone
)

// EndpointDetector turns a raw frame stream into discrete utterances. It is
// a single-pass state machine: IDLE until the VAD reports speech, SPEAKING
// while accumulating, DONE once the silence window elapses or the listen
// timeout fires. One Detect call handles one utterance; the detector itself
// is reusable but not concurrency-safe.
type EndpointDetector struct {
	cfg inter.Config
	vad inter.VADProvider
}

func NewEndpointDetector(cfg inter.Config, vad inter.VADProvider) *EndpointDetector {
	return &EndpointDetector{cfg: cfg, vad: vad}
}

// Detect consumes frames from the source until an utterance is sealed or the
// listen timeout elapses. It returns (nil, nil) when no speech was observed
// before the timeout and io.EOF when the stream ended without any speech, so
// callers looping over a finite stream know when to stop. A source read
// failure is returned as an audio-kind error, never conflated with silence,
// while caller cancellation comes back as the context error itself.
// Detect blocks at most ListenTimeout plus one frame-read latency.
func (d *EndpointDetector) Detect(ctx context.Context, source inter.FrameSource) (*Utterance, error) {
	d.vad.Reset()

	silenceBudget := d.cfg.SilenceFrames()
	deadline := time.Now().Add(d.cfg.ListenTimeout)

	readCtx, cancel := context.WithDeadline(ctx, deadline.Add(d.cfg.FrameDuration()))
	defer cancel()

	utterance := NewUtterance(d.cfg.SampleRate)
	state := stateIdle
	silenceRun := 0
	exhausted := false

	for state != stateDone {
		if time.Now().After(deadline) {
			break
		}

		frame, err := source.ReadFrame(readCtx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			// Clean end of stream: whatever speech we have is the utterance.
			exhausted = true
			state = stateDone
			continue
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			// Our own read deadline, equivalent to the listen timeout.
			state = stateDone
			continue
		default:
			// A cancelled caller is not a broken source. Hand the context
			// error back untouched so callers can match on it.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, platformerrors.Wrap(platformerrors.KindAudio, "detect",
				"frame source read failed", err)
		}

		speech, err := d.vad.IsSpeech(frame)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindAudio, "detect",
				"voice activity check failed", err)
		}

		switch state {
		case stateIdle:
			if speech {
				state = stateSpeaking
				utterance.AppendFrame(frame)
			}
		case stateSpeaking:
			if speech {
				silenceRun = 0
				utterance.AppendFrame(frame)
				continue
			}
			silenceRun++
			if silenceRun > silenceBudget {
				state = stateDone
				continue
			}
			utterance.AppendFrame(frame)
		}
	}

	if utterance.Empty() {
		if exhausted {
			return nil, io.EOF
		}
		return nil, nil
	}
	return utterance, nil
}
