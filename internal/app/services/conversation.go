package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"

	asrinter "smartface-server-go/internal/domain/asr/inter"
	"smartface-server-go/internal/domain/audio"
	audiointer "smartface-server-go/internal/domain/audio/inter"
	"smartface-server-go/internal/domain/eventbus"
	"smartface-server-go/internal/domain/nlp"
	"smartface-server-go/internal/domain/router"
	ttsinter "smartface-server-go/internal/domain/tts/inter"
	"smartface-server-go/internal/platform/logging"
)

// repromptText is spoken when an utterance transcribes to nothing.
const repromptText = "I didn't catch that. Please try again."

// exit phrases end the conversation even when classification misses goodbye.
var exitPhrases = map[string]bool{"exit": true, "quit": true, "stop": true}

// Turn is the outcome of one pipeline pass.
type Turn struct {
	SessionID  string       `json:"session_id"`
	Transcript string       `json:"transcript"`
	Intent     nlp.Intent   `json:"intent"`
	Confidence float64      `json:"confidence"`
	Entities   nlp.Entities `json:"entities,omitempty"`
	Response   string       `json:"response"`

	// Reprompt marks an empty transcript: the caller should ask the user
	// to repeat instead of treating Response as an answer.
	Reprompt bool `json:"reprompt,omitempty"`

	// Done marks a goodbye; the caller ends the interaction loop.
	Done bool `json:"done,omitempty"`
}

// Pipeline drives utterances through detection, transcription,
// classification and routing. One instance serves every session.
type Pipeline struct {
	detectorCfg audiointer.Config
	vadFactory  func() audiointer.VADProvider
	classifier  *nlp.Classifier
	extractor   *nlp.Extractor
	router      *router.Router
	asr         asrinter.Provider
	tts         ttsinter.Provider
	bus         evbus.Bus
	logger      *logging.Logger
	exchanges   atomic.Int64
}

func NewPipeline(
	detectorCfg audiointer.Config,
	vadFactory func() audiointer.VADProvider,
	classifier *nlp.Classifier,
	extractor *nlp.Extractor,
	route *router.Router,
	asr asrinter.Provider,
	tts ttsinter.Provider,
	bus evbus.Bus,
	logger *logging.Logger,
) *Pipeline {
	return &Pipeline{
		detectorCfg: detectorCfg,
		vadFactory:  vadFactory,
		classifier:  classifier,
		extractor:   extractor,
		router:      route,
		asr:         asr,
		tts:         tts,
		bus:         bus,
		logger:      logger,
	}
}

// NewSessionID mints an identifier for a fresh conversation.
func (p *Pipeline) NewSessionID() string {
	return uuid.NewString()
}

// Exchanges reports how many turns completed since startup.
func (p *Pipeline) Exchanges() int64 {
	return p.exchanges.Load()
}

// ProcessText runs the text half of the pipeline: classify, extract, route.
func (p *Pipeline) ProcessText(ctx context.Context, sessionID, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	turn := Turn{SessionID: sessionID, Transcript: text}
	if text == "" {
		turn.Response = repromptText
		turn.Reprompt = true
		return turn, nil
	}

	result, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return Turn{}, err
	}
	turn.Intent = result.Intent
	turn.Confidence = result.Confidence
	turn.Entities = p.extractor.Extract(text, result.Intent)

	p.logger.InfoTag("NLP", "intent %s (%.2f) for %q", turn.Intent, turn.Confidence, text)
	p.bus.Publish(eventbus.EventIntentClassified, eventbus.IntentEventData{
		SessionID:  sessionID,
		Text:       text,
		Intent:     turn.Intent,
		Confidence: turn.Confidence,
		Entities:   turn.Entities,
	})

	turn.Done = turn.Intent == nlp.IntentGoodbye || exitPhrases[strings.ToLower(text)]
	turn.Response = p.router.Route(ctx, turn.Intent, turn.Entities, text)

	p.exchanges.Add(1)
	p.bus.Publish(eventbus.EventResponseGenerated, eventbus.ResponseEventData{
		SessionID:  sessionID,
		Transcript: text,
		Intent:     turn.Intent,
		Confidence: turn.Confidence,
		Entities:   turn.Entities,
		Response:   turn.Response,
	})
	return turn, nil
}

// ProcessUtterance transcribes a sealed utterance and feeds the text through
// ProcessText. An empty transcript asks for a reprompt without routing.
func (p *Pipeline) ProcessUtterance(ctx context.Context, sessionID string, utt *audio.Utterance) (Turn, error) {
	wav, err := utt.WAV()
	if err != nil {
		return Turn{}, err
	}

	transcript, err := p.asr.Transcribe(ctx, wav)
	if err != nil {
		return Turn{}, err
	}
	p.bus.Publish(eventbus.EventTranscript, eventbus.TranscriptEventData{
		SessionID: sessionID,
		Text:      transcript,
	})

	if strings.TrimSpace(transcript) == "" {
		p.logger.InfoTag("ASR", "empty transcript for %d frames", utt.FrameCount())
		return Turn{SessionID: sessionID, Response: repromptText, Reprompt: true}, nil
	}
	return p.ProcessText(ctx, sessionID, transcript)
}

// Synthesize renders a spoken reply, or nil when TTS is disabled.
func (p *Pipeline) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if p.tts == nil || text == "" {
		return nil, nil
	}
	return p.tts.Synthesize(ctx, text)
}

// Run loops over a frame stream: detect an utterance, process it, emit the
// turn. It returns nil when the stream ends, the user says goodbye, or ctx
// is cancelled.
func (p *Pipeline) Run(ctx context.Context, sessionID string, source audiointer.FrameSource, emit func(Turn) error) error {
	detector := audio.NewEndpointDetector(p.detectorCfg, p.vadFactory())

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		utt, err := detector.Detect(ctx, source)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if utt == nil {
			// Listen window elapsed without speech; keep listening.
			continue
		}

		p.logger.InfoTag("Audio", "utterance sealed: %d frames, %v", utt.FrameCount(), utt.Duration())
		p.bus.Publish(eventbus.EventUtteranceCaptured, eventbus.UtteranceEventData{
			SessionID:  sessionID,
			Frames:     utt.FrameCount(),
			DurationMS: float64(utt.Duration().Microseconds()) / 1000,
		})

		turn, err := p.ProcessUtterance(ctx, sessionID, utt)
		if err != nil {
			return err
		}
		if err := emit(turn); err != nil {
			return err
		}
		if turn.Done {
			p.bus.Publish(eventbus.EventSessionClosed, sessionID)
			return nil
		}
	}
}
