package eventbus

import "smartface-server-go/internal/domain/nlp"

// Pipeline topics.
const (
	EventUtteranceCaptured = "audio:utterance"
	EventTranscript        = "asr:transcript"
	EventIntentClassified  = "nlp:intent"
	EventResponseGenerated = "router:response"
	EventSessionClosed     = "session:closed"
)

// UtteranceEventData describes a sealed utterance leaving the detector.
type UtteranceEventData struct {
	SessionID  string  `json:"session_id"`
	Frames     int     `json:"frames"`
	DurationMS float64 `json:"duration_ms"`
}

// TranscriptEventData carries the recognized text for one utterance.
type TranscriptEventData struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// IntentEventData carries a classification outcome.
type IntentEventData struct {
	SessionID  string       `json:"session_id"`
	Text       string       `json:"text"`
	Intent     nlp.Intent   `json:"intent"`
	Confidence float64      `json:"confidence"`
	Entities   nlp.Entities `json:"entities,omitempty"`
}

// ResponseEventData carries the routed response for one turn.
type ResponseEventData struct {
	SessionID  string       `json:"session_id"`
	Transcript string       `json:"transcript"`
	Intent     nlp.Intent   `json:"intent"`
	Confidence float64      `json:"confidence"`
	Entities   nlp.Entities `json:"entities,omitempty"`
	Response   string       `json:"response"`
}
