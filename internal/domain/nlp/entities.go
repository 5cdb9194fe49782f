package nlp

import (
	"regexp"
	"strconv"
	"strings"
)

// Well-known entity slot names. Absence of a key means "not found"; handlers
// must never rely on a zero value standing in for a missing slot.
const (
	SlotRoom         = "room"
	SlotNumber       = "number"
	SlotQuery        = "query"
	SlotLikelySearch = "likely_search"
	SlotCity         = "city"
	SlotForecast     = "forecast"
	SlotReminderText = "reminder_text"
)

// Entities maps slot names to extracted values (string, int or bool).
type Entities map[string]any

func (e Entities) Room() (string, bool) {
	v, ok := e[SlotRoom].(string)
	return v, ok
}

func (e Entities) Number() (int, bool) {
	v, ok := e[SlotNumber].(int)
	return v, ok
}

func (e Entities) Query() (string, bool) {
	v, ok := e[SlotQuery].(string)
	return v, ok
}

// LikelySearch reports whether an unknown-intent text looked like a question
// and should be upgraded to a search before routing.
func (e Entities) LikelySearch() bool {
	v, _ := e[SlotLikelySearch].(bool)
	return v
}

func (e Entities) City() (string, bool) {
	v, ok := e[SlotCity].(string)
	return v, ok
}

// Forecast reports the forward-looking weather flag. The second return is
// false for non-weather intents, where the slot is never populated.
func (e Entities) Forecast() (bool, bool) {
	v, ok := e[SlotForecast].(bool)
	return v, ok
}

func (e Entities) ReminderText() (string, bool) {
	v, ok := e[SlotReminderText].(string)
	return v, ok
}

var (
	rooms = []string{"living room", "bedroom", "kitchen", "bathroom", "garage"}

	questionWords = []string{
		"what", "who", "where", "when", "why", "how", "tell me about", "search",
	}

	searchPhrases = []string{
		"search for", "look up", "find", "what is", "who is",
		"tell me about", "google", "search", "what are",
		"who are", "where is", "when is", "why is", "how is",
	}

	cities = []string{
		"mohali", "chandigarh", "delhi", "mumbai", "bangalore",
		"hyderabad", "chennai", "kolkata", "pune", "ahmedabad",
		"jaipur", "lucknow", "kanpur", "nagpur", "indore",
		"paris", "london", "new york", "tokyo", "beijing",
		"sydney", "toronto", "berlin", "madrid", "rome",
	}

	forecastKeywords = []string{
		"tomorrow", "forecast", "next", "week", "coming",
		"three day", "3 day", "weekly", "upcoming", "future",
	}

	reminderPatterns = []string{
		"remind me to", "remind me", "reminder to",
		"don't let me forget to", "remember to",
	}

	digitsRe        = regexp.MustCompile(`\d+`)
	searchPhraseRes = compileSearchPhrases()
)

func compileSearchPhrases() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(searchPhrases))
	for i, phrase := range searchPhrases {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	}
	return res
}

// extractorRule populates zero or more slots when its gate admits the intent.
type extractorRule struct {
	name    string
	applies func(intent Intent, lower string) bool
	extract func(text, lower string, intent Intent, out Entities)
}

// Extractor pulls structured slots out of raw text using deterministic rules
// conditioned on the already-decided intent. Rules run in registration order
// and each one only writes its own slots.
type Extractor struct {
	rules []extractorRule
}

func NewExtractor() *Extractor {
	return &Extractor{rules: []extractorRule{
		{
			name:    "room",
			applies: func(Intent, string) bool { return true },
			extract: func(_, lower string, _ Intent, out Entities) {
				for _, room := range rooms {
					if strings.Contains(lower, room) {
						out[SlotRoom] = room
						return
					}
				}
			},
		},
		{
			name:    "number",
			applies: func(Intent, string) bool { return true },
			extract: func(text, _ string, _ Intent, out Entities) {
				match := digitsRe.FindString(text)
				if match == "" {
					return
				}
				if n, err := strconv.Atoi(match); err == nil {
					out[SlotNumber] = n
				}
			},
		},
		{
			name: "query",
			applies: func(intent Intent, lower string) bool {
				return intent == IntentWebSearch || intent == IntentUnknown || looksLikeQuestion(lower)
			},
			extract: func(text, lower string, intent Intent, out Entities) {
				query := text
				for _, re := range searchPhraseRes {
					query = re.ReplaceAllString(query, "")
				}
				out[SlotQuery] = strings.TrimSpace(query)
				if intent == IntentUnknown && looksLikeQuestion(lower) {
					out[SlotLikelySearch] = true
				}
			},
		},
		{
			name:    "weather",
			applies: func(intent Intent, _ string) bool { return intent.IsWeather() },
			extract: func(_, lower string, _ Intent, out Entities) {
				for _, city := range cities {
					if strings.Contains(lower, city) {
						out[SlotCity] = titleCase(city)
						break
					}
				}
				out[SlotForecast] = containsAny(lower, forecastKeywords)
			},
		},
		{
			name:    "reminder",
			applies: func(intent Intent, _ string) bool { return intent == IntentReminderSet },
			extract: func(text, lower string, _ Intent, out Entities) {
				for _, pattern := range reminderPatterns {
					if idx := strings.Index(lower, pattern); idx >= 0 {
						out[SlotReminderText] = strings.TrimSpace(text[idx+len(pattern):])
						return
					}
				}
				// Never leave the handler without something to store.
				out[SlotReminderText] = text
			},
		},
	}}
}

// Extract runs every applicable rule against the text.
func (e *Extractor) Extract(text string, intent Intent) Entities {
	lower := strings.ToLower(text)
	out := make(Entities)
	for _, rule := range e.rules {
		if rule.applies(intent, lower) {
			rule.extract(text, lower, intent, out)
		}
	}
	return out
}

func looksLikeQuestion(lower string) bool {
	return containsAny(lower, questionWords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
