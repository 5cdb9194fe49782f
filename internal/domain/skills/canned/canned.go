package canned

import (
	"math/rand"
	"sync"
	"time"

	"smartface-server-go/internal/domain/nlp"
)

// Responder answers conversational intents from fixed response sets. Time
// and date are computed from the clock instead of drawn from a list.
type Responder struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	now       func() time.Time
	responses map[nlp.Intent][]string
}

type Option func(*Responder)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

// WithSeed makes response selection deterministic.
func WithSeed(seed int64) Option {
	return func(r *Responder) { r.rnd = rand.New(rand.NewSource(seed)) }
}

func New(opts ...Option) *Responder {
	r := &Responder{
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		responses: defaultResponses(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond returns a reply for the intent. Intents without a response set
// fall through to the unknown set, so the caller always gets text back.
func (r *Responder) Respond(intent nlp.Intent) string {
	switch intent {
	case nlp.IntentTime:
		return "The current time is " + r.now().Format("03:04 PM")
	case nlp.IntentDate:
		return "Today is " + r.now().Format("Monday, January 02, 2006")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.responses[intent]; ok && len(set) > 0 {
		return set[r.rnd.Intn(len(set))]
	}
	set := r.responses[nlp.IntentUnknown]
	return set[r.rnd.Intn(len(set))]
}

// Unknown returns a generic didn't-understand reply.
func (r *Responder) Unknown() string {
	return r.Respond(nlp.IntentUnknown)
}

// Add registers an extra response option for an intent.
func (r *Responder) Add(intent nlp.Intent, response string) {
	r.mu.Lock()
	r.responses[intent] = append(r.responses[intent], response)
	r.mu.Unlock()
}

func defaultResponses() map[nlp.Intent][]string {
	return map[nlp.Intent][]string{
		nlp.IntentGreet: {
			"Hello! How can I help you today?",
			"Hi there! What can I do for you?",
			"Hey! Nice to hear from you!",
			"Greetings! How may I assist you?",
			"Hello! I'm here to help!",
		},
		nlp.IntentGoodbye: {
			"Goodbye! Have a great day!",
			"See you later! Take care!",
			"Bye! Come back soon!",
			"Farewell! Stay safe!",
			"Take care! See you next time!",
		},
		nlp.IntentHowAreYou: {
			"I'm doing great, thank you for asking! How are you?",
			"I'm excellent! Always ready to help. How about you?",
			"I'm functioning perfectly! What can I do for you?",
			"I'm wonderful, thanks! How can I assist you today?",
		},
		nlp.IntentThank: {
			"You're welcome!",
			"Happy to help!",
			"My pleasure!",
			"Anytime!",
			"Glad I could help!",
		},
		nlp.IntentName: {
			"I'm SmartFace, your voice assistant!",
			"You can call me SmartFace. I'm here to help!",
			"My name is SmartFace. Nice to meet you!",
			"I'm SmartFace, your personal assistant!",
		},
		nlp.IntentHelp: {
			"I can help you with: conversations, web searches, setting reminders, and controlling smart home devices. Just ask!",
			"I can search the web, set reminders, control lights and temperature, and chat with you. What would you like to do?",
			"My capabilities include: answering questions, web searches, reminders, and smart home control. How can I help?",
		},
		nlp.IntentJoke: {
			"Why don't scientists trust atoms? Because they make up everything!",
			"What do you call a bear with no teeth? A gummy bear!",
			"Why did the scarecrow win an award? He was outstanding in his field!",
			"What do you call a fake noodle? An impasta!",
			"Why don't eggs tell jokes? They'd crack each other up!",
			"What did the ocean say to the beach? Nothing, it just waved!",
			"Why can't a bicycle stand on its own? It's two tired!",
		},
		nlp.IntentUnknown: {
			"I'm not sure I understood that. Could you rephrase?",
			"Sorry, I didn't quite catch that. Can you say it differently?",
			"I'm still learning. Could you try asking in another way?",
			"Hmm, I'm not sure about that. What else can I help with?",
			"I didn't understand that. Try asking me about the weather, time, or setting a reminder.",
		},
	}
}
