package router

import (
	"context"
	"fmt"
	"strings"

	"smartface-server-go/internal/domain/nlp"
	"smartface-server-go/internal/platform/logging"
)

// maxResponseLen caps spoken search answers. Longer results are cut at the
// first paragraph boundary inside the cap, or hard-truncated at the cap.
const maxResponseLen = 300

// Canned supplies responses for conversational intents.
type Canned interface {
	Respond(intent nlp.Intent) string
	Unknown() string
}

// Searcher answers free-form queries.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Reminders manages the reminder store.
type Reminders interface {
	Add(ctx context.Context, text string) (string, error)
	List(ctx context.Context) (string, error)
}

// SmartHome controls the simulated devices.
type SmartHome interface {
	TurnOnLight(room string) string
	TurnOffLight(room string) string
	SetTemperature(temperature int) string
	Status() string
}

// Weather answers weather questions.
type Weather interface {
	Handle(ctx context.Context, entities nlp.Entities, text string) (string, error)
}

// Router is the single dispatch point from a classified intent to response
// text. Collaborator failures never escape it; they become apologies.
type Router struct {
	canned    Canned
	search    Searcher
	reminders Reminders
	home      SmartHome
	weather   Weather
	logger    *logging.Logger
}

func New(canned Canned, search Searcher, reminders Reminders, home SmartHome, weather Weather, logger *logging.Logger) *Router {
	return &Router{
		canned:    canned,
		search:    search,
		reminders: reminders,
		home:      home,
		weather:   weather,
		logger:    logger,
	}
}

// Route maps one classified turn to response text. It always returns
// something speakable.
func (r *Router) Route(ctx context.Context, intent nlp.Intent, entities nlp.Entities, text string) string {
	// Question-shaped unknowns are upgraded to searches before dispatch.
	if intent == nlp.IntentUnknown && entities.LikelySearch() {
		r.logger.DebugTag("Router", "question pattern detected, treating %q as web search", text)
		intent = nlp.IntentWebSearch
	}

	switch {
	case intent.IsCanned():
		return r.canned.Respond(intent)

	case intent == nlp.IntentWebSearch:
		return r.routeSearch(ctx, entities, text)

	case intent == nlp.IntentReminderSet:
		reminderText, _ := entities.ReminderText()
		if strings.TrimSpace(reminderText) == "" {
			return "What would you like me to remind you about?"
		}
		return r.collaborate(func() (string, error) {
			return r.reminders.Add(ctx, reminderText)
		})

	case intent == nlp.IntentReminderList:
		return r.collaborate(func() (string, error) {
			return r.reminders.List(ctx)
		})

	case intent == nlp.IntentLightOn:
		room, _ := entities.Room()
		return r.collaborate(func() (string, error) {
			return r.home.TurnOnLight(room), nil
		})

	case intent == nlp.IntentLightOff:
		room, _ := entities.Room()
		return r.collaborate(func() (string, error) {
			return r.home.TurnOffLight(room), nil
		})

	case intent == nlp.IntentTemperatureSet:
		number, ok := entities.Number()
		if !ok {
			return "What temperature would you like to set?"
		}
		return r.collaborate(func() (string, error) {
			return r.home.SetTemperature(number), nil
		})

	case intent == nlp.IntentDeviceStatus:
		return r.collaborate(func() (string, error) {
			return r.home.Status(), nil
		})

	case intent.IsWeather():
		return r.collaborate(func() (string, error) {
			return r.weather.Handle(ctx, entities, text)
		})
	}

	// Unknown without a question shape. If the extractor still found a
	// query, offer to search it instead of shrugging.
	if query, ok := entities.Query(); ok && strings.TrimSpace(query) != "" {
		return fmt.Sprintf("I'm not sure what you're asking, but I can search for information. Would you like me to search for '%s'?", query)
	}
	return r.canned.Unknown()
}

func (r *Router) routeSearch(ctx context.Context, entities nlp.Entities, text string) string {
	query, _ := entities.Query()
	if strings.TrimSpace(query) == "" {
		query = strings.TrimSpace(text)
	}
	if query == "" {
		return "What would you like me to search for?"
	}

	result := r.collaborate(func() (string, error) {
		return r.search.Search(ctx, query)
	})
	return truncate(result, maxResponseLen)
}

// collaborate runs a skill call and converts any failure, including a panic,
// into an apology so the conversation driver never sees a collaborator error.
func (r *Router) collaborate(call func() (string, error)) (response string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorTag("Router", "skill call panicked: %v", rec)
			response = "Sorry, I ran into a problem with that request. Please try again."
		}
	}()
	var err error
	response, err = call()
	if err != nil {
		r.logger.ErrorTag("Router", "skill call failed: %v", err)
		return "Sorry, I ran into a problem with that request. Please try again."
	}
	return response
}

// truncate cuts text at the first paragraph boundary inside the cap when one
// exists, otherwise hard-truncates at the cap.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	if idx := strings.Index(text, "\n\n"); idx >= 0 && idx <= limit {
		return text[:idx]
	}
	return text[:limit]
}
