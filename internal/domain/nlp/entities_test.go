package nlp

import (
	"reflect"
	"testing"
)

func TestExtractExactSlots(t *testing.T) {
	ex := NewExtractor()

	tests := []struct {
		name   string
		text   string
		intent Intent
		want   Entities
	}{
		{
			name:   "room for light intent",
			text:   "turn on the bedroom light",
			intent: IntentLightOn,
			want:   Entities{SlotRoom: "bedroom"},
		},
		{
			name:   "number for temperature intent",
			text:   "set temperature to 72",
			intent: IntentTemperatureSet,
			want:   Entities{SlotNumber: 72},
		},
		{
			name:   "weather city and forecast flag",
			text:   "weather in new york tomorrow",
			intent: IntentWeather,
			want:   Entities{SlotCity: "New York", SlotForecast: true},
		},
		{
			name:   "weather without city defaults forecast false",
			text:   "is it raining",
			intent: IntentWeather,
			want:   Entities{SlotForecast: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ex.Extract(tt.text, tt.intent)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Extract(%q, %s) = %v, want %v", tt.text, tt.intent, got, tt.want)
			}
		})
	}
}

func TestExtractQuery(t *testing.T) {
	ex := NewExtractor()

	got := ex.Extract("search for golang tutorials", IntentWebSearch)
	if q, _ := got.Query(); q != "golang tutorials" {
		t.Fatalf("query = %q, want %q", q, "golang tutorials")
	}
	if got.LikelySearch() {
		t.Fatalf("likely_search must stay unset for a classified search intent")
	}

	got = ex.Extract("What is Quantum Computing", IntentUnknown)
	if q, _ := got.Query(); q != "Quantum Computing" {
		t.Fatalf("query = %q, want original casing preserved", q)
	}
	if !got.LikelySearch() {
		t.Fatalf("expected likely_search for question-shaped unknown text")
	}

	// Whole-word stripping must not eat substrings of larger words.
	got = ex.Extract("googled something", IntentWebSearch)
	if q, _ := got.Query(); q != "googled something" {
		t.Fatalf("query = %q, phrase stripping matched inside a word", q)
	}
}

func TestExtractReminderText(t *testing.T) {
	ex := NewExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"remind me to buy milk", "buy milk"},
		{"Remind Me To water the plants", "water the plants"},
		{"don't let me forget to call mom", "call mom"},
		{"pick up the laundry", "pick up the laundry"},
	}
	for _, tt := range tests {
		got := ex.Extract(tt.text, IntentReminderSet)
		if r, ok := got.ReminderText(); !ok || r != tt.want {
			t.Errorf("Extract(%q) reminder_text = %q, want %q", tt.text, r, tt.want)
		}
	}
}

func TestExtractGatedSlots(t *testing.T) {
	ex := NewExtractor()

	// Forecast and city only exist under weather intents.
	got := ex.Extract("lights off in the kitchen tomorrow", IntentLightOff)
	if _, ok := got.Forecast(); ok {
		t.Fatalf("forecast slot leaked into non-weather intent: %v", got)
	}
	if _, ok := got.City(); ok {
		t.Fatalf("city slot leaked into non-weather intent: %v", got)
	}
	if room, _ := got.Room(); room != "kitchen" {
		t.Fatalf("room = %q, want kitchen", room)
	}

	// Reminder text only exists under reminder_set.
	got = ex.Extract("remind me to stretch", IntentGreet)
	if _, ok := got.ReminderText(); ok {
		t.Fatalf("reminder_text slot leaked into non-reminder intent: %v", got)
	}
}

func TestExtractRoomPrecedence(t *testing.T) {
	ex := NewExtractor()

	// "living room" is matched before "bedroom" regardless of position.
	got := ex.Extract("move it from the bedroom to the living room", IntentDeviceStatus)
	if room, _ := got.Room(); room != "living room" {
		t.Fatalf("room = %q, want living room (first in scan order)", room)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("new york"); got != "New York" {
		t.Fatalf("titleCase = %q", got)
	}
	if got := titleCase("paris"); got != "Paris" {
		t.Fatalf("titleCase = %q", got)
	}
}
