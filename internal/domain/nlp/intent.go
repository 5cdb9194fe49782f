package nlp

// Intent is the closed set of communicative goals the assistant understands.
// Routing switches on these values rather than raw strings so a new intent
// forces a conscious decision about its handler.
type Intent string

const (
	IntentGreet     Intent = "greet"
	IntentGoodbye   Intent = "goodbye"
	IntentHowAreYou Intent = "how_are_you"
	IntentThank     Intent = "thank"
	IntentName      Intent = "name"
	IntentHelp      Intent = "help"
	IntentJoke      Intent = "joke"
	IntentTime      Intent = "time"
	IntentDate      Intent = "date"

	IntentWebSearch Intent = "web_search"

	IntentReminderSet  Intent = "reminder_set"
	IntentReminderList Intent = "reminder_list"

	IntentLightOn        Intent = "light_on"
	IntentLightOff       Intent = "light_off"
	IntentTemperatureSet Intent = "temperature_set"
	IntentDeviceStatus   Intent = "device_status"

	IntentWeather     Intent = "weather"
	IntentWeatherCity Intent = "weather_city"

	IntentUnknown Intent = "unknown"
)

// IsWeather reports whether the intent asks about weather conditions.
func (i Intent) IsWeather() bool {
	return i == IntentWeather || i == IntentWeatherCity
}

// IsCanned reports whether the intent is answered from the canned response
// set (time and date are canned but computed from the clock).
func (i Intent) IsCanned() bool {
	switch i {
	case IntentGreet, IntentGoodbye, IntentHowAreYou, IntentThank,
		IntentName, IntentHelp, IntentJoke, IntentTime, IntentDate:
		return true
	}
	return false
}
