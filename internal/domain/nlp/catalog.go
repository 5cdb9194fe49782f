package nlp

// Catalog maps each intent to its labeled example phrases. Iteration order is
// insertion order, which makes classification ties deterministic.
type Catalog struct {
	order    []Intent
	examples map[Intent][]string
}

func NewCatalog() *Catalog {
	return &Catalog{examples: make(map[Intent][]string)}
}

// Add appends examples to an existing or new intent.
func (c *Catalog) Add(intent Intent, examples []string) {
	if _, ok := c.examples[intent]; !ok {
		c.order = append(c.order, intent)
	}
	c.examples[intent] = append(c.examples[intent], examples...)
}

// Examples returns the phrases registered for an intent.
func (c *Catalog) Examples(intent Intent) []string {
	return c.examples[intent]
}

// Intents returns the intents in stable registration order.
func (c *Catalog) Intents() []Intent {
	return c.order
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// DefaultCatalog returns the assistant's built-in intent examples.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Add(IntentGreet, []string{
		"hello", "hi", "hey", "good morning", "good afternoon",
		"good evening", "greetings", "howdy", "what's up", "yo",
	})
	c.Add(IntentGoodbye, []string{
		"bye", "goodbye", "see you", "farewell", "take care",
		"see you later", "catch you later", "gotta go", "bye bye",
	})
	c.Add(IntentHowAreYou, []string{
		"how are you", "how are you doing", "how do you feel",
		"are you ok", "what's up with you", "how's it going",
	})
	c.Add(IntentThank, []string{
		"thank you", "thanks", "thank you very much", "thanks a lot",
		"appreciate it", "cheers", "thx",
	})
	c.Add(IntentTime, []string{
		"what time is it", "current time", "tell me the time",
		"what's the time", "time please", "do you have the time",
	})
	c.Add(IntentDate, []string{
		"what's the date", "what day is it", "tell me the date",
		"what's today's date", "current date",
	})
	c.Add(IntentJoke, []string{
		"tell me a joke", "make me laugh", "say something funny",
		"do you know any jokes", "joke please", "tell a joke",
	})
	c.Add(IntentName, []string{
		"what's your name", "who are you", "your name please",
		"what should I call you", "introduce yourself", "tell me your name",
	})
	c.Add(IntentHelp, []string{
		"help me", "what can you do", "your capabilities",
		"how do you work", "what are your features", "help",
	})
	c.Add(IntentWebSearch, []string{
		"search for", "look up", "find information about",
		"google", "search the web", "what is", "who is",
		"tell me about", "search wikipedia",
	})
	c.Add(IntentReminderSet, []string{
		"remind me", "set a reminder", "create reminder",
		"don't let me forget", "reminder to", "remember to",
	})
	c.Add(IntentReminderList, []string{
		"list reminders", "show reminders", "what are my reminders",
		"do I have any reminders", "my reminders",
	})
	c.Add(IntentLightOn, []string{
		"turn on the light", "turn on light", "lights on",
		"switch on the light", "enable light", "light on",
		"turn the light on", "turn lights on", "switch lights on",
		"turn on living room light", "turn on bedroom light",
	})
	c.Add(IntentLightOff, []string{
		"turn off the light", "turn off light", "lights off",
		"switch off the light", "disable light", "light off",
		"turn the light off", "turn lights off", "switch lights off",
		"turn off living room light", "turn off bedroom light",
	})
	c.Add(IntentTemperatureSet, []string{
		"set temperature", "change temperature", "adjust temperature",
		"make it warmer", "make it cooler", "set thermostat",
	})
	c.Add(IntentDeviceStatus, []string{
		"device status", "what's the status", "are lights on",
		"check devices", "home status", "show devices",
	})
	c.Add(IntentWeather, []string{
		"what's the weather", "how's the weather", "is it raining",
		"will it rain today", "weather forecast", "temperature outside",
		"is it sunny", "weather today", "will it snow", "what's the temperature",
		"how hot is it", "how cold is it", "weather in", "forecast for",
		"tell me the weather", "check the weather", "weather conditions",
		"is it going to rain", "will it be sunny", "weather tomorrow",
		"three day forecast", "weekly weather", "weather report",
	})
	c.Add(IntentWeatherCity, []string{
		"weather in Paris", "temperature in London",
		"what's the weather in New York", "weather in Tokyo",
		"how's the weather in Berlin", "temperature in Mumbai",
	})

	return c
}
