package config

import "time"

// DefaultConfig returns the configuration used when no file overrides are
// present. The audio constants mirror the tuning the assistant shipped with:
// 16 kHz mono capture, 32 ms frames, RMS threshold 500 on 16-bit samples,
// 800 ms of trailing silence to seal an utterance and a 15 s listen cap.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8000,
		},
		Web: WebConfig{
			Enabled:   true,
			Port:      8080,
			StaticDir: "./web",
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Audio: AudioConfig{
			SampleRate:      16000,
			FrameSize:       512,
			EnergyThreshold: 500,
			SilenceWindow:   800 * time.Millisecond,
			ListenTimeout:   15 * time.Second,
		},
		NLP: NLPConfig{
			ConfidenceThreshold: 0.4,
			Embedding: EmbeddingConfig{
				Model: "text-embedding-3-small",
			},
			Cache: CacheConfig{
				Driver: "memory",
				TTL:    time.Hour,
			},
		},
		ASR: ASRConfig{
			Type:  "openai",
			Model: "whisper-1",
		},
		TTS: TTSConfig{
			Enabled: true,
			Voice:   "en-US-AriaNeural",
		},
		Skills: SkillsConfig{
			Weather: WeatherConfig{
				BaseURL:     "https://api.openweathermap.org/data/2.5/weather",
				DefaultCity: "London",
				Units:       "metric",
				Timeout:     5 * time.Second,
			},
			Search: SearchConfig{
				BaseURL: "https://en.wikipedia.org",
				Timeout: 5 * time.Second,
			},
			SmartHome: SmartHomeConfig{
				Devices: map[string]DeviceConfig{
					"living_room_light": {Type: "light", State: "off"},
					"bedroom_light":     {Type: "light", State: "off"},
					"thermostat":        {Type: "thermostat", State: "off", Temperature: 20},
					"garage_door":       {Type: "door", State: "closed"},
				},
			},
		},
		Storage: StorageConfig{
			Dir:  "data",
			File: "smartface.db",
		},
	}
}
