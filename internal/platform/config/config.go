package config

import (
	"time"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
	Audio   AudioConfig   `yaml:"audio"`
	NLP     NLPConfig     `yaml:"nlp"`
	ASR     ASRConfig     `yaml:"asr"`
	TTS     TTSConfig     `yaml:"tts"`
	Skills  SkillsConfig  `yaml:"skills"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig addresses the websocket voice transport.
type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

// WebConfig addresses the HTTP API server.
type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// AudioConfig tunes the endpoint detector. SilenceWindow and ListenTimeout
// are elapsed-time durations; the detector converts SilenceWindow into a
// frame count using FrameDuration, so changing FrameSize does not silently
// change how much trailing silence ends an utterance.
type AudioConfig struct {
	SampleRate      int           `yaml:"sample_rate"`
	FrameSize       int           `yaml:"frame_size"` // samples per frame
	EnergyThreshold float64       `yaml:"energy_threshold"`
	SilenceWindow   time.Duration `yaml:"silence_window"`
	ListenTimeout   time.Duration `yaml:"listen_timeout"`
}

// FrameDuration returns the wall-clock span of one frame.
func (c AudioConfig) FrameDuration() time.Duration {
	if c.SampleRate <= 0 || c.FrameSize <= 0 {
		return 0
	}
	return time.Duration(c.FrameSize) * time.Second / time.Duration(c.SampleRate)
}

type NLPConfig struct {
	ConfidenceThreshold float64         `yaml:"confidence_threshold"`
	Embedding           EmbeddingConfig `yaml:"embedding"`
	Cache               CacheConfig     `yaml:"cache"`
}

type EmbeddingConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"url"`
	Model   string `yaml:"model"`
}

// CacheConfig selects the embedding-vector cache backend.
type CacheConfig struct {
	Driver string           `yaml:"driver"` // memory | redis | none
	TTL    time.Duration    `yaml:"ttl"`
	Redis  RedisCacheConfig `yaml:"redis"`
}

type RedisCacheConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type ASRConfig struct {
	Type    string `yaml:"type"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"url"`
	Model   string `yaml:"model"`
}

type TTSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Voice   string `yaml:"voice"`
}

type SkillsConfig struct {
	Weather   WeatherConfig   `yaml:"weather"`
	Search    SearchConfig    `yaml:"search"`
	SmartHome SmartHomeConfig `yaml:"smart_home"`
}

type WeatherConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"url"`
	DefaultCity string        `yaml:"default_city"`
	Units       string        `yaml:"units"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SearchConfig struct {
	BaseURL string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SmartHomeConfig struct {
	Devices map[string]DeviceConfig `yaml:"devices"`
}

type DeviceConfig struct {
	Type        string `yaml:"type"`
	State       string `yaml:"state"`
	Brightness  int    `yaml:"brightness,omitempty"`
	Temperature int    `yaml:"temperature,omitempty"`
}

type StorageConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}
