package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"smartface-server-go/internal/domain/nlp"
	"smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
)

func TestCityFromText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		entities nlp.Entities
		want     string
	}{
		{"entity wins", "weather in Paris", nlp.Entities{nlp.SlotCity: "Tokyo"}, "Tokyo"},
		{"in pattern", "what's the weather in New York today", nlp.Entities{}, "New York"},
		{"for pattern", "forecast for London", nlp.Entities{}, "London"},
		{"no city", "what's the weather", nlp.Entities{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cityFromText(tt.text, tt.entities); got != tt.want {
				t.Fatalf("cityFromText = %q, want %q", got, tt.want)
			}
		})
	}
}

const sampleConditions = `{
	"name": "Berlin",
	"sys": {"country": "DE"},
	"main": {"temp": 11.4, "feels_like": 7.8, "temp_min": 9.0, "temp_max": 14.0, "humidity": 81},
	"weather": [{"description": "light rain"}],
	"wind": {"speed": 7.2}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.WeatherConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		DefaultCity: "Berlin",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestClientHandleFormatsConditions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Berlin" {
			t.Errorf("unexpected city query: %q", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("api key not forwarded")
		}
		w.Write([]byte(sampleConditions))
	})

	got, err := c.Handle(context.Background(), nlp.Entities{}, "what's the weather")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	for _, want := range []string{
		"In Berlin, DE, it's currently 11 degrees Celsius with light rain.",
		"It feels like 8 degrees.",
		"Today's high is 14 and low is 9 degrees.",
		"Humidity is quite high at 81 percent.",
		"It's windy with speeds of 26 kilometers per hour.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("response missing %q:\n%s", want, got)
		}
	}
}

func TestDefaultBaseURLNamesWeatherEndpoint(t *testing.T) {
	def := config.DefaultConfig().Skills.Weather
	parsed, err := url.Parse(def.BaseURL)
	if err != nil {
		t.Fatalf("default base url unparseable: %v", err)
	}

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(sampleConditions))
	}))
	t.Cleanup(srv.Close)

	// fetch appends only query parameters to the base URL, so the default
	// must already name the current-weather endpoint.
	c, err := NewClient(config.WeatherConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL + parsed.Path,
		DefaultCity: "Berlin",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if _, err := c.Handle(context.Background(), nlp.Entities{}, "what's the weather"); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if gotPath != "/data/2.5/weather" {
		t.Fatalf("request path = %q, want /data/2.5/weather", gotPath)
	}
}

func TestClientHandleUnknownCity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := c.Handle(context.Background(), nlp.Entities{nlp.SlotCity: "Nowhere"}, "weather in Nowhere")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if !strings.Contains(got, "couldn't get weather information for Nowhere") {
		t.Fatalf("unknown city response = %q", got)
	}
}

func TestClientHandleServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Handle(context.Background(), nlp.Entities{}, "what's the weather")
	if err == nil {
		t.Fatal("expected error for server failure")
	}
	if !platformerrors.IsKind(err, platformerrors.KindSkill) {
		t.Fatalf("expected skill error kind, got %v", err)
	}
}

func TestOfflineHandle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/Madrid") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte("Madrid: ☀️ +31°C\n"))
	}))
	defer srv.Close()

	o := NewOffline(config.WeatherConfig{DefaultCity: "Madrid"})
	o.baseURL = srv.URL

	got, err := o.Handle(context.Background(), nlp.Entities{}, "how's the weather")
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if got != "The weather is: Madrid: ☀️ +31 degrees Celsius" {
		t.Fatalf("offline response = %q", got)
	}
}
