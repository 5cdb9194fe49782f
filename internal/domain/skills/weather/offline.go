package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smartface-server-go/internal/domain/nlp"
	"smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
)

// Offline answers weather questions via wttr.in, which needs no API key.
// Used when no weather API key is configured.
type Offline struct {
	httpClient  *http.Client
	baseURL     string
	defaultCity string
}

func NewOffline(cfg config.WeatherConfig) *Offline {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	defaultCity := cfg.DefaultCity
	if defaultCity == "" {
		defaultCity = "London"
	}
	return &Offline{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     "https://wttr.in",
		defaultCity: defaultCity,
	}
}

func (o *Offline) Handle(ctx context.Context, entities nlp.Entities, text string) (string, error) {
	city := cityFromText(text, entities)
	if city == "" {
		city = o.defaultCity
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s?format=3", o.baseURL, url.PathEscape(city)), nil)
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "weather.offline", "build request failed", err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "weather.offline", "weather request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Sorry, I couldn't get weather information for %s.", city), nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.KindSkill, "weather.offline", "read response failed", err)
	}

	report := strings.TrimSpace(string(body))
	report = strings.ReplaceAll(report, "°C", " degrees Celsius")
	report = strings.ReplaceAll(report, "°F", " degrees Fahrenheit")
	return "The weather is: " + report, nil
}
