package weather

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"smartface-server-go/internal/domain/nlp"
	"smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
)

// Provider answers weather questions. The provider, not the router, decides
// the default city and response wording.
type Provider interface {
	Handle(ctx context.Context, entities nlp.Entities, text string) (string, error)
}

// cityPatterns match "in Paris", "for New York" style mentions with the
// original capitalization intact.
var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`in ([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`for ([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`at ([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
}

func cityFromText(text string, entities nlp.Entities) string {
	if city, ok := entities.City(); ok {
		return city
	}
	for _, re := range cityPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// Client fetches current conditions from an OpenWeatherMap-compatible API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	defaultCity string
	units       string
}

func NewClient(cfg config.WeatherConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "weather.new", "weather api key required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	defaultCity := cfg.DefaultCity
	if defaultCity == "" {
		defaultCity = "Mohali"
	}
	units := cfg.Units
	if units == "" {
		units = "metric"
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		defaultCity: defaultCity,
		units:       units,
	}, nil
}

type conditions struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Handle resolves the city and speaks the current conditions. City lookup
// misses come back as apologies rather than errors so the router does not
// treat a typo like an outage.
func (c *Client) Handle(ctx context.Context, entities nlp.Entities, text string) (string, error) {
	city := cityFromText(text, entities)
	if city == "" {
		city = c.defaultCity
	}

	data, found, err := c.fetch(ctx, city)
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf("Sorry, I couldn't get weather information for %s. Please check the city name or try again later.", city), nil
	}
	return formatConditions(data), nil
}

func (c *Client) fetch(ctx context.Context, city string) (conditions, bool, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return conditions{}, false, platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "build request failed", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return conditions{}, false, platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "weather request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return conditions{}, false, nil
	default:
		return conditions{}, false, platformerrors.New(platformerrors.KindSkill, "weather.fetch",
			fmt.Sprintf("weather api returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return conditions{}, false, platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "read response failed", err)
	}
	var data conditions
	if err := sonic.Unmarshal(body, &data); err != nil {
		return conditions{}, false, platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "decode response failed", err)
	}
	return data, true, nil
}

func formatConditions(data conditions) string {
	temp := int(math.Round(data.Main.Temp))
	feelsLike := int(math.Round(data.Main.FeelsLike))
	tempMin := int(math.Round(data.Main.TempMin))
	tempMax := int(math.Round(data.Main.TempMax))
	windKmh := int(math.Round(data.Wind.Speed * 3.6))
	description := ""
	if len(data.Weather) > 0 {
		description = data.Weather[0].Description
	}

	var b strings.Builder
	fmt.Fprintf(&b, "In %s, %s, it's currently %d degrees Celsius with %s. ", data.Name, data.Sys.Country, temp, description)
	if abs(temp-feelsLike) > 2 {
		fmt.Fprintf(&b, "It feels like %d degrees. ", feelsLike)
	}
	if tempMax != temp || tempMin != temp {
		fmt.Fprintf(&b, "Today's high is %d and low is %d degrees. ", tempMax, tempMin)
	}
	if data.Main.Humidity > 70 {
		fmt.Fprintf(&b, "Humidity is quite high at %d percent. ", data.Main.Humidity)
	} else if data.Main.Humidity < 30 {
		fmt.Fprintf(&b, "It's quite dry with %d percent humidity. ", data.Main.Humidity)
	}
	if windKmh > 20 {
		fmt.Fprintf(&b, "It's windy with speeds of %d kilometers per hour.", windKmh)
	}
	return strings.TrimSpace(b.String())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
