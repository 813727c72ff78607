// Package webapi holds the outbound HTTP clients the assistant talks to:
// OpenWeatherMap, NewsAPI and LibreTranslate, plus the local joke table.
package webapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultWeatherURL = "https://api.openweathermap.org"

// Weather queries OpenWeatherMap for current conditions.
type Weather struct {
	rest   *resty.Client
	apiKey string
}

// NewWeather builds the client. baseURL is overridable for tests; httpClient
// may be nil for a default transport.
func NewWeather(apiKey, baseURL string, httpClient *http.Client) *Weather {
	if baseURL == "" {
		baseURL = defaultWeatherURL
	}
	rest := restyClient(httpClient).SetBaseURL(baseURL)
	return &Weather{rest: rest, apiKey: apiKey}
}

type weatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Cod     any    `json:"cod"` // number on success, string on some errors
	Message string `json:"message"`
}

// Current returns a spoken sentence describing the weather in city, or a
// spoken apology plus the error for logging. It never panics the caller's
// conversation flow.
func (w *Weather) Current(ctx context.Context, city string) (string, error) {
	if w.apiKey == "" {
		return "Weather service is not configured properly.", fmt.Errorf("weather api key not set")
	}

	var out weatherResponse
	resp, err := w.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": w.apiKey,
			"units": "metric",
		}).
		SetResult(&out).
		Get("/data/2.5/weather")
	if err != nil {
		return "There was an error retrieving the weather.", err
	}
	if resp.IsError() || len(out.Weather) == 0 {
		return fmt.Sprintf("Sorry, I couldn't get the weather for %s. Please try again later.", city),
			fmt.Errorf("weather api: status %d: %s", resp.StatusCode(), out.Message)
	}

	return fmt.Sprintf(
		"The current temperature in %s is %.0f degrees Celsius, with %s. The humidity is %d percent, and the wind speed is %.1f meters per second.",
		out.Name, out.Main.Temp, out.Weather[0].Description, out.Main.Humidity, out.Wind.Speed,
	), nil
}

func restyClient(httpClient *http.Client) *resty.Client {
	if httpClient != nil {
		return resty.NewWithClient(httpClient).SetTimeout(10 * time.Second)
	}
	return resty.New().SetTimeout(10 * time.Second)
}
