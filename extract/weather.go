package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/oletk/sales-insights-etl/config"
)

// WeatherObservation holds the current conditions at one coordinate pair.
type WeatherObservation struct {
	Lat         float64
	Lng         float64
	Condition   string
	Temperature float64
}

// weatherResponse mirrors the success payload of the weather endpoint.
type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// weatherError mirrors the failure payload: {"cod": ..., "message": ...}.
// cod is a string in some API responses and a number in others.
type weatherError struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

type WeatherClient struct {
	HTTPClient *retryablehttp.Client
	Logger     *slog.Logger
	BaseURL    string
	units      string
	apiKey     string
}

func NewWeatherClient(cfg *config.Config, logger *slog.Logger) (*WeatherClient, error) {
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY env variable is not set")
	}

	return &WeatherClient{
		HTTPClient: newHTTPClient(cfg, logger),
		Logger:     logger,
		BaseURL:    cfg.Weather.URL,
		units:      cfg.Weather.Units,
		apiKey:     apiKey,
	}, nil
}

// CurrentConditions looks up the current weather at the given coordinates.
// Errors here are per-record: the caller degrades the affected customer
// instead of aborting the run.
func (c *WeatherClient) CurrentConditions(lat, lng float64) (WeatherObservation, error) {
	lookupURL, err := c.buildURL(lat, lng)
	if err != nil {
		return WeatherObservation{}, err
	}

	body, resp, err := get(c.HTTPClient, lookupURL)
	if err != nil {
		return WeatherObservation{}, fmt.Errorf("weather lookup for (%v, %v) failed: %w", lat, lng, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr weatherError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return WeatherObservation{}, fmt.Errorf("weather lookup for (%v, %v) failed with code %s: %s", lat, lng, string(apiErr.Cod), apiErr.Message)
		}
		return WeatherObservation{}, fmt.Errorf("weather lookup for (%v, %v) failed, status: %s", lat, lng, resp.Status)
	}

	var payload weatherResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return WeatherObservation{}, fmt.Errorf("failed to decode weather response for (%v, %v): %w", lat, lng, err)
	}
	if len(payload.Weather) == 0 {
		return WeatherObservation{}, fmt.Errorf("weather response for (%v, %v) contains no conditions", lat, lng)
	}

	return WeatherObservation{
		Lat:         lat,
		Lng:         lng,
		Condition:   payload.Weather[0].Description,
		Temperature: payload.Main.Temp,
	}, nil
}

// buildURL adds the coordinates, API key and unit system to the base URL
func (c *WeatherClient) buildURL(lat, lng float64) (string, error) {
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse weather URL: %w", err)
	}

	query := parsedURL.Query()
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("units", c.units)
	parsedURL.RawQuery = query.Encode()

	return parsedURL.String(), nil
}
