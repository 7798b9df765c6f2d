package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultGeocodeURL      = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL     = "https://api.open-meteo.com/v1/forecast"
	defaultMeteoTimeout    = 20 * time.Second
	dailyForecastVariables = "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weathercode"
)

// OpenMeteoProvider resolves a destination name to coordinates through the
// Open-Meteo geocoding API, then fetches a one-day forecast for the trip
// start date. Dates outside the upstream forecast horizon are answered with
// HTTP 400, in which case the nearest available day is requested instead.
type OpenMeteoProvider struct {
	geocodeURL  string
	forecastURL string
	client      *http.Client
}

func NewOpenMeteoProvider(timeoutSeconds int) *OpenMeteoProvider {
	timeout := defaultMeteoTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &OpenMeteoProvider{
		geocodeURL:  defaultGeocodeURL,
		forecastURL: defaultForecastURL,
		client:      &http.Client{Timeout: timeout},
	}
}

// NewOpenMeteoProviderWithEndpoints is used by tests to point the provider
// at local stand-in servers.
func NewOpenMeteoProviderWithEndpoints(geocodeURL, forecastURL string, client *http.Client) *OpenMeteoProvider {
	if client == nil {
		client = &http.Client{Timeout: defaultMeteoTimeout}
	}
	return &OpenMeteoProvider{geocodeURL: geocodeURL, forecastURL: forecastURL, client: client}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Daily struct {
		TemperatureMax       []float64 `json:"temperature_2m_max"`
		TemperatureMin       []float64 `json:"temperature_2m_min"`
		PrecipitationProbMax []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) Forecast(ctx context.Context, destination, startDate string, days int) (string, error) {
	loc, err := p.geocode(ctx, destination)
	if err != nil {
		return "", err
	}
	if loc == nil {
		// Unknown place name is a designed no-data outcome, not a failure.
		return "", nil
	}

	forecastStart := NormalizeDate(startDate, time.Now())

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(loc.lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(loc.lon, 'f', -1, 64))
	params.Set("start_date", forecastStart)
	params.Set("end_date", forecastStart)
	params.Set("daily", dailyForecastVariables)
	params.Set("timezone", "auto")

	status, body, err := p.get(ctx, p.forecastURL, params)
	if err != nil {
		return "", err
	}
	if status == http.StatusBadRequest {
		// Start date outside the forecast horizon: ask for the nearest window.
		params = url.Values{}
		params.Set("latitude", strconv.FormatFloat(loc.lat, 'f', -1, 64))
		params.Set("longitude", strconv.FormatFloat(loc.lon, 'f', -1, 64))
		params.Set("forecast_days", "1")
		params.Set("daily", dailyForecastVariables)
		params.Set("timezone", "auto")
		status, body, err = p.get(ctx, p.forecastURL, params)
		if err != nil {
			return "", err
		}
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("open-meteo forecast returned status %d", status)
	}

	var decoded forecastResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode forecast response: %w", err)
	}

	return fmt.Sprintf(
		"%s weather reference: high %s, low %s, precipitation probability %s. Shift outdoor activities indoors on wet days.",
		loc.name,
		formatCelsius(firstValue(decoded.Daily.TemperatureMax)),
		formatCelsius(firstValue(decoded.Daily.TemperatureMin)),
		formatPercent(firstValue(decoded.Daily.PrecipitationProbMax)),
	), nil
}

type geoLocation struct {
	name string
	lat  float64
	lon  float64
}

func (p *OpenMeteoProvider) geocode(ctx context.Context, destination string) (*geoLocation, error) {
	params := url.Values{}
	params.Set("name", destination)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	status, body, err := p.get(ctx, p.geocodeURL, params)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("open-meteo geocoding returned status %d", status)
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return nil, nil
	}
	loc := decoded.Results[0]
	name := loc.Name
	if name == "" {
		name = destination
	}
	return &geoLocation{name: name, lat: loc.Latitude, lon: loc.Longitude}, nil
}

func (p *OpenMeteoProvider) get(ctx context.Context, endpoint string, params url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build open-meteo request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("open-meteo call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read open-meteo response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func firstValue(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return values[0], true
}

func formatCelsius(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "°C"
}

func formatPercent(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
