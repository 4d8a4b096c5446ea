package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tripmate-backend/cache"
)

// CurrentWeather is the normalized current-conditions payload returned to
// the app.
type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Code        int     `json:"code"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

type openMeteoResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		FeelsLike   float64 `json:"apparent_temperature"`
		Humidity    float64 `json:"relative_humidity_2m"`
		Code        int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// WeatherService fetches current conditions from the forecast API. When a
// cache gateway is attached the fetch goes through it, so the last
// successful forecast keeps answering while offline.
type WeatherService struct {
	BaseURL string
	Gateway *cache.Controller
	Client  *http.Client
}

func NewWeatherService(baseURL string, gateway *cache.Controller) *WeatherService {
	return &WeatherService{
		BaseURL: baseURL,
		Gateway: gateway,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Current returns the current conditions at the given coordinates. It
// never panics past this boundary: every failure comes back as an error
// value the handler can render as a retryable state.
func (s *WeatherService) Current(ctx context.Context, lat, lng float64) (*CurrentWeather, error) {
	endpoint := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m",
		s.BaseURL, lat, lng,
	)

	body, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("weather response: %w", err)
	}

	description, icon := DescribeWeatherCode(parsed.Current.Code)

	return &CurrentWeather{
		Temperature: parsed.Current.Temperature,
		FeelsLike:   parsed.Current.FeelsLike,
		Humidity:    parsed.Current.Humidity,
		WindSpeed:   parsed.Current.WindSpeed,
		Code:        parsed.Current.Code,
		Description: description,
		Icon:        icon,
	}, nil
}

func (s *WeatherService) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if s.Gateway != nil {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, err
		}
		entry := s.Gateway.Handle(ctx, &cache.Request{
			URL:    u,
			Method: http.MethodGet,
			Accept: "application/json",
		})
		if entry.Status < 200 || entry.Status >= 300 {
			return nil, fmt.Errorf("weather API returned %d", entry.Status)
		}
		return entry.Body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather API returned %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// WMO weather interpretation codes, mapped to a human-readable description
// and an icon category. Unmapped codes fall back to "unknown".
var weatherCodes = map[int]struct {
	description string
	icon        string
}{
	0:  {"clear sky", "clear"},
	1:  {"mostly clear", "clear"},
	2:  {"partly cloudy", "cloudy"},
	3:  {"overcast", "cloudy"},
	45: {"fog", "fog"},
	48: {"depositing rime fog", "fog"},
	51: {"light drizzle", "drizzle"},
	53: {"drizzle", "drizzle"},
	55: {"dense drizzle", "drizzle"},
	61: {"light rain", "rain"},
	63: {"rain", "rain"},
	65: {"heavy rain", "rain"},
	71: {"light snow", "snow"},
	73: {"snow", "snow"},
	75: {"heavy snow", "snow"},
	80: {"rain showers", "showers"},
	81: {"heavy rain showers", "showers"},
	82: {"violent rain showers", "showers"},
	95: {"thunderstorm", "thunderstorm"},
}

func DescribeWeatherCode(code int) (description, icon string) {
	if mapped, ok := weatherCodes[code]; ok {
		return mapped.description, mapped.icon
	}
	return "unknown conditions", "unknown"
}
