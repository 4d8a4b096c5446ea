package services

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"tripmate-backend/cache"
)

const forecastJSON = `{
	"current": {
		"temperature_2m": 31.4,
		"apparent_temperature": 35.2,
		"relative_humidity_2m": 68,
		"weather_code": 95,
		"wind_speed_10m": 12.5
	}
}`

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code        int
		description string
		icon        string
	}{
		{0, "clear sky", "clear"},
		{3, "overcast", "cloudy"},
		{48, "depositing rime fog", "fog"},
		{55, "dense drizzle", "drizzle"},
		{63, "rain", "rain"},
		{75, "heavy snow", "snow"},
		{82, "violent rain showers", "showers"},
		{95, "thunderstorm", "thunderstorm"},
		{42, "unknown conditions", "unknown"},
		{-1, "unknown conditions", "unknown"},
	}

	for _, tt := range tests {
		description, icon := DescribeWeatherCode(tt.code)
		if description != tt.description || icon != tt.icon {
			t.Errorf("DescribeWeatherCode(%d) = %q/%q, want %q/%q",
				tt.code, description, icon, tt.description, tt.icon)
		}
	}
}

func TestCurrentParsesForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastJSON))
	}))
	defer server.Close()

	service := NewWeatherService(server.URL, nil)

	weather, err := service.Current(context.Background(), 28.6139, 77.209)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(weather.Temperature-31.4) > 1e-9 {
		t.Errorf("temperature = %v, want 31.4", weather.Temperature)
	}
	if math.Abs(weather.FeelsLike-35.2) > 1e-9 {
		t.Errorf("feels like = %v, want 35.2", weather.FeelsLike)
	}
	if weather.Code != 95 || weather.Description != "thunderstorm" || weather.Icon != "thunderstorm" {
		t.Errorf("code mapping = %d %q %q", weather.Code, weather.Description, weather.Icon)
	}
}

func TestCurrentReturnsErrorOnUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewWeatherService(server.URL, nil)

	if _, err := service.Current(context.Background(), 0, 0); err == nil {
		t.Fatal("expected an error for a 500 upstream")
	}
}

func TestCurrentThroughGatewaySurvivesOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastJSON))
	}))

	serverURL, _ := url.Parse(server.URL)
	origin, _ := url.Parse("https://trip.example.com")
	gateway := &cache.Controller{
		Version: "trip-v1",
		Origin:  origin,
		Store:   cache.NewMemoryStore(),
		Fetcher: cache.NewHTTPFetcher(),
		Classifier: &cache.Classifier{
			AppHost:     "trip.example.com",
			WeatherHost: serverURL.Hostname(),
		},
	}

	service := NewWeatherService(server.URL, gateway)

	// Online fetch populates the dynamic bucket.
	if _, err := service.Current(context.Background(), 28.6139, 77.209); err != nil {
		t.Fatal(err)
	}

	// Upstream gone: the cached forecast still answers.
	server.Close()
	weather, err := service.Current(context.Background(), 28.6139, 77.209)
	if err != nil {
		t.Fatalf("offline fetch through gateway failed: %v", err)
	}
	if weather.Description != "thunderstorm" {
		t.Errorf("offline description = %q, want thunderstorm", weather.Description)
	}
}
