package cache

import (
	"net/url"
	"testing"
)

func testClassifier() *Classifier {
	return &Classifier{
		AppHost:         "trip.example.com",
		WeatherHost:     "open-meteo.com",
		DocumentsPrefix: "/vouchers/",
		ImmutablePrefix: "/_next/static/",
		FrameworkPrefix: "/_next/",
		IconsPrefix:     "/icons/",
	}
}

func request(rawURL, destination, mode, accept string) *Request {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return &Request{URL: u, Method: "GET", Destination: destination, Mode: mode, Accept: accept}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		req      *Request
		strategy Strategy
		rule     string
	}{
		{
			name:     "weather API is network first",
			req:      request("https://api.open-meteo.com/v1/forecast?latitude=1&longitude=2", "", "", ""),
			strategy: NetworkFirst,
			rule:     "weather-api",
		},
		{
			name:     "other cross-origin passes through",
			req:      request("https://fonts.example.org/font.woff2", "font", "", ""),
			strategy: PassThrough,
			rule:     "cross-origin",
		},
		{
			name:     "voucher documents are cache first",
			req:      request("https://trip.example.com/vouchers/flight-outbound.pdf", "", "", ""),
			strategy: CacheFirst,
			rule:     "documents",
		},
		{
			name:     "immutable build assets are cache first",
			req:      request("https://trip.example.com/_next/static/chunks/main.js", "script", "", ""),
			strategy: CacheFirst,
			rule:     "immutable-assets",
		},
		{
			name:     "framework internals are network first",
			req:      request("https://trip.example.com/_next/data/build/budget.json", "", "", ""),
			strategy: NetworkFirst,
			rule:     "framework",
		},
		{
			name:     "images are cache first",
			req:      request("https://trip.example.com/photos/taj.jpg", "image", "", ""),
			strategy: CacheFirst,
			rule:     "media",
		},
		{
			name:     "fonts are cache first",
			req:      request("https://trip.example.com/fonts/sans.woff2", "font", "", ""),
			strategy: CacheFirst,
			rule:     "media",
		},
		{
			name:     "icons directory is cache first",
			req:      request("https://trip.example.com/icons/icon-192.png", "", "", ""),
			strategy: CacheFirst,
			rule:     "media",
		},
		{
			name:     "navigation mode is network first",
			req:      request("https://trip.example.com/budget", "document", "navigate", ""),
			strategy: NetworkFirst,
			rule:     "navigation",
		},
		{
			name:     "html accept header counts as navigation",
			req:      request("https://trip.example.com/budget", "", "", "text/html,application/xhtml+xml"),
			strategy: NetworkFirst,
			rule:     "navigation",
		},
		{
			name:     "everything else is network first",
			req:      request("https://trip.example.com/api/expenses", "", "", "application/json"),
			strategy: NetworkFirst,
			rule:     "default",
		},
	}

	c := testClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, rule := c.Classify(tt.req)
			if strategy != tt.strategy || rule != tt.rule {
				t.Errorf("Classify() = %s via %s, want %s via %s", strategy, rule, tt.strategy, tt.rule)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	req := request("https://trip.example.com/vouchers/hotel-booking.pdf", "", "", "")

	// Same answer across repeated calls and across fresh classifiers,
	// as if the gateway had restarted.
	wantStrategy, wantRule := testClassifier().Classify(req)
	for i := 0; i < 50; i++ {
		strategy, rule := testClassifier().Classify(req)
		if strategy != wantStrategy || rule != wantRule {
			t.Fatalf("call %d: got %s via %s, want %s via %s", i, strategy, rule, wantStrategy, wantRule)
		}
	}
}
