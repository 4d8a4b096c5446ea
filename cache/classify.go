// Package cache implements the offline gateway that fronts the app shell:
// requests are classified into a caching strategy by URL shape and request
// metadata, and served from versioned response buckets when the network is
// unavailable.
package cache

import (
	"net/url"
	"strings"
)

// Strategy decides whether a cached or a fresh response is preferred.
type Strategy string

const (
	PassThrough  Strategy = "pass-through"
	CacheFirst   Strategy = "cache-first"
	NetworkFirst Strategy = "network-first"
)

// Request carries the subset of an HTTP request the classifier and the
// strategies need. Destination and Mode come from the Sec-Fetch-Dest and
// Sec-Fetch-Mode headers at the gateway edge.
type Request struct {
	URL         *url.URL
	Method      string
	Destination string
	Mode        string
	Accept      string
}

// IsNavigation reports whether the request is a page navigation.
func (r *Request) IsNavigation() bool {
	return r.Mode == "navigate" || strings.Contains(r.Accept, "text/html")
}

// Key is the bucket key a response for this request is stored under.
func (r *Request) Key() string {
	return r.Method + " " + r.URL.String()
}

// Classifier maps a request to a strategy by evaluating an ordered rule
// list, first match wins. It is a pure function of the request: no hidden
// state, so every rule is independently testable.
type Classifier struct {
	AppHost         string // same-origin host of the app shell
	WeatherHost     string // cross-origin weather API host (substring match)
	DocumentsPrefix string // fixed downloadable documents, e.g. /vouchers/
	ImmutablePrefix string // content-hashed build assets, e.g. /_next/static/
	FrameworkPrefix string // other framework internals, e.g. /_next/
	IconsPrefix     string // app icons, e.g. /icons/
}

type rule struct {
	name     string
	matches  func(*Request) bool
	strategy Strategy
}

func (c *Classifier) crossOrigin(r *Request) bool {
	return r.URL.Host != "" && r.URL.Host != c.AppHost
}

func (c *Classifier) rules() []rule {
	return []rule{
		{
			name: "weather-api",
			matches: func(r *Request) bool {
				return c.crossOrigin(r) && strings.Contains(r.URL.Hostname(), c.WeatherHost)
			},
			strategy: NetworkFirst,
		},
		{
			name:     "cross-origin",
			matches:  c.crossOrigin,
			strategy: PassThrough,
		},
		{
			name: "documents",
			matches: func(r *Request) bool {
				return strings.HasPrefix(r.URL.Path, c.DocumentsPrefix)
			},
			strategy: CacheFirst,
		},
		{
			name: "immutable-assets",
			matches: func(r *Request) bool {
				return strings.HasPrefix(r.URL.Path, c.ImmutablePrefix)
			},
			strategy: CacheFirst,
		},
		{
			name: "framework",
			matches: func(r *Request) bool {
				return strings.HasPrefix(r.URL.Path, c.FrameworkPrefix)
			},
			strategy: NetworkFirst,
		},
		{
			name: "media",
			matches: func(r *Request) bool {
				return r.Destination == "image" || r.Destination == "font" ||
					strings.HasPrefix(r.URL.Path, c.IconsPrefix)
			},
			strategy: CacheFirst,
		},
		{
			name:     "navigation",
			matches:  (*Request).IsNavigation,
			strategy: NetworkFirst,
		},
		{
			name:     "default",
			matches:  func(*Request) bool { return true },
			strategy: NetworkFirst,
		},
	}
}

// Classify returns the strategy for a request plus the name of the rule
// that matched, for logging.
func (c *Classifier) Classify(r *Request) (Strategy, string) {
	for _, rule := range c.rules() {
		if rule.matches(r) {
			return rule.strategy, rule.name
		}
	}
	// Unreachable: the last rule matches everything.
	return NetworkFirst, "default"
}
