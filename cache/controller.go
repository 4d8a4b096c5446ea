package cache

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Fetcher abstracts the upstream network fetch so strategies can be tested
// without real network I/O.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (*Entry, error)
}

// HTTPFetcher fetches over a real HTTP client. The timeout bounds how long
// a strategy can hang on a dead network before its fallback kicks in.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: 15 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req *Request) (*Entry, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), nil)
	if err != nil {
		return nil, err
	}
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}

	resp, err := f.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     body,
		StoredAt: time.Now(),
	}, nil
}

// Controller owns two named buckets per deployed version: a static bucket
// filled once at install time and a dynamic bucket filled lazily as
// requests are served. Bumping Version retires the previous pair on the
// next Activate.
type Controller struct {
	Version    string
	Origin     *url.URL // upstream origin serving the app shell
	Store      BucketStore
	Fetcher    Fetcher
	Classifier *Classifier
	Precache   []string // shell paths fetched and stored at install time
}

func (c *Controller) StaticBucket() string  { return c.Version + "-static" }
func (c *Controller) DynamicBucket() string { return c.Version + "-dynamic" }

// ShellRequest builds a plain GET request for a shell path resolved
// against the upstream origin.
func (c *Controller) ShellRequest(path string) *Request {
	return &Request{
		URL:    c.Origin.ResolveReference(&url.URL{Path: path}),
		Method: http.MethodGet,
	}
}

// Install fetches every pre-cache path and stores the lot into the static
// bucket. The step is all-or-nothing: nothing is stored unless every fetch
// succeeds, so a half-installed version never exists.
func (c *Controller) Install(ctx context.Context) error {
	fetched := make(map[string]*Entry, len(c.Precache))

	for _, path := range c.Precache {
		req := c.ShellRequest(path)
		entry, err := c.Fetcher.Fetch(ctx, req)
		if err != nil {
			return fmt.Errorf("pre-cache %s: %w", path, err)
		}
		if !successful(entry) {
			return fmt.Errorf("pre-cache %s: upstream returned %d", path, entry.Status)
		}
		fetched[req.Key()] = entry
	}

	for key, entry := range fetched {
		if err := c.Store.Put(ctx, c.StaticBucket(), key, entry); err != nil {
			return fmt.Errorf("pre-cache store: %w", err)
		}
	}

	log.Printf("✅ Pre-cached %d shell assets into %s", len(fetched), c.StaticBucket())
	return nil
}

// Activate garbage-collects every bucket that does not belong to the
// current version. The controller takes over serving immediately; there is
// no waiting state, so requests in flight against an older version may
// still be answered by it during the handover.
func (c *Controller) Activate(ctx context.Context) error {
	buckets, err := c.Store.Buckets(ctx)
	if err != nil {
		return err
	}

	for _, bucket := range buckets {
		if bucket == c.StaticBucket() || bucket == c.DynamicBucket() {
			continue
		}
		if err := c.Store.DeleteBucket(ctx, bucket); err != nil {
			return err
		}
		log.Printf("🗑️  Removed stale cache bucket: %s", bucket)
	}

	return nil
}

// Handle classifies the request and runs the matching strategy. It always
// returns a response entry; total failure surfaces as a synthetic 503, not
// as an error, so the shell can render a degraded state.
func (c *Controller) Handle(ctx context.Context, req *Request) *Entry {
	strategy, _ := c.Classifier.Classify(req)

	switch strategy {
	case CacheFirst:
		return c.cacheFirst(ctx, req)
	case NetworkFirst:
		return c.networkFirst(ctx, req)
	default:
		return c.passThrough(ctx, req)
	}
}

// cacheFirst serves a cached copy when one exists and only touches the
// network on a miss.
func (c *Controller) cacheFirst(ctx context.Context, req *Request) *Entry {
	if cached := c.lookup(ctx, req.Key()); cached != nil {
		return cached
	}

	entry, err := c.Fetcher.Fetch(ctx, req)
	if err != nil {
		return offlineResponse()
	}
	if successful(entry) {
		c.storeDynamic(ctx, req.Key(), entry)
	}
	return entry
}

// networkFirst prefers a fresh response and falls back to the cache. A
// failed page navigation falls back to the cached shell root as a last
// resort before giving up.
func (c *Controller) networkFirst(ctx context.Context, req *Request) *Entry {
	entry, err := c.Fetcher.Fetch(ctx, req)
	if err == nil {
		if successful(entry) {
			c.storeDynamic(ctx, req.Key(), entry)
		}
		return entry
	}

	if cached := c.lookup(ctx, req.Key()); cached != nil {
		return cached
	}

	if req.IsNavigation() {
		if shell := c.lookup(ctx, c.ShellRequest("/").Key()); shell != nil {
			return shell
		}
	}

	return offlineResponse()
}

func (c *Controller) passThrough(ctx context.Context, req *Request) *Entry {
	entry, err := c.Fetcher.Fetch(ctx, req)
	if err != nil {
		return offlineResponse()
	}
	return entry
}

// lookup searches every bucket, own version first. Buckets of a superseded
// version may still answer until Activate removes them.
func (c *Controller) lookup(ctx context.Context, key string) *Entry {
	for _, bucket := range []string{c.StaticBucket(), c.DynamicBucket()} {
		if entry, err := c.Store.Get(ctx, bucket, key); err == nil && entry != nil {
			return entry
		}
	}

	buckets, err := c.Store.Buckets(ctx)
	if err != nil {
		return nil
	}
	for _, bucket := range buckets {
		if bucket == c.StaticBucket() || bucket == c.DynamicBucket() {
			continue
		}
		if entry, err := c.Store.Get(ctx, bucket, key); err == nil && entry != nil {
			return entry
		}
	}
	return nil
}

// storeDynamic writes a clone into the dynamic bucket. Writes are
// best-effort: the response is returned to the caller either way.
func (c *Controller) storeDynamic(ctx context.Context, key string, entry *Entry) {
	if err := c.Store.Put(ctx, c.DynamicBucket(), key, entry.Clone()); err != nil {
		log.Printf("⚠️  Cache write failed for %s: %v", key, err)
	}
}

func successful(e *Entry) bool {
	return e.Status >= 200 && e.Status < 300
}

func offlineResponse() *Entry {
	return &Entry{
		Status:   http.StatusServiceUnavailable,
		Header:   http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:     []byte("Offline"),
		StoredAt: time.Now(),
	}
}
