package offline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mustang-stride-api/pkg/config"
)

// Metrics receives cache lookup outcomes.
type Metrics interface {
	ObserveCacheLookup(hit bool)
}

// Gateway fronts the application with a network-first,
// cache-fallback-on-failure policy. Each intercepted request is handled
// independently; concurrent cache writes interleave freely and the last
// writer for a request key wins.
type Gateway struct {
	upstream   *url.URL
	client     *http.Client
	store      EntryStore
	generation string
	bootstrap  []string
	excluded   []string
	fallback   string
	logger     *zap.Logger
	metrics    Metrics
}

// NewGateway builds a gateway for the configured upstream.
func NewGateway(cfg config.OfflineConfig, store EntryStore, logger *zap.Logger, metrics Metrics) (*Gateway, error) {
	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream %q: %w", cfg.Upstream, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bootstrap := cfg.BootstrapAssets
	if len(bootstrap) == 0 {
		bootstrap = []string{"/", "/index.html", "/manifest.json"}
	}

	fallback := bootstrap[0]
	for _, asset := range bootstrap {
		if strings.Contains(asset, "index.html") {
			fallback = asset
			break
		}
	}

	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Gateway{
		upstream:   upstream,
		client:     &http.Client{Timeout: timeout},
		store:      store,
		generation: cfg.Generation,
		bootstrap:  bootstrap,
		excluded:   cfg.ExcludedHosts,
		fallback:   fallback,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Install pre-populates the current generation with the bootstrap asset
// list. All assets are fetched before anything is stored: a single
// unreachable asset fails the whole install.
func (g *Gateway) Install(ctx context.Context) error {
	type fetched struct {
		key   string
		entry *Entry
	}

	prefetched := make([]fetched, 0, len(g.bootstrap))
	for _, asset := range g.bootstrap {
		target := g.upstream.ResolveReference(&url.URL{Path: asset})
		entry, err := g.fetch(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return fmt.Errorf("install: fetch %s: %w", asset, err)
		}
		if entry.Status < 200 || entry.Status > 299 {
			return fmt.Errorf("install: fetch %s: status %d", asset, entry.Status)
		}
		prefetched = append(prefetched, fetched{key: requestKey(http.MethodGet, target), entry: entry})
	}

	for _, f := range prefetched {
		if err := g.store.Put(ctx, g.generation, f.key, f.entry); err != nil {
			return fmt.Errorf("install: store %s: %w", f.key, err)
		}
	}

	g.logger.Sugar().Infow("offline install complete", "generation", g.generation, "assets", len(prefetched))
	return nil
}

// Activate deletes every stored generation except the current one.
func (g *Gateway) Activate(ctx context.Context) error {
	if err := g.store.Sweep(ctx, g.generation); err != nil {
		return fmt.Errorf("activate: sweep generations: %w", err)
	}
	g.logger.Sugar().Infow("offline activate complete", "generation", g.generation)
	return nil
}

// ServeHTTP applies the caching policy. Origin-form requests route to
// the upstream; absolute-form (forward proxy) requests go to their own
// target, which is how excluded third-party hosts are recognised.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := g.targetURL(r)

	if g.isExcluded(target.Hostname()) {
		g.passthrough(w, r, target)
		return
	}

	entry, err := g.fetchRequest(r, target)
	if err == nil {
		if r.Method == http.MethodGet && entry.Status >= 200 && entry.Status <= 299 {
			go g.storeEntry(requestKey(r.Method, target), entry)
		}
		writeEntry(w, entry)
		return
	}

	g.logger.Sugar().Debugw("network fetch failed, trying cache", "url", target.String(), "error", err)

	cached, cacheErr := g.store.Match(r.Context(), requestKey(r.Method, target))
	if cacheErr == nil {
		g.observe(true)
		writeEntry(w, cached)
		return
	}
	g.observe(false)

	if isNavigation(r) {
		doc := g.upstream.ResolveReference(&url.URL{Path: g.fallback})
		if fallback, fbErr := g.store.Match(r.Context(), requestKey(http.MethodGet, doc)); fbErr == nil {
			writeEntry(w, fallback)
			return
		}
	}

	http.Error(w, "upstream unreachable and no cached copy", http.StatusBadGateway)
}

func (g *Gateway) targetURL(r *http.Request) *url.URL {
	if r.URL.IsAbs() {
		return r.URL
	}
	target := *r.URL
	target.Scheme = g.upstream.Scheme
	target.Host = g.upstream.Host
	return &target
}

func (g *Gateway) isExcluded(hostname string) bool {
	for _, domain := range g.excluded {
		if strings.Contains(hostname, domain) {
			return true
		}
	}
	return false
}

// passthrough proxies excluded requests untouched: never cached, never
// served from cache, failures propagate.
func (g *Gateway) passthrough(w http.ResponseWriter, r *http.Request, target *url.URL) {
	entry, err := g.fetchRequest(r, target)
	if err != nil {
		http.Error(w, "upstream unreachable", http.StatusBadGateway)
		return
	}
	writeEntry(w, entry)
}

func (g *Gateway) fetchRequest(r *http.Request, target *url.URL) (*Entry, error) {
	var body io.Reader
	if r.Body != nil {
		body = r.Body
	}
	entry, err := g.fetch(r.Context(), r.Method, target.String(), body)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (g *Gateway) fetch(ctx context.Context, method, rawURL string, body io.Reader) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Entry{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: payload}, nil
}

// storeEntry is the write-behind half of a successful fetch; it never
// blocks the response and its failures are only logged.
func (g *Gateway) storeEntry(key string, entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.store.Put(ctx, g.generation, key, entry); err != nil {
		g.logger.Sugar().Warnw("cache write failed", "key", key, "error", err)
	}
}

func (g *Gateway) observe(hit bool) {
	if g.metrics != nil {
		g.metrics.ObserveCacheLookup(hit)
	}
}

func requestKey(method string, target *url.URL) string {
	clean := *target
	clean.Fragment = ""
	return method + " " + clean.String()
}

func isNavigation(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeEntry(w http.ResponseWriter, entry *Entry) {
	for name, values := range entry.Header {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}
	w.WriteHeader(entry.Status)
	_, _ = w.Write(entry.Body)
}
