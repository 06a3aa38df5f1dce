// Package a3search is the public, host-facing entry point for embedding A3S
// Search as a library: register engines, optionally enable a proxy pool or
// browser pool, and call Search. It wraps internal/orchestrator behind the
// functional-options surface described in spec §6, in the same way the
// crawler example wraps its engine behind a small Option set rather than
// exposing its internal config type directly.
package a3search

import (
	"context"
	"time"

	"github.com/a3s-lab/a3s-search/internal/browserpool"
	"github.com/a3s-lab/a3s-search/internal/fetcher"
	"github.com/a3s-lab/a3s-search/internal/metrics"
	"github.com/a3s-lab/a3s-search/internal/orchestrator"
	"github.com/a3s-lab/a3s-search/internal/proxypool"
	"github.com/a3s-lab/a3s-search/internal/searchengine"
	"github.com/a3s-lab/a3s-search/internal/types"
)

// Search is the embeddable meta-search facade. Construct one with New,
// register engines with AddEngine, and call Search.
type Search struct {
	orch        *orchestrator.Orchestrator
	proxies     *proxypool.Pool
	browsers    *browserpool.Pool
	metrics     *metrics.Metrics
	httpFetcher fetcher.Fetcher
	browserOnce *browserFetcherOnce
}

// browserFetcherOnce holds the shared Browser fetcher, built in New only
// when WithBrowserPool is passed. The browser process behind it starts on
// the first tab lease, so hosts that register only HTTP engines never start
// one.
type browserFetcherOnce struct {
	fetcher fetcher.Fetcher
}

// config accumulates the effect of every Option passed to New.
type config struct {
	defaultDeadline time.Duration
	proxyEnabled    bool
	proxyStrategy   proxypool.Strategy
	browserOpts     browserpool.Options
	browserEnabled  bool
	metricsEnabled  bool
}

// Option configures a Search at construction time.
type Option func(*config)

// WithTimeout sets the default per-engine deadline applied when an engine's
// own configured timeout is unset or larger (spec §4.6).
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.defaultDeadline = d }
}

// WithProxyPool enables the Proxy Pool (spec §4.3) with the given rotation
// strategy. Engines still reach the open internet directly until proxies
// are supplied via the returned Search's SetProxies.
func WithProxyPool(strategy proxypool.Strategy) Option {
	return func(c *config) {
		c.proxyEnabled = true
		c.proxyStrategy = strategy
	}
}

// WithBrowserPool enables the Browser Page Fetcher variant (spec §4.2),
// backing any engine constructed with a Browser fetcher.
func WithBrowserPool(opts browserpool.Options) Option {
	return func(c *config) {
		c.browserEnabled = true
		c.browserOpts = opts
	}
}

// WithMetrics enables Prometheus instrumentation on the underlying
// orchestrator instead of the default no-op recorder.
func WithMetrics() Option {
	return func(c *config) { c.metricsEnabled = true }
}

// New constructs a Search with the given options.
func New(opts ...Option) *Search {
	cfg := &config{proxyStrategy: proxypool.RoundRobin}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Search{
		orch:        orchestrator.New(cfg.defaultDeadline),
		browserOnce: &browserFetcherOnce{},
	}

	if cfg.proxyEnabled {
		s.proxies = proxypool.New(true, cfg.proxyStrategy)
		s.httpFetcher = fetcher.NewHTTPFetcher(s.proxies)
	} else {
		s.httpFetcher = fetcher.NewHTTPFetcher(nil)
	}

	if cfg.browserEnabled {
		s.browsers = browserpool.New(cfg.browserOpts)
		s.browserOnce.fetcher = fetcher.NewBrowserFetcher(s.browsers)
	}

	if cfg.metricsEnabled {
		s.metrics = metrics.New()
		s.orch.WithMetrics(s.metrics)
	}

	return s
}

// HTTPFetcher returns the shared HTTP Page Fetcher, wired to the Proxy Pool
// if one was enabled via WithProxyPool. Engine constructors that need an
// HTTP fetcher (e.g. searchengine.NewDuckDuckGo) take this directly.
func (s *Search) HTTPFetcher() fetcher.Fetcher {
	return s.httpFetcher
}

// BrowserFetcher returns the shared Browser Page Fetcher. It is nil unless
// WithBrowserPool was passed to New; a searchengine.Bing built from a nil
// fetcher fails each Search call with a browser_unavailable EngineError
// rather than panicking.
func (s *Search) BrowserFetcher() fetcher.Fetcher {
	return s.browserOnce.fetcher
}

// SetProxies replaces the Proxy Pool's descriptor set. It is a no-op if
// WithProxyPool was never passed to New.
func (s *Search) SetProxies(proxies []types.ProxyDescriptor) {
	if s.proxies != nil {
		s.proxies.SetProxies(proxies)
	}
}

// AddEngine registers an engine. ConfigError is returned for a duplicate
// shortcut or an invalid EngineConfig (spec §4.1).
func (s *Search) AddEngine(engine searchengine.Engine) error {
	return s.orch.Register(engine)
}

// Search runs query against every engine the active-set resolution (spec
// §4.6) selects and returns the aggregated, scored result set.
func (s *Search) Search(ctx context.Context, query types.SearchQuery) (*types.SearchResponse, error) {
	return s.orch.Search(ctx, query)
}

// Metrics returns the Prometheus metrics collector backing this Search, or
// nil if WithMetrics was never passed to New.
func (s *Search) Metrics() *metrics.Metrics {
	return s.metrics
}

// Close releases the Browser Pool's shared process, if one was started.
func (s *Search) Close() {
	if s.browsers != nil {
		s.browsers.Close()
	}
}
