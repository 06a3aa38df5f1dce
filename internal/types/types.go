// Package types holds the data model shared by every core package: queries,
// per-engine results, merged results, engine configuration, proxy
// descriptors, and the error/response shapes returned to the host.
package types

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Category is a result category an engine may serve.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryImages  Category = "images"
	CategoryNews    Category = "news"
	CategoryVideos  Category = "videos"
)

// SafeSearch is the safe-search level requested for a query.
type SafeSearch int

const (
	SafeSearchOff SafeSearch = iota
	SafeSearchModerate
	SafeSearchStrict
)

// TimeRange restricts results to a recency window.
type TimeRange string

const (
	TimeRangeAny   TimeRange = "any"
	TimeRangeDay   TimeRange = "day"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
)

// SearchQuery is the host's request for a meta-search.
type SearchQuery struct {
	Text       string
	Categories []Category
	Language   string
	SafeSearch SafeSearch
	Page       int
	TimeRange  TimeRange
	Engines    []string // explicit shortcut allow-list; empty = all enabled engines
	Limit      int      // 0 = no truncation
}

// Validate trims Text and checks the invariants spec §3 requires of a
// SearchQuery. It does not mutate q; callers should use the trimmed text
// returned.
func (q SearchQuery) Validate() (string, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return "", &InvalidQueryError{Reason: "query text is empty after trimming"}
	}
	if q.Page < 1 {
		return "", &InvalidQueryError{Reason: fmt.Sprintf("page must be >= 1, got %d", q.Page)}
	}
	return text, nil
}

// EngineConfig describes one registered search engine.
type EngineConfig struct {
	Name               string
	Shortcut           string
	Categories         []Category
	Weight             float64
	TimeoutSeconds     float64
	Enabled            bool
	SupportsPaging     bool
	SupportsSafeSearch bool
	RateLimitRPS       float64 // 0 = unlimited; courtesy pacing toward this engine's upstream
}

// Validate enforces spec §3's EngineConfig invariants.
func (c EngineConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ConfigError{Reason: "engine name must not be empty"}
	}
	if strings.TrimSpace(c.Shortcut) == "" {
		return &ConfigError{Reason: "engine shortcut must not be empty"}
	}
	if c.Weight <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("engine %q: weight must be > 0, got %v", c.Shortcut, c.Weight)}
	}
	return nil
}

// Timeout returns the configured per-engine timeout as a time.Duration.
func (c EngineConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// SearchResult is one engine's own ranked result, before aggregation.
type SearchResult struct {
	URL           string
	Title         string
	Content       string
	ResultType    string
	Position      int // 1-based rank within the producing engine
	Thumbnail     string
	PublishedDate *time.Time
	Suggestion    string // optional "did you mean" carried by the producing engine
}

// Validate enforces spec §3's SearchResult invariants.
func (r SearchResult) Validate() error {
	if r.Position < 1 {
		return fmt.Errorf("result position must be >= 1, got %d", r.Position)
	}
	if _, err := url.Parse(r.URL); err != nil {
		return fmt.Errorf("result URL %q is not syntactically valid: %w", r.URL, err)
	}
	return nil
}

// MergedResult is a post-aggregation result: one normalized URL, produced by
// one or more engines, with a consensus score.
type MergedResult struct {
	NormalizedURL string
	Title         string
	Content       string
	ResultType    string
	Engines       []string // engine names that produced this URL, sorted
	Positions     []int    // one position per engine, same order as Engines
	Score         float64
	Thumbnail     string
	PublishedDate *time.Time
}

// ErrorKind classifies an EngineError per spec §7.
type ErrorKind string

const (
	ErrorKindTimeout            ErrorKind = "timeout"
	ErrorKindNetwork            ErrorKind = "network"
	ErrorKindHTTPStatus         ErrorKind = "http_status"
	ErrorKindParse              ErrorKind = "parse"
	ErrorKindRateLimited        ErrorKind = "rate_limited"
	ErrorKindBrowserUnavailable ErrorKind = "browser_unavailable"
	ErrorKindOther              ErrorKind = "other"
)

// EngineError is a non-fatal, per-engine failure surfaced in
// SearchResponse.Errors rather than returned to the caller.
type EngineError struct {
	Engine     string
	Kind       ErrorKind
	Message    string
	StatusCode int // populated only when Kind == ErrorKindHTTPStatus
}

func (e *EngineError) Error() string {
	if e.Kind == ErrorKindHTTPStatus {
		return fmt.Sprintf("engine %q: http status %d: %s", e.Engine, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("engine %q: %s: %s", e.Engine, e.Kind, e.Message)
}

// InvalidQueryError is the orchestrator's only call-level failure.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

// ConfigError is a registration-time misuse (duplicate shortcut, bad weight).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Reason)
}

// ProviderError wraps a Proxy Pool provider failure surfaced from Refresh().
type ProviderError struct {
	Reason string
	Cause  error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("proxy provider error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("proxy provider error: %s", e.Reason)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// SearchResponse is the final result of a Search() call.
type SearchResponse struct {
	QueryID     string
	Results     []MergedResult
	Count       int
	DurationMs  int64
	Errors      []EngineError
	Suggestions []string
}

// ProxyProtocol is the transport protocol a ProxyDescriptor speaks.
type ProxyProtocol string

const (
	ProxyProtocolHTTP   ProxyProtocol = "http"
	ProxyProtocolHTTPS  ProxyProtocol = "https"
	ProxyProtocolSocks5 ProxyProtocol = "socks5"
)

// ProxyCredentials holds optional basic-auth credentials for a proxy.
type ProxyCredentials struct {
	Username string
	Password string
}

// ProxyDescriptor identifies one upstream proxy.
type ProxyDescriptor struct {
	Host        string
	Port        int
	Protocol    ProxyProtocol
	Credentials *ProxyCredentials
	// Weight biases selection under proxypool's Weighted strategy. Zero
	// means "not set" and is treated as 1 (equal share) by the pool.
	Weight int
}

// Validate enforces spec §3's ProxyDescriptor invariant.
func (p ProxyDescriptor) Validate() error {
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("proxy port %d out of range [1, 65535]", p.Port)
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("proxy host must not be empty")
	}
	if p.Weight < 0 {
		return fmt.Errorf("proxy weight %d must not be negative", p.Weight)
	}
	return nil
}

// URL renders the descriptor as a net/url-parsable proxy URL.
func (p ProxyDescriptor) URL() *url.URL {
	u := &url.URL{
		Scheme: string(p.Protocol),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
	}
	if p.Credentials != nil {
		u.User = url.UserPassword(p.Credentials.Username, p.Credentials.Password)
	}
	return u
}
