// Package fetcher implements the Page Fetcher capability described in spec
// §4.2: turning a URL into page bytes (HTTP variant) or a rendered DOM
// (Browser variant), behind a single contract engines depend on.
package fetcher

import (
	"context"
	"time"
)

// WaitStrategy controls how long the Browser fetcher waits before reading
// the DOM. It is ignored by the HTTP fetcher.
type WaitStrategy struct {
	Kind            WaitKind
	Delay           time.Duration // used when Kind == WaitKindFixedDelay
	Selector        string        // used when Kind == WaitKindSelector
	SelectorTimeout time.Duration
	NetworkIdle     time.Duration // used when Kind == WaitKindNetworkIdle
}

// WaitKind enumerates the wait strategies named in spec §4.2.
type WaitKind int

const (
	WaitNone WaitKind = iota
	WaitKindFixedDelay
	WaitKindSelector
	WaitKindNetworkIdle
)

// Options configures one Fetch call.
type Options struct {
	Wait          WaitStrategy
	UserAgent     string
	ProxyOverride string // optional per-request proxy URL, overrides the pool's selection
}

// Page is the result of a successful fetch.
type Page struct {
	URL      string
	HTML     []byte
	MimeType string
}

// Fetcher turns a URL into page bytes or a rendered DOM.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (*Page, error)
}
