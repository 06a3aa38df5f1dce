package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/a3s-lab/a3s-search/internal/proxypool"
)

const defaultRedirectCap = 10

// ClientFactory builds an *http.Client bound to whatever proxy the pool
// selects for this call. It is satisfied by *proxypool.Pool's BuildClient.
type ClientFactory interface {
	BuildClient(userAgent string) (*http.Client, error)
}

// HTTPFetcher issues one direct HTTP request per Fetch call.
type HTTPFetcher struct {
	clients     ClientFactory
	redirectCap int
}

// NewHTTPFetcher creates an HTTPFetcher bound to the given proxy client
// factory. A nil factory is legal and yields a direct, proxy-less client.
func NewHTTPFetcher(clients ClientFactory) *HTTPFetcher {
	return &HTTPFetcher{clients: clients, redirectCap: defaultRedirectCap}
}

// Fetch performs the HTTP request described by opts.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, opts Options) (*Page, error) {
	client, err := f.clientFor(opts)
	if err != nil {
		return nil, &NetworkError{Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &NetworkError{Cause: err}
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{}
		}
		return nil, &NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &HTTPStatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Cause: err}
	}

	return &Page{
		URL:      rawURL,
		HTML:     body,
		MimeType: resp.Header.Get("Content-Type"),
	}, nil
}

func (f *HTTPFetcher) clientFor(opts Options) (*http.Client, error) {
	if opts.ProxyOverride != "" {
		proxyURL, err := url.Parse(opts.ProxyOverride)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy override %q: %w", opts.ProxyOverride, err)
		}
		return &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyURL(proxyURL),
				MaxIdleConnsPerHost: 10,
			},
			CheckRedirect: redirectCapFunc(f.redirectCap),
		}, nil
	}

	if f.clients == nil {
		return &http.Client{CheckRedirect: redirectCapFunc(f.redirectCap)}, nil
	}

	client, err := f.clients.BuildClient(opts.UserAgent)
	if err != nil {
		if errors.Is(err, proxypool.ErrNoProxyAvailable) {
			return &http.Client{CheckRedirect: redirectCapFunc(f.redirectCap)}, nil
		}
		return nil, err
	}
	client.CheckRedirect = redirectCapFunc(f.redirectCap)
	return client, nil
}

func redirectCapFunc(cap int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= cap {
			return fmt.Errorf("stopped after %d redirects", cap)
		}
		return nil
	}
}
