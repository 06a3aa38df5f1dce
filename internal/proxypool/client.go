package proxypool

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// BuildClient selects a descriptor from the pool and returns an *http.Client
// dialing through it. If the pool has no usable descriptor it returns a
// direct client wrapping ErrNoProxyAvailable, which callers treat as
// "proceed without a proxy" rather than a hard failure (spec §4.3: proxy
// exhaustion degrades to direct connections, it does not fail the fetch).
func (p *Pool) BuildClient(userAgent string) (*http.Client, error) {
	descriptor, err := p.Select()
	if err != nil {
		if errors.Is(err, ErrNoProxyAvailable) {
			return directClient(), ErrNoProxyAvailable
		}
		return nil, err
	}

	transport, err := transportFor(descriptor)
	if err != nil {
		return nil, fmt.Errorf("proxypool: building transport for %s: %w", descriptor.Host, err)
	}

	return &http.Client{Transport: transport}, nil
}

func directClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func transportFor(d types.ProxyDescriptor) (*http.Transport, error) {
	switch d.Protocol {
	case types.ProxyProtocolHTTP, types.ProxyProtocolHTTPS:
		return &http.Transport{
			Proxy:               http.ProxyURL(d.URL()),
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}, nil

	case types.ProxyProtocolSocks5:
		var auth *proxy.Auth
		if d.Credentials != nil {
			auth = &proxy.Auth{User: d.Credentials.Username, Password: d.Credentials.Password}
		}
		dialer, err := proxy.SOCKS5("tcp", fmt.Sprintf("%s:%d", d.Host, d.Port), auth, proxy.Direct)
		if err != nil {
			return nil, err
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("socks5 dialer does not support context dialing")
		}
		return &http.Transport{
			DialContext:         contextDialer.DialContext,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported proxy protocol %q", d.Protocol)
	}
}
