// Package proxypool implements the Proxy Pool described in spec §4.4: an
// ordered, thread-safe set of outbound proxy descriptors that the Page
// Fetcher draws from before each request, plus the strategies and dynamic
// providers that keep that set populated.
package proxypool

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// ErrNoProxyAvailable is returned by Select when the pool is disabled or
// holds no descriptors, and by BuildClient when it falls through to
// a direct (proxy-less) client for that reason.
var ErrNoProxyAvailable = errors.New("proxypool: no proxy available")

// Strategy selects the next descriptor from an ordered, non-empty list.
type Strategy int

const (
	// RoundRobin cycles through descriptors in registration order.
	RoundRobin Strategy = iota
	// Random picks a uniformly random descriptor on each call.
	Random
	// Weighted picks a descriptor with probability proportional to its
	// Weight field (zero treated as 1), via an alias table rebuilt each
	// time the descriptor set changes.
	Weighted
)

// Pool holds the active proxy descriptor set and hands one out per request.
type Pool struct {
	mu        sync.Mutex
	enabled   bool
	strategy  Strategy
	proxies   []types.ProxyDescriptor
	nextIndex int
	alias     *aliasTable
}

// New creates a Pool. When enabled is false, Select always returns
// ErrNoProxyAvailable and BuildClient always falls back to a direct client.
func New(enabled bool, strategy Strategy) *Pool {
	return &Pool{enabled: enabled, strategy: strategy}
}

// SetProxies replaces the pool's descriptor set atomically. Used both for
// static configuration at startup and for periodic provider refreshes.
// Strategy state (the RoundRobin cursor, the Weighted alias table) is reset
// along with the set, per spec §4.4's refresh() contract.
func (p *Pool) SetProxies(proxies []types.ProxyDescriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.proxies = append([]types.ProxyDescriptor(nil), proxies...)
	p.nextIndex = 0
	p.rebuildAlias()
}

// Add appends a descriptor to the pool's set. Strategy state is reset, same
// as a full SetProxies, since the set composition changed.
func (p *Pool) Add(d types.ProxyDescriptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.proxies = append(p.proxies, d)
	p.nextIndex = 0
	p.rebuildAlias()
}

// Remove drops every descriptor with the given host:port from the pool's
// set. Strategy state is reset along with the set.
func (p *Pool) Remove(host string, port int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.proxies[:0:0]
	for _, d := range p.proxies {
		if d.Host == host && d.Port == port {
			continue
		}
		kept = append(kept, d)
	}
	p.proxies = kept
	p.nextIndex = 0
	p.rebuildAlias()
}

// rebuildAlias recomputes the Weighted strategy's alias table from the
// current descriptor set. Callers must hold p.mu.
func (p *Pool) rebuildAlias() {
	weights := make([]int, len(p.proxies))
	for i, d := range p.proxies {
		w := d.Weight
		if w <= 0 {
			w = 1
		}
		weights[i] = w
	}
	p.alias = buildAliasTable(weights)
}

// SetEnabled toggles whether the pool hands out proxies at all.
func (p *Pool) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// Refresh fetches a fresh descriptor set from provider and replaces the
// pool's current set with it, the same operation ScheduledRefresher performs
// on a timer. Kept on Pool itself so a host can trigger an out-of-band
// refresh (e.g. from a CLI subcommand) without standing up a cron schedule.
func (p *Pool) Refresh(ctx context.Context, provider Provider) error {
	descriptors, err := provider.Fetch(ctx)
	if err != nil {
		return &types.ProviderError{Reason: "refresh", Cause: err}
	}
	p.SetProxies(descriptors)
	return nil
}

// Select returns the next descriptor per the pool's strategy.
func (p *Pool) Select() (types.ProxyDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || len(p.proxies) == 0 {
		return types.ProxyDescriptor{}, ErrNoProxyAvailable
	}

	switch p.strategy {
	case Random:
		return p.proxies[rand.Intn(len(p.proxies))], nil //nolint:gosec
	case Weighted:
		if p.alias == nil {
			return p.proxies[rand.Intn(len(p.proxies))], nil //nolint:gosec
		}
		return p.proxies[p.alias.pick()], nil
	default:
		d := p.proxies[p.nextIndex]
		p.nextIndex = (p.nextIndex + 1) % len(p.proxies)
		return d, nil
	}
}

// Len reports the current descriptor count, for metrics and tests.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies)
}

// Enabled reports whether the pool is configured to hand out proxies at all.
func (p *Pool) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}
