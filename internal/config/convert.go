package config

import (
	"time"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// ToEngineConfig converts a config-layer EngineConfig into the
// types.EngineConfig the orchestrator and engines operate on.
func (e EngineConfig) ToEngineConfig() types.EngineConfig {
	categories := make([]types.Category, 0, len(e.Categories))
	for _, c := range e.Categories {
		categories = append(categories, types.Category(c))
	}
	return types.EngineConfig{
		Name:               e.Name,
		Shortcut:           e.Shortcut,
		Categories:         categories,
		Weight:             e.Weight,
		TimeoutSeconds:     e.TimeoutSeconds,
		Enabled:            e.Enabled,
		SupportsPaging:     e.SupportsPaging,
		SupportsSafeSearch: e.SupportsSafeSearch,
		RateLimitRPS:       e.RateLimitRPS,
	}
}

// ToProxyDescriptor converts a config-layer ProxyConfig into a
// types.ProxyDescriptor for the Proxy Pool.
func (p ProxyConfig) ToProxyDescriptor() types.ProxyDescriptor {
	d := types.ProxyDescriptor{
		Host:     p.Host,
		Port:     p.Port,
		Protocol: types.ProxyProtocol(p.Protocol),
		Weight:   p.Weight,
	}
	if p.Username != "" {
		d.Credentials = &types.ProxyCredentials{Username: p.Username, Password: p.Password}
	}
	return d
}

// DefaultDeadline returns the orchestrator's configured default per-engine
// deadline as a time.Duration.
func (c OrchestratorConfig) DefaultDeadline() time.Duration {
	return time.Duration(c.DefaultDeadlineMs) * time.Millisecond
}
