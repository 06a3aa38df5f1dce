// Package config loads and validates the YAML configuration for the a3s
// CLI host: which engines to register, the proxy pool, the browser pool,
// and ambient daemon/metrics settings. The search library itself
// (internal/orchestrator, internal/types, ...) never depends on this
// package — config is strictly a concern of the command-line host.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the YAML config at path, applies defaults, and validates.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("orchestrator.default_deadline_ms", 10000)

	v.SetDefault("proxy_pool.enabled", false)
	v.SetDefault("proxy_pool.strategy", "round_robin")
	v.SetDefault("proxy_pool.refresh.mode", "none")

	v.SetDefault("browser_pool.capacity", 4)
	v.SetDefault("browser_pool.cpu_threshold_pct", 80.0)
	v.SetDefault("browser_pool.memory_threshold_mb", uint64(2048))

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.prometheus_port", 9090)

	v.SetDefault("daemon.log_level", "info")
	v.SetDefault("daemon.log_format", "text")
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Orchestrator.DefaultDeadlineMs <= 0 {
		errs = append(errs, "orchestrator.default_deadline_ms must be > 0")
	}

	if len(cfg.Engines) == 0 {
		errs = append(errs, "engines must have at least one entry")
	}

	shortcuts := make(map[string]bool, len(cfg.Engines))
	validFetchers := map[string]bool{"http": true, "browser": true}
	for i, e := range cfg.Engines {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Sprintf("engines[%d].name must not be empty", i))
		}
		if strings.TrimSpace(e.Shortcut) == "" {
			errs = append(errs, fmt.Sprintf("engines[%d].shortcut must not be empty", i))
		} else if shortcuts[e.Shortcut] {
			errs = append(errs, fmt.Sprintf("engines[%d].shortcut %q is registered more than once", i, e.Shortcut))
		} else {
			shortcuts[e.Shortcut] = true
		}
		if e.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("engines[%d].weight must be > 0", i))
		}
		if !validFetchers[e.Fetcher] {
			errs = append(errs, fmt.Sprintf("engines[%d].fetcher must be http|browser, got %q", i, e.Fetcher))
		}
	}

	validStrategies := map[string]bool{"round_robin": true, "random": true, "weighted": true}
	if !validStrategies[cfg.ProxyPool.Strategy] {
		errs = append(errs, fmt.Sprintf("proxy_pool.strategy must be round_robin|random|weighted, got %q", cfg.ProxyPool.Strategy))
	}
	validRefreshModes := map[string]bool{"none": true, "cron": true, "websocket": true}
	if !validRefreshModes[cfg.ProxyPool.Refresh.Mode] {
		errs = append(errs, fmt.Sprintf("proxy_pool.refresh.mode must be none|cron|websocket, got %q", cfg.ProxyPool.Refresh.Mode))
	}
	if cfg.ProxyPool.Refresh.Mode == "cron" && cfg.ProxyPool.Refresh.CronSchedule == "" {
		errs = append(errs, "proxy_pool.refresh.cron_schedule is required when refresh.mode is cron")
	}
	if cfg.ProxyPool.Refresh.Mode == "websocket" && cfg.ProxyPool.Refresh.WebSocketURL == "" {
		errs = append(errs, "proxy_pool.refresh.websocket_url is required when refresh.mode is websocket")
	}
	validProtocols := map[string]bool{"http": true, "https": true, "socks5": true}
	for i, p := range cfg.ProxyPool.Proxies {
		if p.Host == "" {
			errs = append(errs, fmt.Sprintf("proxy_pool.proxies[%d].host must not be empty", i))
		}
		if p.Port < 1 || p.Port > 65535 {
			errs = append(errs, fmt.Sprintf("proxy_pool.proxies[%d].port out of range [1, 65535]", i))
		}
		if !validProtocols[p.Protocol] {
			errs = append(errs, fmt.Sprintf("proxy_pool.proxies[%d].protocol must be http|https|socks5, got %q", i, p.Protocol))
		}
	}

	if cfg.BrowserPool.Capacity <= 0 {
		errs = append(errs, "browser_pool.capacity must be > 0")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Daemon.LogLevel] {
		errs = append(errs, fmt.Sprintf("daemon.log_level must be one of debug|info|warn|error, got %q", cfg.Daemon.LogLevel))
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[cfg.Daemon.LogFormat] {
		errs = append(errs, fmt.Sprintf("daemon.log_format must be text|json, got %q", cfg.Daemon.LogFormat))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
