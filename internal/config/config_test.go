package config

import (
	"os"
	"testing"
)

// writeTemp writes content to a temporary YAML file and returns the path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.yaml")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	f.Close()
	return f.Name()
}

// minimalValidYAML is a minimal config that passes validation.
const minimalValidYAML = `
orchestrator:
  default_deadline_ms: 8000
engines:
  - name: duckduckgo
    shortcut: ddg
    categories: [general]
    weight: 1.0
    timeout_seconds: 3
    enabled: true
    fetcher: http
proxy_pool:
  enabled: false
  strategy: round_robin
  refresh:
    mode: none
browser_pool:
  capacity: 2
daemon:
  log_level: info
  log_format: text
`

func TestLoad_MinimalValidConfig(t *testing.T) {
	path := writeTemp(t, minimalValidYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Engines) != 1 || cfg.Engines[0].Shortcut != "ddg" {
		t.Fatalf("unexpected engines: %+v", cfg.Engines)
	}
	if cfg.Orchestrator.DefaultDeadlineMs != 8000 {
		t.Errorf("expected default_deadline_ms 8000, got %d", cfg.Orchestrator.DefaultDeadlineMs)
	}
}

func TestLoad_DefaultsAppliedWhenOmitted(t *testing.T) {
	path := writeTemp(t, `
engines:
  - name: duckduckgo
    shortcut: ddg
    weight: 1.0
    fetcher: http
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Orchestrator.DefaultDeadlineMs != 10000 {
		t.Errorf("expected default deadline 10000ms, got %d", cfg.Orchestrator.DefaultDeadlineMs)
	}
	if cfg.BrowserPool.Capacity != 4 {
		t.Errorf("expected default browser pool capacity 4, got %d", cfg.BrowserPool.Capacity)
	}
	if cfg.ProxyPool.Strategy != "round_robin" {
		t.Errorf("expected default proxy strategy round_robin, got %q", cfg.ProxyPool.Strategy)
	}
}

func TestLoad_RejectsNoEngines(t *testing.T) {
	path := writeTemp(t, `
daemon:
  log_level: info
  log_format: text
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when no engines are configured")
	}
}

func TestLoad_RejectsDuplicateShortcut(t *testing.T) {
	path := writeTemp(t, `
engines:
  - name: duckduckgo
    shortcut: ddg
    weight: 1.0
    fetcher: http
  - name: duckduckgo-2
    shortcut: ddg
    weight: 1.0
    fetcher: http
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for duplicate engine shortcuts")
	}
}

func TestLoad_RejectsInvalidFetcherKind(t *testing.T) {
	path := writeTemp(t, `
engines:
  - name: duckduckgo
    shortcut: ddg
    weight: 1.0
    fetcher: carrier-pigeon
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown fetcher kind")
	}
}

func TestLoad_RejectsCronRefreshWithoutSchedule(t *testing.T) {
	path := writeTemp(t, `
engines:
  - name: duckduckgo
    shortcut: ddg
    weight: 1.0
    fetcher: http
proxy_pool:
  refresh:
    mode: cron
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when cron refresh mode lacks a schedule")
	}
}

func TestLoad_RejectsMalformedProxyProtocol(t *testing.T) {
	path := writeTemp(t, `
engines:
  - name: duckduckgo
    shortcut: ddg
    weight: 1.0
    fetcher: http
proxy_pool:
  enabled: true
  proxies:
    - host: proxy.example.com
      port: 1080
      protocol: gopher
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unsupported proxy protocol")
	}
}
