package config

// Config is the root configuration structure for the a3s CLI host.
type Config struct {
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Engines      []EngineConfig     `mapstructure:"engines"`
	ProxyPool    ProxyPoolConfig    `mapstructure:"proxy_pool"`
	BrowserPool  BrowserPoolConfig  `mapstructure:"browser_pool"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Daemon       DaemonConfig       `mapstructure:"daemon"`
}

// OrchestratorConfig controls the Search Orchestrator's fan-out behavior.
type OrchestratorConfig struct {
	DefaultDeadlineMs int `mapstructure:"default_deadline_ms"`
}

// EngineConfig describes one registered search engine, mirroring
// types.EngineConfig's fields one-to-one for YAML decoding.
type EngineConfig struct {
	Name               string   `mapstructure:"name"`
	Shortcut           string   `mapstructure:"shortcut"`
	Categories         []string `mapstructure:"categories"`
	Weight             float64  `mapstructure:"weight"`
	TimeoutSeconds     float64  `mapstructure:"timeout_seconds"`
	Enabled            bool     `mapstructure:"enabled"`
	SupportsPaging     bool     `mapstructure:"supports_paging"`
	SupportsSafeSearch bool     `mapstructure:"supports_safe_search"`
	RateLimitRPS       float64  `mapstructure:"rate_limit_rps"`
	Fetcher            string   `mapstructure:"fetcher"` // http | browser
}

// ProxyPoolConfig configures the outbound Proxy Pool.
type ProxyPoolConfig struct {
	Enabled  bool               `mapstructure:"enabled"`
	Strategy string             `mapstructure:"strategy"` // round_robin | random | weighted
	Proxies  []ProxyConfig      `mapstructure:"proxies"`
	Refresh  ProxyRefreshConfig `mapstructure:"refresh"`
}

// ProxyConfig describes one statically configured proxy descriptor.
type ProxyConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Protocol string `mapstructure:"protocol"` // http | https | socks5
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Weight   int    `mapstructure:"weight"` // used only when proxy_pool.strategy is weighted
}

// ProxyRefreshConfig configures the optional dynamic proxy Provider.
type ProxyRefreshConfig struct {
	Mode         string `mapstructure:"mode"` // none | cron | websocket
	CronSchedule string `mapstructure:"cron_schedule"`
	WebSocketURL string `mapstructure:"websocket_url"`
}

// BrowserPoolConfig configures the shared headless-browser process.
type BrowserPoolConfig struct {
	BinaryPath        string  `mapstructure:"binary_path"`
	CacheDir          string  `mapstructure:"cache_dir"`
	Capacity          int     `mapstructure:"capacity"`
	CPUThresholdPct   float64 `mapstructure:"cpu_threshold_pct"`
	MemoryThresholdMB uint64  `mapstructure:"memory_threshold_mb"`
}

// MetricsConfig controls Prometheus metrics exposition.
type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	PrometheusPort int  `mapstructure:"prometheus_port"`
}

// DaemonConfig holds process-level settings for the CLI host.
type DaemonConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}
