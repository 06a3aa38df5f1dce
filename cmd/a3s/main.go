package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/a3s-lab/a3s-search/internal/config"
	"github.com/a3s-lab/a3s-search/internal/diagnostics"
	"github.com/a3s-lab/a3s-search/internal/resource"
	"github.com/a3s-lab/a3s-search/internal/resultwriter"
	"github.com/a3s-lab/a3s-search/internal/searchengine"
	"github.com/a3s-lab/a3s-search/pkg/a3search"
)

// Set by goreleaser via -ldflags at build time; fallback to "dev" for local builds.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "a3s",
	Short: "Embeddable meta-search CLI",
	Long: `a3s runs a single meta-search query across the engines configured in a
YAML config file and prints the consensus-ranked results.

Use 'a3s validate' to check a config file before running a search.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())
}

// --- version ---

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("a3s %s (commit: %s, built: %s)\n", version, commit, buildDate)
		},
	}
}

// --- validate ---

func validateCmd() *cobra.Command {
	var cfgPath string
	var checkDNS bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		Long: `Parse and validate a config file without running a search.

Checks the orchestrator deadline, every engine entry (name, shortcut
uniqueness, weight, fetcher kind), the proxy pool's strategy and refresh
settings, the browser pool's capacity, and the daemon's log level/format.

With --check-dns, also resolves every statically configured proxy host and
fails on the first one that doesn't answer, since a config can pass schema validation
and still name a proxy host that no longer exists.

Exits 0 and prints "config valid" on success.
Exits non-zero and prints the validation error on failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if checkDNS {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				for _, p := range cfg.ProxyPool.Proxies {
					if err := diagnostics.CheckHost(ctx, p.Host, ""); err != nil {
						return fmt.Errorf("proxy %s: %w", p.Host, err)
					}
				}
			}
			fmt.Println("config valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "config/example.yaml", "Path to YAML config file")
	cmd.Flags().BoolVar(&checkDNS, "check-dns", false, "Also resolve every configured proxy host")
	return cmd
}

// --- search ---

func searchCmd() *cobra.Command {
	var (
		cfgPath      string
		categories   []string
		engines      []string
		limit        int
		page         int
		jsonOut      bool
		logLevel     string
		outputPath   string
		outputFormat string
		outputAppend bool
	)

	cmd := &cobra.Command{
		Use:   "search <query text>",
		Short: "Run a meta-search query and print the consensus-ranked results",
		Long: `Run a single query against the engines configured in the YAML config
file, merge the per-engine results by normalized URL, score them by
weighted consensus, and print the ranked list.

By default results render in an interactive scrollable list. Pass --json
for machine-readable output instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			lvl := cfg.Daemon.LogLevel
			if logLevel != "" {
				lvl = logLevel
			}
			initLogger(lvl, cfg.Daemon.LogFormat)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			search, closeFn, err := buildSearch(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			query := a3search.NewQuery(strings.Join(args, " ")).Page(page).Limit(limit)
			if len(categories) > 0 {
				cats := make([]a3search.Category, len(categories))
				for i, c := range categories {
					cats[i] = a3search.Category(c)
				}
				query.Categories(cats...)
			}
			if len(engines) > 0 {
				query.Engines(engines...)
			}

			resp, err := search.Search(ctx, query.Build())
			if err != nil {
				return err
			}

			if outputPath != "" {
				w, err := resultwriter.New(outputPath, resultwriter.Format(outputFormat), outputAppend)
				if err != nil {
					return err
				}
				w.SendAll(resp)
				w.Close()
			}

			if jsonOut {
				return printJSON(resp)
			}
			return runResultsTUI(resp)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "config/example.yaml", "Path to YAML config file")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Restrict to these result categories (general,images,news,videos)")
	cmd.Flags().StringSliceVar(&engines, "engines", nil, "Restrict to these engine shortcuts")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of merged results (0 = unlimited)")
	cmd.Flags().IntVar(&page, "page", 1, "Result page to request from each engine")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON instead of the interactive list")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Also archive results to this file (jsonl or csv)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "jsonl", "Archive format: jsonl|csv")
	cmd.Flags().BoolVar(&outputAppend, "output-append", false, "Append to --output instead of truncating")

	return cmd
}

// buildSearch wires a *a3search.Search from the loaded config: one Option
// per ambient subsystem (proxy pool, browser pool, metrics), then one
// registered engine per enabled config.Engines entry.
func buildSearch(ctx context.Context, cfg *config.Config) (*a3search.Search, func(), error) {
	var opts []a3search.Option
	opts = append(opts, a3search.WithTimeout(cfg.Orchestrator.DefaultDeadline()))

	var proxyDescriptors []a3search.ProxyDescriptor
	if cfg.ProxyPool.Enabled {
		strategy := a3search.RoundRobin
		switch cfg.ProxyPool.Strategy {
		case "random":
			strategy = a3search.Random
		case "weighted":
			strategy = a3search.Weighted
		}
		opts = append(opts, a3search.WithProxyPool(strategy))

		proxyDescriptors = make([]a3search.ProxyDescriptor, len(cfg.ProxyPool.Proxies))
		for i, p := range cfg.ProxyPool.Proxies {
			proxyDescriptors[i] = p.ToProxyDescriptor()
		}
	}

	needsBrowser := false
	for _, e := range cfg.Engines {
		if e.Fetcher == "browser" {
			needsBrowser = true
			break
		}
	}
	if needsBrowser {
		var admission *resource.Monitor
		if cfg.BrowserPool.CPUThresholdPct > 0 {
			admission = resource.New(cfg.BrowserPool.CPUThresholdPct, cfg.BrowserPool.MemoryThresholdMB)
			admission.Start(ctx)
		}
		opts = append(opts, a3search.WithBrowserPool(a3search.BrowserPoolOptions{
			BinaryPath: cfg.BrowserPool.BinaryPath,
			CacheDir:   cfg.BrowserPool.CacheDir,
			Capacity:   cfg.BrowserPool.Capacity,
			Admission:  admission,
		}))
	}

	if cfg.Metrics.Enabled {
		opts = append(opts, a3search.WithMetrics())
	}

	search := a3search.New(opts...)
	if len(proxyDescriptors) > 0 {
		search.SetProxies(proxyDescriptors)
	}

	for _, e := range cfg.Engines {
		if !e.Enabled {
			continue
		}
		engine, err := buildEngine(e, search)
		if err != nil {
			search.Close()
			return nil, func() {}, err
		}
		if err := search.AddEngine(engine); err != nil {
			search.Close()
			return nil, func() {}, err
		}
	}

	if m := search.Metrics(); m != nil {
		go m.ServeHTTP(ctx, cfg.Metrics.PrometheusPort)
	}

	return search, search.Close, nil
}

// buildEngine maps a config.EngineConfig's Name to a concrete
// searchengine.Engine adapter. Unknown names are a config-time error: the
// set of adapters is fixed, unlike targets in a generic traffic generator.
func buildEngine(e config.EngineConfig, search *a3search.Search) (searchengine.Engine, error) {
	cfg := e.ToEngineConfig()
	switch strings.ToLower(e.Name) {
	case "duckduckgo":
		return searchengine.NewDuckDuckGo(cfg, search.HTTPFetcher()), nil
	case "bing":
		fetcher := search.BrowserFetcher()
		if fetcher == nil {
			return nil, fmt.Errorf("engine %q requires fetcher: browser and a configured browser_pool", e.Name)
		}
		return searchengine.NewBing(cfg, fetcher), nil
	default:
		return nil, fmt.Errorf("unknown engine %q: no adapter registered", e.Name)
	}
}

func initLogger(level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
