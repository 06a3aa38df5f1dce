// Package orchestrator implements the Search Orchestrator described in
// spec §4.6: it resolves which engines a query should run against, fans
// the query out to each with an independent deadline, waits for every
// engine to finish or time out without ever cancelling a sibling, and
// feeds the results into the Aggregator.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/a3s-lab/a3s-search/internal/aggregator"
	"github.com/a3s-lab/a3s-search/internal/metrics"
	"github.com/a3s-lab/a3s-search/internal/ratelimit"
	"github.com/a3s-lab/a3s-search/internal/searchengine"
	"github.com/a3s-lab/a3s-search/internal/types"
)

const defaultDeadline = 10 * time.Second

// Registration pairs a live Engine with the config it was built from, so
// the orchestrator can resolve the active set without re-querying the
// engine for its own shortcut/categories on every search.
type Registration struct {
	Engine searchengine.Engine
	Config types.EngineConfig
}

// Orchestrator holds the registered engine set and the default per-engine
// deadline applied when an engine's own timeout is unset or larger.
type Orchestrator struct {
	mu              sync.RWMutex
	registrations   []Registration
	defaultDeadline time.Duration
	metrics         *metrics.Metrics
	rateLimits      *ratelimit.Registry
}

// New creates an Orchestrator with the given default per-engine deadline.
// A zero deadline uses defaultDeadline (spec §4.6).
func New(deadline time.Duration) *Orchestrator {
	if deadline <= 0 {
		deadline = defaultDeadline
	}
	return &Orchestrator{
		defaultDeadline: deadline,
		metrics:         metrics.Noop(),
		rateLimits:      ratelimit.NewRegistry(0, nil),
	}
}

// WithMetrics swaps in a non-noop Metrics instance, for hosts that expose
// a Prometheus endpoint.
func (o *Orchestrator) WithMetrics(m *metrics.Metrics) *Orchestrator {
	o.metrics = m
	return o
}

// Register adds an engine to the active registry. ConfigError is returned
// if the engine's own config fails validation (spec §4.1).
func (o *Orchestrator) Register(engine searchengine.Engine) error {
	cfg := engine.Config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, r := range o.registrations {
		if r.Config.Shortcut == cfg.Shortcut {
			return &types.ConfigError{Reason: fmt.Sprintf("engine shortcut %q already registered", cfg.Shortcut)}
		}
		if r.Config.Name == cfg.Name {
			return &types.ConfigError{Reason: fmt.Sprintf("engine %q already registered", cfg.Name)}
		}
	}
	o.registrations = append(o.registrations, Registration{Engine: engine, Config: cfg})
	if cfg.RateLimitRPS > 0 {
		o.rateLimits.SetRPS(cfg.Shortcut, cfg.RateLimitRPS)
	}
	return nil
}

// Search resolves the active engine set, fans the query out to each with
// its own deadline, aggregates whatever came back, and packages the
// result. It never returns a transport-style error for a single engine's
// failure — those accumulate in SearchResponse.Errors (spec §4.6/§7).
func (o *Orchestrator) Search(ctx context.Context, query types.SearchQuery) (*types.SearchResponse, error) {
	start := time.Now()

	text, err := query.Validate()
	if err != nil {
		o.metrics.RecordQuery(nil, true)
		return nil, err
	}
	query.Text = text

	active, err := o.resolveActiveSet(query)
	if err != nil {
		o.metrics.RecordQuery(nil, true)
		return nil, err
	}

	queryID := uuid.NewString()

	if len(active) == 0 {
		// A category filter that matches no enabled engine degrades
		// gracefully per spec §4.6; only an explicit, unmatched engine
		// shortcut set is an InvalidQuery (handled in resolveActiveSet).
		resp := &types.SearchResponse{
			QueryID:    queryID,
			Results:    nil,
			Count:      0,
			DurationMs: time.Since(start).Milliseconds(),
		}
		o.metrics.RecordQuery(resp, false)
		return resp, nil
	}

	resultsByEngine := make([]aggregator.EngineResults, len(active))
	suggestionsByEngine := make([]string, len(active))
	engineErrors := make([]types.EngineError, 0, len(active))
	var errMu sync.Mutex

	var wg sync.WaitGroup
	for i, reg := range active {
		wg.Add(1)
		go func(i int, reg Registration) {
			defer wg.Done()

			deadline := reg.Config.Timeout()
			if deadline <= 0 || deadline > o.defaultDeadline {
				deadline = o.defaultDeadline
			}
			engineCtx, cancel := context.WithTimeout(ctx, deadline)
			defer cancel()

			if reg.Config.RateLimitRPS > 0 {
				if err := o.rateLimits.Wait(engineCtx, reg.Config.Shortcut); err != nil {
					engErr := types.EngineError{Engine: reg.Config.Name, Kind: types.ErrorKindRateLimited, Message: err.Error()}
					errMu.Lock()
					engineErrors = append(engineErrors, engErr)
					errMu.Unlock()
					o.metrics.RecordEngine(reg.Config.Name, 0, &engErr)
					return
				}
			}

			engineStart := time.Now()
			results, err := reg.Engine.Search(engineCtx, query)
			elapsed := time.Since(engineStart).Seconds()

			if err != nil {
				engErr := toEngineError(reg.Config.Name, err)
				errMu.Lock()
				engineErrors = append(engineErrors, engErr)
				errMu.Unlock()
				o.metrics.RecordEngine(reg.Config.Name, elapsed, &engErr)
				log.Warn().Str("engine", reg.Config.Name).Err(err).Msg("engine search failed")
				return
			}
			o.metrics.RecordEngine(reg.Config.Name, elapsed, nil)

			resultsByEngine[i] = aggregator.EngineResults{
				EngineName: reg.Config.Name,
				Weight:     reg.Config.Weight,
				Results:    results,
			}
			for _, r := range results {
				if r.Suggestion != "" {
					suggestionsByEngine[i] = r.Suggestion
					break
				}
			}
		}(i, reg)
	}
	wg.Wait()

	nonEmpty := make([]aggregator.EngineResults, 0, len(resultsByEngine))
	for _, er := range resultsByEngine {
		if er.EngineName != "" {
			nonEmpty = append(nonEmpty, er)
		}
	}

	merged, err := aggregator.Aggregate(nonEmpty)
	if err != nil {
		return nil, err
	}

	if query.Limit > 0 && len(merged) > query.Limit {
		merged = merged[:query.Limit]
	}

	sort.Slice(engineErrors, func(i, j int) bool { return engineErrors[i].Engine < engineErrors[j].Engine })

	var suggestions []string
	for _, s := range suggestionsByEngine {
		if s != "" {
			suggestions = append(suggestions, s)
			break
		}
	}

	resp := &types.SearchResponse{
		QueryID:     queryID,
		Results:     merged,
		Count:       len(merged),
		DurationMs:  time.Since(start).Milliseconds(),
		Errors:      engineErrors,
		Suggestions: suggestions,
	}
	o.metrics.RecordQuery(resp, false)
	return resp, nil
}

// resolveActiveSet applies spec §4.6's precedence: an explicit shortcut
// allow-list (query.Engines) takes priority over category filtering, and
// an empty intersection against the registry is an InvalidQuery (Scenario
// E). An empty allow-list instead falls back to every enabled engine whose
// categories intersect query.Categories (or every enabled engine, if no
// categories were requested either) — an empty match there degrades
// gracefully rather than failing the call, since it was never an explicit
// request for engines that don't exist.
func (o *Orchestrator) resolveActiveSet(query types.SearchQuery) ([]Registration, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(query.Engines) > 0 {
		wanted := make(map[string]bool, len(query.Engines))
		for _, shortcut := range query.Engines {
			wanted[shortcut] = true
		}
		var active []Registration
		for _, r := range o.registrations {
			if r.Config.Enabled && wanted[r.Config.Shortcut] {
				active = append(active, r)
			}
		}
		if len(active) == 0 {
			return nil, &types.InvalidQueryError{
				Reason: fmt.Sprintf("none of the requested engines %v are registered and enabled", query.Engines),
			}
		}
		return active, nil
	}

	if len(query.Categories) == 0 {
		var active []Registration
		for _, r := range o.registrations {
			if r.Config.Enabled {
				active = append(active, r)
			}
		}
		return active, nil
	}

	wantedCategories := make(map[types.Category]bool, len(query.Categories))
	for _, c := range query.Categories {
		wantedCategories[c] = true
	}
	var active []Registration
	for _, r := range o.registrations {
		if !r.Config.Enabled {
			continue
		}
		for _, c := range r.Config.Categories {
			if wantedCategories[c] {
				active = append(active, r)
				break
			}
		}
	}
	return active, nil
}

func toEngineError(engineName string, err error) types.EngineError {
	if ee, ok := err.(*types.EngineError); ok {
		return *ee
	}
	return types.EngineError{Engine: engineName, Kind: types.ErrorKindOther, Message: err.Error()}
}
