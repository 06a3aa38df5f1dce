// Package features runs the Gherkin scenarios in aggregation.feature against
// the real orchestrator and aggregator, using stub engines in place of live
// network calls. Grounded on godog's own canonical TestSuite/
// ScenarioInitializer idiom (the teacher's go.mod lists godog as an unused
// dependency; no repo in the example corpus wires up a .feature suite, so
// there is no in-pack usage pattern to adapt — this follows godog's
// documented API directly).
package features

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/a3s-lab/a3s-search/internal/orchestrator"
	"github.com/a3s-lab/a3s-search/internal/types"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format: "pretty",
			Paths:  []string{"."},
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// stubEngine returns a canned result set (or a timeout error) without
// touching the network, mirroring internal/orchestrator's own test stub.
type stubEngine struct {
	cfg     types.EngineConfig
	results []types.SearchResult
	timeout bool
}

func (e *stubEngine) Config() types.EngineConfig { return e.cfg }

func (e *stubEngine) Search(ctx context.Context, q types.SearchQuery) ([]types.SearchResult, error) {
	if e.timeout {
		<-ctx.Done()
		return nil, &types.EngineError{Engine: e.cfg.Name, Kind: types.ErrorKindTimeout, Message: "engine timed out"}
	}
	return e.results, nil
}

// aggState holds the per-scenario fixture and outcome.
type aggState struct {
	orch       *orchestrator.Orchestrator
	engineRows map[string][][]string // engine name -> table rows, staged before Search
	resp       *types.SearchResponse
	err        error
}

func (s *aggState) reset() {
	s.orch = orchestrator.New(300 * time.Millisecond)
	s.engineRows = make(map[string][][]string)
	s.resp = nil
	s.err = nil
}

func (s *aggState) engineReturns(name string, weight float64, table *godog.Table) error {
	results := make([]types.SearchResult, 0, len(table.Rows)-1)
	header := table.Rows[0].Cells
	for _, row := range table.Rows[1:] {
		var url, title string
		var position int
		for i, cell := range row.Cells {
			switch header[i].Value {
			case "url":
				url = cell.Value
			case "title":
				title = cell.Value
			case "position":
				fmt.Sscanf(cell.Value, "%d", &position)
			}
		}
		results = append(results, types.SearchResult{URL: url, Title: title, Position: position})
	}
	return s.orch.Register(&stubEngine{
		cfg: types.EngineConfig{
			Name: name, Shortcut: name, Weight: weight, Enabled: true,
			Categories: []types.Category{types.CategoryGeneral}, TimeoutSeconds: 1,
		},
		results: results,
	})
}

func (s *aggState) engineReturnsNDistinctURLs(name string, weight float64, n int) error {
	results := make([]types.SearchResult, n)
	for i := 0; i < n; i++ {
		results[i] = types.SearchResult{
			URL:      fmt.Sprintf("https://example.com/page-%02d", i),
			Title:    fmt.Sprintf("Page %d", i),
			Position: i + 1,
		}
	}
	return s.orch.Register(&stubEngine{
		cfg: types.EngineConfig{
			Name: name, Shortcut: name, Weight: weight, Enabled: true,
			Categories: []types.Category{types.CategoryGeneral}, TimeoutSeconds: 1,
		},
		results: results,
	})
}

func (s *aggState) engineTimesOut(name string, weight float64) error {
	return s.orch.Register(&stubEngine{
		cfg: types.EngineConfig{
			Name: name, Shortcut: name, Weight: weight, Enabled: true,
			Categories: []types.Category{types.CategoryGeneral}, TimeoutSeconds: 1,
		},
		timeout: true,
	})
}

func (s *aggState) iSearchFor(text string) error {
	resp, err := s.orch.Search(context.Background(), types.SearchQuery{Text: text, Page: 1})
	s.resp, s.err = resp, err
	return nil
}

func (s *aggState) iSearchForWithLimit(text string, limit int) error {
	resp, err := s.orch.Search(context.Background(), types.SearchQuery{Text: text, Page: 1, Limit: limit})
	s.resp, s.err = resp, err
	return nil
}

func (s *aggState) iSearchForRestrictedToEngines(text, shortcut string) error {
	resp, err := s.orch.Search(context.Background(), types.SearchQuery{Text: text, Page: 1, Engines: []string{shortcut}})
	s.resp, s.err = resp, err
	return nil
}

func (s *aggState) theResultsInOrderShouldBe(table *godog.Table) error {
	if s.err != nil {
		return fmt.Errorf("search failed: %w", s.err)
	}
	if len(s.resp.Results) != len(table.Rows) {
		return fmt.Errorf("expected %d results, got %d: %+v", len(table.Rows), len(s.resp.Results), s.resp.Results)
	}
	for i, row := range table.Rows {
		want := row.Cells[0].Value
		got := s.resp.Results[i].NormalizedURL
		if got != want {
			return fmt.Errorf("result[%d]: expected %q, got %q", i, want, got)
		}
	}
	return nil
}

func (s *aggState) theResultAtShouldBeProducedByEngines(url string, n int) error {
	for _, r := range s.resp.Results {
		if r.NormalizedURL == url {
			if len(r.Engines) != n {
				return fmt.Errorf("expected %d engines for %q, got %d: %v", n, url, len(r.Engines), r.Engines)
			}
			return nil
		}
	}
	return fmt.Errorf("no result found for %q", url)
}

func (s *aggState) thereShouldBeNMergedResults(n int) error {
	if s.err != nil {
		return fmt.Errorf("search failed: %w", s.err)
	}
	if len(s.resp.Results) != n {
		return fmt.Errorf("expected %d merged results, got %d", n, len(s.resp.Results))
	}
	return nil
}

func (s *aggState) thereShouldBeNEngineErrorsForOfKind(n int, engine, kind string) error {
	count := 0
	for _, e := range s.resp.Errors {
		if e.Engine == engine && string(e.Kind) == kind {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d error(s) for engine %q of kind %q, got %d: %+v", n, engine, kind, count, s.resp.Errors)
	}
	return nil
}

func (s *aggState) theSearchShouldFailWithAnInvalidQueryError() error {
	if s.err == nil {
		return fmt.Errorf("expected an InvalidQueryError, got a successful response: %+v", s.resp)
	}
	if _, ok := s.err.(*types.InvalidQueryError); !ok {
		return fmt.Errorf("expected *types.InvalidQueryError, got %T: %v", s.err, s.err)
	}
	return nil
}

func (s *aggState) theResultsShouldBeInScoreDescendingOrder() error {
	for i := 1; i < len(s.resp.Results); i++ {
		if s.resp.Results[i].Score > s.resp.Results[i-1].Score {
			return fmt.Errorf("results not score-descending at index %d: %v > %v",
				i, s.resp.Results[i].Score, s.resp.Results[i-1].Score)
		}
	}
	return nil
}

func InitializeScenario(sc *godog.ScenarioContext) {
	state := &aggState{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	sc.Step(`^engine "([^"]*)" with weight ([\d.]+) returns:$`, func(name string, weight float64, table *godog.Table) error {
		return state.engineReturns(name, weight, table)
	})
	sc.Step(`^engine "([^"]*)" with weight ([\d.]+) returns (\d+) distinct URLs$`, state.engineReturnsNDistinctURLs)
	sc.Step(`^engine "([^"]*)" with weight ([\d.]+) times out$`, state.engineTimesOut)
	sc.Step(`^I search for "([^"]*)"$`, state.iSearchFor)
	sc.Step(`^I search for "([^"]*)" with a limit of (\d+)$`, state.iSearchForWithLimit)
	sc.Step(`^I search for "([^"]*)" restricted to engines "([^"]*)"$`, state.iSearchForRestrictedToEngines)
	sc.Step(`^the results in order should be:$`, state.theResultsInOrderShouldBe)
	sc.Step(`^the result at "([^"]*)" should be produced by (\d+) engines?$`, state.theResultAtShouldBeProducedByEngines)
	sc.Step(`^there should be (\d+) merged results?$`, state.thereShouldBeNMergedResults)
	sc.Step(`^there should be (\d+) engine errors? for "([^"]*)" of kind "([^"]*)"$`, state.thereShouldBeNEngineErrorsForOfKind)
	sc.Step(`^the search should fail with an invalid query error$`, state.theSearchShouldFailWithAnInvalidQueryError)
	sc.Step(`^the results should be in score-descending order$`, state.theResultsShouldBeInScoreDescendingOrder)
}
