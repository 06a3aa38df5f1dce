package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/a3s-lab/a3s-search/internal/types"
)

type stubEngine struct {
	cfg     types.EngineConfig
	results []types.SearchResult
	err     error
	delay   time.Duration
}

func (s *stubEngine) Config() types.EngineConfig { return s.cfg }

func (s *stubEngine) Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, &types.EngineError{Engine: s.cfg.Name, Kind: types.ErrorKindTimeout, Message: "deadline exceeded"}
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func engineConfig(name, shortcut string) types.EngineConfig {
	return types.EngineConfig{
		Name:           name,
		Shortcut:       shortcut,
		Categories:     []types.Category{types.CategoryGeneral},
		Weight:         1.0,
		TimeoutSeconds: 1,
		Enabled:        true,
	}
}

func TestOrchestrator_ScenarioD_PartialFailureDegradesGracefully(t *testing.T) {
	o := New(2 * time.Second)
	mustRegister(t, o, &stubEngine{
		cfg:     engineConfig("A", "a"),
		results: []types.SearchResult{{URL: "https://example.com/u1", Position: 1}},
	})
	mustRegister(t, o, &stubEngine{
		cfg: engineConfig("B", "b"),
		err: &types.EngineError{Engine: "B", Kind: types.ErrorKindTimeout, Message: "timed out"},
	})

	resp, err := o.Search(context.Background(), types.SearchQuery{Text: "golang", Page: 1})
	if err != nil {
		t.Fatalf("Search returned a call-level error for a partial failure: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("expected count 1, got %d", resp.Count)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Engine != "B" || resp.Errors[0].Kind != types.ErrorKindTimeout {
		t.Errorf("expected a single timeout error for engine B, got %+v", resp.Errors)
	}
}

func TestOrchestrator_ScenarioE_ExplicitEngineSetMissIsInvalidQuery(t *testing.T) {
	o := New(2 * time.Second)
	mustRegister(t, o, &stubEngine{cfg: engineConfig("A", "a")})
	mustRegister(t, o, &stubEngine{cfg: engineConfig("B", "b")})

	_, err := o.Search(context.Background(), types.SearchQuery{
		Text:    "golang",
		Page:    1,
		Engines: []string{"nonexistent"},
	})
	if _, ok := err.(*types.InvalidQueryError); !ok {
		t.Fatalf("expected *types.InvalidQueryError, got %v (%T)", err, err)
	}
}

func TestOrchestrator_ScenarioF_LimitTruncatesPreservingOrder(t *testing.T) {
	o := New(2 * time.Second)

	var results []types.SearchResult
	for i := 1; i <= 20; i++ {
		results = append(results, types.SearchResult{
			URL:      fmtURL(i),
			Position: i,
		})
	}
	mustRegister(t, o, &stubEngine{cfg: engineConfig("A", "a"), results: results})

	resp, err := o.Search(context.Background(), types.SearchQuery{Text: "golang", Page: 1, Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 5 || len(resp.Results) != 5 {
		t.Fatalf("expected 5 results, got %d", resp.Count)
	}
	for i := 0; i < len(resp.Results)-1; i++ {
		if resp.Results[i].Score < resp.Results[i+1].Score {
			t.Errorf("results not score-descending at index %d", i)
		}
	}
}

func TestOrchestrator_EmptyQueryText_IsInvalidQuery(t *testing.T) {
	o := New(2 * time.Second)
	_, err := o.Search(context.Background(), types.SearchQuery{Text: "   ", Page: 1})
	if _, ok := err.(*types.InvalidQueryError); !ok {
		t.Fatalf("expected *types.InvalidQueryError, got %v", err)
	}
}

func TestOrchestrator_SlowEngineNeverCancelsSiblings(t *testing.T) {
	o := New(200 * time.Millisecond)
	mustRegister(t, o, &stubEngine{
		cfg:   engineConfig("slow", "slow"),
		delay: 500 * time.Millisecond,
	})
	mustRegister(t, o, &stubEngine{
		cfg:     engineConfig("fast", "fast"),
		results: []types.SearchResult{{URL: "https://example.com/fast", Position: 1}},
	})

	resp, err := o.Search(context.Background(), types.SearchQuery{Text: "golang", Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected the fast engine's result despite the slow engine's timeout, got count=%d", resp.Count)
	}
	foundTimeout := false
	for _, e := range resp.Errors {
		if e.Engine == "slow" && e.Kind == types.ErrorKindTimeout {
			foundTimeout = true
		}
	}
	if !foundTimeout {
		t.Errorf("expected a timeout EngineError for the slow engine, got %+v", resp.Errors)
	}
}

func mustRegister(t *testing.T, o *Orchestrator, e *stubEngine) {
	t.Helper()
	if err := o.Register(e); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func fmtURL(i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	return "https://example.com/u" + string(alphabet[i%26]) + string(rune('0'+i/26))
}
