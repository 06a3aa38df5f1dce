package searchengine

import (
	"context"
	"testing"

	"github.com/a3s-lab/a3s-search/internal/fetcher"
	"github.com/a3s-lab/a3s-search/internal/types"
)

type fakeFetcher struct {
	page *fetcher.Page
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, opts fetcher.Options) (*fetcher.Page, error) {
	return f.page, f.err
}

const duckduckgoFixture = `
<html><body>
<div class="result web-result">
  <h2><a class="result__a" href="https://example.com/a">First Result</a></h2>
  <a class="result__snippet">snippet one</a>
</div>
<div class="result web-result">
  <h2><a class="result__a" href="https://example.com/b">Second Result</a></h2>
  <a class="result__snippet">snippet two</a>
</div>
</body></html>
`

func TestDuckDuckGo_Search_ParsesResultsInOrder(t *testing.T) {
	eng := NewDuckDuckGo(
		types.EngineConfig{Name: "duckduckgo", Shortcut: "ddg", Weight: 1},
		&fakeFetcher{page: &fetcher.Page{HTML: []byte(duckduckgoFixture)}},
	)

	results, err := eng.Search(context.Background(), types.SearchQuery{Text: "golang"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].URL != "https://example.com/a" || results[0].Position != 1 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].URL != "https://example.com/b" || results[1].Position != 2 {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestDuckDuckGo_Search_WrapsFetchErrorAsEngineError(t *testing.T) {
	eng := NewDuckDuckGo(
		types.EngineConfig{Name: "duckduckgo", Shortcut: "ddg", Weight: 1},
		&fakeFetcher{err: &fetcher.TimeoutError{}},
	)

	_, err := eng.Search(context.Background(), types.SearchQuery{Text: "golang"})
	engErr, ok := err.(*types.EngineError)
	if !ok {
		t.Fatalf("expected *types.EngineError, got %T", err)
	}
	if engErr.Kind != types.ErrorKindTimeout {
		t.Errorf("expected timeout kind, got %v", engErr.Kind)
	}
}

func TestResolveDuckDuckGoRedirect_DecodesWrappedURL(t *testing.T) {
	got := resolveDuckDuckGoRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fz&rut=1")
	if got != "https://example.com/z" {
		t.Errorf("got %q", got)
	}
}
