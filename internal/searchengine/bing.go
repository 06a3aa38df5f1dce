package searchengine

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/a3s-lab/a3s-search/internal/fetcher"
	"github.com/a3s-lab/a3s-search/internal/types"
)

// Bing is a Browser-variant Engine adapter. Bing's result markup loads
// enough client-side content that a plain HTTP GET regularly misses
// results a rendered page would show, so this adapter fetches through the
// Browser Pool instead of a direct request.
type Bing struct {
	cfg     types.EngineConfig
	fetcher fetcher.Fetcher
}

// NewBing creates a Bing engine using the given browser fetcher.
func NewBing(cfg types.EngineConfig, f fetcher.Fetcher) *Bing {
	return &Bing{cfg: cfg, fetcher: f}
}

func (b *Bing) Config() types.EngineConfig { return b.cfg }

func (b *Bing) Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error) {
	if b.fetcher == nil {
		return nil, wrapFetchError(b.cfg.Name, &fetcher.BrowserUnavailableError{Cause: fmt.Errorf("no browser fetcher configured")})
	}

	searchURL := fmt.Sprintf("https://www.bing.com/search?q=%s", url.QueryEscape(query.Text))

	page, err := b.fetcher.Fetch(ctx, searchURL, fetcher.Options{
		UserAgent: userAgent,
		Wait: fetcher.WaitStrategy{
			Kind:     fetcher.WaitKindSelector,
			Selector: "#b_results",
		},
	})
	if err != nil {
		return nil, wrapFetchError(b.cfg.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page.HTML)))
	if err != nil {
		return nil, &types.EngineError{Engine: b.cfg.Name, Kind: types.ErrorKindParse, Message: err.Error()}
	}

	var results []types.SearchResult
	position := 0

	doc.Find("#b_results > li.b_algo").Each(func(i int, s *goquery.Selection) {
		titleElem := s.Find("h2 a").First()
		title := strings.TrimSpace(titleElem.Text())
		link, _ := titleElem.Attr("href")
		snippet := strings.TrimSpace(s.Find(".b_caption p").Text())

		if link == "" || title == "" {
			return
		}

		position++
		results = append(results, types.SearchResult{
			Title:    title,
			URL:      link,
			Content:  snippet,
			Position: position,
		})
	})

	if suggestion := strings.TrimSpace(doc.Find("#sp_requery a").First().Text()); suggestion != "" && len(results) > 0 {
		results[0].Suggestion = suggestion
	}

	return results, nil
}
