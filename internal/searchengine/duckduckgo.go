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

// DuckDuckGo is an HTTP-variant Engine adapter scraping the no-JS HTML
// front end at html.duckduckgo.com.
type DuckDuckGo struct {
	cfg     types.EngineConfig
	fetcher fetcher.Fetcher
}

// NewDuckDuckGo creates a DuckDuckGo engine using the given HTTP fetcher.
func NewDuckDuckGo(cfg types.EngineConfig, f fetcher.Fetcher) *DuckDuckGo {
	return &DuckDuckGo{cfg: cfg, fetcher: f}
}

func (d *DuckDuckGo) Config() types.EngineConfig { return d.cfg }

func (d *DuckDuckGo) Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error) {
	searchURL := fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s", url.QueryEscape(query.Text))

	page, err := d.fetcher.Fetch(ctx, searchURL, fetcher.Options{UserAgent: userAgent})
	if err != nil {
		return nil, wrapFetchError(d.cfg.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page.HTML)))
	if err != nil {
		return nil, &types.EngineError{Engine: d.cfg.Name, Kind: types.ErrorKindParse, Message: err.Error()}
	}

	var results []types.SearchResult
	position := 0

	doc.Find(".result, .web-result").Each(func(i int, s *goquery.Selection) {
		titleElem := s.Find(".result__title a, h2 a").First()
		if titleElem.Length() == 0 {
			titleElem = s.Find("a.result__a").First()
		}

		title := strings.TrimSpace(titleElem.Text())
		link, _ := titleElem.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		link = resolveDuckDuckGoRedirect(link)
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

	if suggestion := strings.TrimSpace(doc.Find(".didyoumean a").First().Text()); suggestion != "" && len(results) > 0 {
		results[0].Suggestion = suggestion
	}

	return results, nil
}

func resolveDuckDuckGoRedirect(link string) string {
	if link == "" {
		return ""
	}
	if strings.Contains(link, "duckduckgo.com/l/") {
		if u, err := url.Parse(link); err == nil {
			if actual := u.Query().Get("uddg"); actual != "" {
				if decoded, err := url.QueryUnescape(actual); err == nil {
					link = decoded
				}
			}
		}
	}
	switch {
	case strings.HasPrefix(link, "//"):
		link = "https:" + link
	case !strings.HasPrefix(link, "http") && !strings.Contains(link, "duckduckgo.com"):
		link = "https://" + link
	}
	return link
}

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
