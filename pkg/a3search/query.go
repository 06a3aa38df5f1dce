package a3search

import (
	"github.com/a3s-lab/a3s-search/internal/browserpool"
	"github.com/a3s-lab/a3s-search/internal/proxypool"
	"github.com/a3s-lab/a3s-search/internal/types"
)

// Strategy mirrors internal/proxypool.Strategy, the Proxy Pool's selection
// policy (spec §4.3).
type Strategy = proxypool.Strategy

const (
	RoundRobin = proxypool.RoundRobin
	Random     = proxypool.Random
	Weighted   = proxypool.Weighted
)

// BrowserPoolOptions mirrors internal/browserpool.Options, so hosts
// configure WithBrowserPool without importing an internal package.
type BrowserPoolOptions = browserpool.Options

// Category mirrors internal/types.Category for host code that never needs
// to import internal packages directly.
type Category = types.Category

// SafeSearch mirrors internal/types.SafeSearch.
type SafeSearch = types.SafeSearch

// TimeRange mirrors internal/types.TimeRange.
type TimeRange = types.TimeRange

const (
	CategoryGeneral = types.CategoryGeneral
	CategoryImages  = types.CategoryImages
	CategoryNews    = types.CategoryNews
	CategoryVideos  = types.CategoryVideos
)

const (
	SafeSearchOff      = types.SafeSearchOff
	SafeSearchModerate = types.SafeSearchModerate
	SafeSearchStrict   = types.SafeSearchStrict
)

const (
	TimeRangeAny   = types.TimeRangeAny
	TimeRangeDay   = types.TimeRangeDay
	TimeRangeWeek  = types.TimeRangeWeek
	TimeRangeMonth = types.TimeRangeMonth
	TimeRangeYear  = types.TimeRangeYear
)

// QueryBuilder assembles a types.SearchQuery one field at a time, so hosts
// don't need to import internal/types to build a request.
type QueryBuilder struct {
	q types.SearchQuery
}

// NewQuery starts a QueryBuilder for the given query text, defaulting Page
// to 1 and TimeRange to "any".
func NewQuery(text string) *QueryBuilder {
	return &QueryBuilder{q: types.SearchQuery{
		Text:      text,
		Page:      1,
		TimeRange: types.TimeRangeAny,
	}}
}

// Categories restricts the query to the given result categories.
func (b *QueryBuilder) Categories(categories ...Category) *QueryBuilder {
	b.q.Categories = categories
	return b
}

// Engines restricts the query to an explicit shortcut allow-list. An empty
// intersection with the registered, enabled engines makes the eventual
// Search call fail with InvalidQueryError (spec §4.6).
func (b *QueryBuilder) Engines(shortcuts ...string) *QueryBuilder {
	b.q.Engines = shortcuts
	return b
}

// Language sets the requested result language (e.g. "en").
func (b *QueryBuilder) Language(lang string) *QueryBuilder {
	b.q.Language = lang
	return b
}

// Safe sets the safe-search level.
func (b *QueryBuilder) Safe(level SafeSearch) *QueryBuilder {
	b.q.SafeSearch = level
	return b
}

// Page sets the requested page number (1-based).
func (b *QueryBuilder) Page(page int) *QueryBuilder {
	b.q.Page = page
	return b
}

// Within sets the recency window.
func (b *QueryBuilder) Within(window TimeRange) *QueryBuilder {
	b.q.TimeRange = window
	return b
}

// Limit caps the number of merged results returned; 0 means unlimited.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.q.Limit = n
	return b
}

// Build returns the assembled SearchQuery.
func (b *QueryBuilder) Build() types.SearchQuery {
	return b.q
}
