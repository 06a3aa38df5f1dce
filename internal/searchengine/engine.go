// Package searchengine implements the Engine contract described in spec
// §4.1: one upstream search provider's configuration plus the logic that
// turns a query into a ranked, positioned result list.
package searchengine

import (
	"context"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// Engine is the capability every search provider adapter implements. It
// mirrors the teacher's driver.Driver contract: a static config accessor
// plus a single context-bound unit of work.
type Engine interface {
	Config() types.EngineConfig
	Search(ctx context.Context, query types.SearchQuery) ([]types.SearchResult, error)
}
