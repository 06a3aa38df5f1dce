package searchengine

import (
	"errors"

	"github.com/a3s-lab/a3s-search/internal/fetcher"
	"github.com/a3s-lab/a3s-search/internal/types"
)

// wrapFetchError maps a fetcher error into the EngineError taxonomy the
// Search Orchestrator and Aggregator expect (spec §4.1/§4.6).
func wrapFetchError(engineName string, err error) *types.EngineError {
	var (
		netErr     *fetcher.NetworkError
		statusErr  *fetcher.HTTPStatusError
		timeoutErr *fetcher.TimeoutError
		browserErr *fetcher.BrowserUnavailableError
		navErr     *fetcher.NavigationError
	)

	switch {
	case errors.As(err, &statusErr):
		return &types.EngineError{
			Engine:     engineName,
			Kind:       types.ErrorKindHTTPStatus,
			Message:    statusErr.Error(),
			StatusCode: statusErr.Code,
		}
	case errors.As(err, &timeoutErr):
		return &types.EngineError{Engine: engineName, Kind: types.ErrorKindTimeout, Message: timeoutErr.Error()}
	case errors.As(err, &netErr):
		return &types.EngineError{Engine: engineName, Kind: types.ErrorKindNetwork, Message: netErr.Error()}
	case errors.As(err, &browserErr):
		return &types.EngineError{Engine: engineName, Kind: types.ErrorKindBrowserUnavailable, Message: browserErr.Error()}
	case errors.As(err, &navErr):
		return &types.EngineError{Engine: engineName, Kind: types.ErrorKindParse, Message: navErr.Error()}
	default:
		return &types.EngineError{Engine: engineName, Kind: types.ErrorKindOther, Message: err.Error()}
	}
}
