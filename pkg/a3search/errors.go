package a3search

import "github.com/a3s-lab/a3s-search/internal/types"

// InvalidQueryError mirrors internal/types.InvalidQueryError: the only
// call-level failure Search returns (spec §7).
type InvalidQueryError = types.InvalidQueryError

// ConfigError mirrors internal/types.ConfigError: returned from AddEngine
// for a duplicate shortcut or invalid EngineConfig.
type ConfigError = types.ConfigError

// EngineError mirrors internal/types.EngineError: a non-fatal per-engine
// failure accumulated in SearchResponse.Errors rather than returned.
type EngineError = types.EngineError

// ErrorKind mirrors internal/types.ErrorKind.
type ErrorKind = types.ErrorKind

const (
	ErrorKindTimeout            = types.ErrorKindTimeout
	ErrorKindNetwork            = types.ErrorKindNetwork
	ErrorKindHTTPStatus         = types.ErrorKindHTTPStatus
	ErrorKindParse              = types.ErrorKindParse
	ErrorKindRateLimited        = types.ErrorKindRateLimited
	ErrorKindBrowserUnavailable = types.ErrorKindBrowserUnavailable
	ErrorKindOther              = types.ErrorKindOther
)

// SearchQuery mirrors internal/types.SearchQuery for hosts that prefer to
// build the struct literal directly instead of QueryBuilder.
type SearchQuery = types.SearchQuery

// SearchResponse mirrors internal/types.SearchResponse.
type SearchResponse = types.SearchResponse

// MergedResult mirrors internal/types.MergedResult.
type MergedResult = types.MergedResult

// SearchResult mirrors internal/types.SearchResult.
type SearchResult = types.SearchResult

// EngineConfig mirrors internal/types.EngineConfig.
type EngineConfig = types.EngineConfig

// ProxyDescriptor mirrors internal/types.ProxyDescriptor.
type ProxyDescriptor = types.ProxyDescriptor

// ProxyProtocol mirrors internal/types.ProxyProtocol.
type ProxyProtocol = types.ProxyProtocol

const (
	ProxyProtocolHTTP   = types.ProxyProtocolHTTP
	ProxyProtocolHTTPS  = types.ProxyProtocolHTTPS
	ProxyProtocolSocks5 = types.ProxyProtocolSocks5
)

// ProxyCredentials mirrors internal/types.ProxyCredentials.
type ProxyCredentials = types.ProxyCredentials
