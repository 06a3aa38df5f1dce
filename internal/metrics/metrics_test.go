package metrics

import (
	"testing"

	"github.com/a3s-lab/a3s-search/internal/types"
)

func TestNoop_DoesNotPanic(t *testing.T) {
	m := Noop()
	if m == nil {
		t.Fatal("Noop() returned nil")
	}

	m.RecordEngine("duckduckgo", 0.1, nil)
	m.RecordEngine("bing", 0.2, &types.EngineError{Engine: "bing", Kind: types.ErrorKindTimeout, Message: "timed out"})
	m.RecordQuery(&types.SearchResponse{Count: 3, DurationMs: 120}, false)
	m.RecordQuery(nil, true)
}

func TestNew_RegistersDistinctInstances(t *testing.T) {
	a := New()
	b := New()
	if a == b {
		t.Fatal("New() should not return a shared instance")
	}
	// Each uses its own prometheus.Registry, so recording on one must not
	// panic from a double-registration conflict with the other.
	a.RecordEngine("duckduckgo", 0.05, nil)
	b.RecordEngine("duckduckgo", 0.05, nil)
}

func TestRecordQuery_InvalidQueryDoesNotObserveDuration(t *testing.T) {
	m := Noop()
	// Must not panic even though resp is nil: invalidQuery short-circuits
	// before touching resp.
	m.RecordQuery(nil, true)
}

func TestRecordEngine_ZeroResultsDoesNotPanic(t *testing.T) {
	m := Noop()
	m.RecordEngine("duckduckgo", 0, nil)
}
