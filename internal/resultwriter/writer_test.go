package resultwriter

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3s-lab/a3s-search/internal/types"
)

func TestWriter_JSONL_WritesOneLinePerResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")

	w, err := New(path, FormatJSONL, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.SendAll(&types.SearchResponse{
		QueryID: "q1",
		Results: []types.MergedResult{
			{NormalizedURL: "https://example.com/a", Title: "A", Score: 1.5, Engines: []string{"duckduckgo"}, Positions: []int{1}},
			{NormalizedURL: "https://example.com/b", Title: "B", Score: 0.8, Engines: []string{"bing"}, Positions: []int{2}},
		},
	})
	w.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	var lines []record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("decoding line %q: %v", sc.Text(), err)
		}
		lines = append(lines, r)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].URL != "https://example.com/a" || lines[0].QueryID != "q1" {
		t.Errorf("unexpected first record: %+v", lines[0])
	}
}

func TestWriter_CSV_WritesHeaderOnceUnlessAppending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	w, err := New(path, FormatCSV, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Send("q1", types.MergedResult{NormalizedURL: "https://example.com/a", Score: 1.0})
	w.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(data)
	if content == "" {
		t.Fatal("expected non-empty CSV output")
	}

	w2, err := New(path, FormatCSV, true)
	if err != nil {
		t.Fatalf("New (append): %v", err)
	}
	w2.Send("q2", types.MergedResult{NormalizedURL: "https://example.com/b", Score: 2.0})
	w2.Close()

	appended, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading appended output: %v", err)
	}
	if len(appended) <= len(data) {
		t.Fatalf("expected appended file to grow, before=%d after=%d", len(data), len(appended))
	}
	if n := strings.Count(string(appended), "ts,query_id,url"); n != 1 {
		t.Errorf("expected the CSV header exactly once after appending, got %d", n)
	}
}
