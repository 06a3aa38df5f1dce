// Package resultwriter persists a SearchResponse to a file in JSONL or CSV
// format, for hosts that want to archive search runs alongside whatever
// they print to stdout.
package resultwriter

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

const chanBuf = 512

// Writer serializes MergedResult values to a file. Send is non-blocking;
// results are dropped (with a warning) if the internal buffer is full.
// Close drains the buffer and flushes the file. Adapted from the traffic
// generator's output.Writer, retargeted from task.Result rows to search
// result rows.
type Writer struct {
	ch   chan row
	done chan struct{}
}

type row struct {
	queryID string
	r       types.MergedResult
}

// New opens path (truncating unless append is true) and starts the
// background writer goroutine. The caller must call Close when done.
func New(path string, format Format, appendMode bool) (*Writer, error) {
	flag := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening output file %q: %w", path, err)
	}

	w := &Writer{ch: make(chan row, chanBuf), done: make(chan struct{})}
	go w.run(f, format, appendMode)
	return w, nil
}

// Send enqueues one result for writing. Non-blocking; drops if the buffer
// is full.
func (w *Writer) Send(queryID string, r types.MergedResult) {
	select {
	case w.ch <- row{queryID: queryID, r: r}:
	default:
		log.Warn().Msg("resultwriter: buffer full, dropping result")
	}
}

// SendAll enqueues every result in resp.
func (w *Writer) SendAll(resp *types.SearchResponse) {
	for _, r := range resp.Results {
		w.Send(resp.QueryID, r)
	}
}

// Close drains the channel and closes the file.
func (w *Writer) Close() {
	close(w.ch)
	<-w.done
}

func (w *Writer) run(f *os.File, format Format, appendMode bool) {
	defer close(w.done)
	bw := bufio.NewWriter(f)
	defer func() {
		_ = bw.Flush()
		_ = f.Close()
	}()

	if format == FormatCSV {
		w.runCSV(bw, appendMode)
	} else {
		w.runJSONL(bw)
	}
}

type record struct {
	TS       string   `json:"ts"`
	QueryID  string   `json:"query_id"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Score    float64  `json:"score"`
	Engines  []string `json:"engines"`
	Position float64  `json:"position_mean"`
}

func toRecord(r row) record {
	var mean float64
	if n := len(r.r.Positions); n > 0 {
		sum := 0
		for _, p := range r.r.Positions {
			sum += p
		}
		mean = float64(sum) / float64(n)
	}
	return record{
		TS:       time.Now().UTC().Format(time.RFC3339),
		QueryID:  r.queryID,
		URL:      r.r.NormalizedURL,
		Title:    r.r.Title,
		Score:    r.r.Score,
		Engines:  r.r.Engines,
		Position: mean,
	}
}

func (w *Writer) runJSONL(bw *bufio.Writer) {
	enc := json.NewEncoder(bw)
	for r := range w.ch {
		if err := enc.Encode(toRecord(r)); err != nil {
			log.Warn().Err(err).Msg("resultwriter: failed to encode result")
			continue
		}
		_ = bw.Flush()
	}
}

func (w *Writer) runCSV(bw *bufio.Writer, appendMode bool) {
	cw := csv.NewWriter(bw)
	if !appendMode {
		_ = cw.Write([]string{"ts", "query_id", "url", "title", "score", "engines", "position_mean"})
		cw.Flush()
	}
	for r := range w.ch {
		rec := toRecord(r)
		cw.Write([]string{ //nolint:errcheck
			rec.TS,
			rec.QueryID,
			rec.URL,
			rec.Title,
			strconv.FormatFloat(rec.Score, 'f', -1, 64),
			fmt.Sprint(rec.Engines),
			strconv.FormatFloat(rec.Position, 'f', -1, 64),
		})
		cw.Flush()
	}
}
