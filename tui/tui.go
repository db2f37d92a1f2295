// Package tui renders the command bar: a single input line with debounced
// suggestion and live-grep overlays, and a transcript of command results.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"palette/capability"
	"palette/command"
	"palette/config"
	"palette/indexer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8"))

	selectedSuggestionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#5F5FD7"))

	grepHitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D787"))

	transcriptStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// transcriptLimit caps how many past results the transcript retains.
const transcriptLimit = 50

// suggestTickMsg fires after the suggestion debounce interval. Stale
// generations are dropped so only the latest keystroke's lookup runs.
type suggestTickMsg struct {
	gen int
}

// grepTickMsg fires after the live-grep debounce interval.
type grepTickMsg struct {
	gen     int
	pattern string
}

// execDoneMsg carries a finished command result back into the update
// loop. seq identifies the transcript entry the submission created, so a
// slow command resolving after a newer submission still patches its own
// entry and a result for a trimmed entry is dropped.
type execDoneMsg struct {
	seq    int
	result command.Result
}

// showSearchPanelMsg is sent by the search capability's panel hook.
type showSearchPanelMsg struct{}

type transcriptEntry struct {
	seq    int
	input  string
	result command.Result
}

type model struct {
	workspacePath string
	cfg           *config.Config
	interp        *command.Interpreter
	env           *command.Env
	index         *indexer.Index

	input       string
	suggestions []command.Suggestion
	selected    int
	grepHits    []command.GrepHit
	transcript  []transcriptEntry

	suggestGen int
	grepGen    int
	execSeq    int

	panelVisible bool

	width  int
	height int
}

func newModel(workspacePath string, cfg *config.Config, interp *command.Interpreter, env *command.Env, index *indexer.Index) model {
	return model{
		workspacePath: workspacePath,
		cfg:           cfg,
		interp:        interp,
		env:           env,
		index:         index,
		selected:      -1,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case suggestTickMsg:
		if msg.gen != m.suggestGen {
			return m, nil // superseded by a later keystroke
		}
		m.suggestions = m.interp.Registry().Suggest(commandBody(m.input), m.cfg.SuggestionLimit)
		m.selected = -1
		return m, nil

	case grepTickMsg:
		if msg.gen != m.grepGen {
			return m, nil
		}
		m.grepHits = command.GrepPreview(m.index, msg.pattern, m.cfg.GrepPreviewLimit)
		return m, nil

	case execDoneMsg:
		for i := len(m.transcript) - 1; i >= 0; i-- {
			if m.transcript[i].seq == msg.seq {
				m.transcript[i].result = msg.result
				break
			}
		}
		return m, nil

	case showSearchPanelMsg:
		m.panelVisible = true
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Discard the draft and every pending overlay; bumping the
		// generations invalidates in-flight debounce ticks.
		if m.panelVisible {
			m.panelVisible = false
			return m, nil
		}
		m.input = ""
		m.suggestions = nil
		m.grepHits = nil
		m.selected = -1
		m.suggestGen++
		m.grepGen++
		return m, nil

	case "enter":
		return m.submit()

	case "tab":
		return m.acceptSuggestion(), nil

	case "up":
		if len(m.suggestions) > 0 {
			if m.selected <= 0 {
				m.selected = len(m.suggestions) - 1
			} else {
				m.selected--
			}
		}
		return m, nil

	case "down":
		if len(m.suggestions) > 0 {
			m.selected = (m.selected + 1) % len(m.suggestions)
		}
		return m, nil

	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m.inputChanged()

	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.input += string(msg.Runes)
			return m.inputChanged()
		case tea.KeySpace:
			m.input += " "
			return m.inputChanged()
		}
		return m, nil
	}
}

// inputChanged schedules the debounced overlay refreshes for the current
// draft. Each keystroke advances the generation counters, so earlier
// pending ticks become no-ops when they land.
func (m model) inputChanged() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if !isCommandDraft(m.input) {
		m.suggestions = nil
		m.grepHits = nil
		m.selected = -1
		m.suggestGen++
		m.grepGen++
		return m, nil
	}

	body := commandBody(m.input)

	m.suggestGen++
	gen := m.suggestGen
	cmds = append(cmds, tea.Tick(time.Duration(m.cfg.SuggestDebounceMs)*time.Millisecond, func(time.Time) tea.Msg {
		return suggestTickMsg{gen: gen}
	}))

	m.grepGen++
	if pattern, ok := command.MatchLiveGrep(body); ok {
		grepGen := m.grepGen
		cmds = append(cmds, tea.Tick(time.Duration(m.cfg.GrepDebounceMs)*time.Millisecond, func(time.Time) tea.Msg {
			return grepTickMsg{gen: grepGen, pattern: pattern}
		}))
	} else {
		m.grepHits = nil
	}

	return m, tea.Batch(cmds...)
}

// submit executes the draft. Execution runs as a tea command so the UI
// stays responsive; the pending transcript entry is patched when the
// result lands.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input)
	if line == "" {
		return m, nil
	}
	if line == ":quit" || line == ":q" {
		return m, tea.Quit
	}

	m.execSeq++
	seq := m.execSeq
	m.transcript = append(m.transcript, transcriptEntry{
		seq:    seq,
		input:  line,
		result: command.Result{Message: "…", OutputType: command.OutputText, Success: true},
	})
	if len(m.transcript) > transcriptLimit {
		m.transcript = m.transcript[len(m.transcript)-transcriptLimit:]
	}

	m.input = ""
	m.suggestions = nil
	m.grepHits = nil
	m.selected = -1
	m.suggestGen++
	m.grepGen++

	interp, env := m.interp, m.env
	return m, func() tea.Msg {
		return execDoneMsg{seq: seq, result: interp.Execute(context.Background(), line, env)}
	}
}

// acceptSuggestion completes the draft with the highlighted (or top)
// suggestion.
func (m model) acceptSuggestion() model {
	if len(m.suggestions) == 0 {
		return m
	}
	pick := m.selected
	if pick < 0 {
		pick = 0
	}
	m.input = ":" + m.suggestions[pick].Text + " "
	m.suggestions = nil
	m.grepHits = nil
	m.selected = -1
	m.suggestGen++
	m.grepGen++
	return m
}

func (m model) View() string {
	title := titleStyle.Render("Palette")

	prompt := m.input
	if prompt == "" {
		prompt = "type : to run a command"
	}
	input := inputStyle.Render(prompt)

	sections := []string{title, "", input}

	if overlay := m.renderOverlay(); overlay != "" {
		sections = append(sections, overlay)
	}

	if m.panelVisible {
		sections = append(sections, transcriptStyle.Render("Search panel (esc to close)"))
	}

	if transcript := m.renderTranscript(); transcript != "" {
		sections = append(sections, "", transcript)
	}

	help := helpStyle.Render("enter run • tab complete • ↑↓ select • esc clear • ctrl+c quit")
	sections = append(sections, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderOverlay draws either the grep preview or the suggestion list,
// whichever applies to the current draft.
func (m model) renderOverlay() string {
	if len(m.grepHits) > 0 {
		lines := make([]string, 0, len(m.grepHits))
		for _, hit := range m.grepHits {
			lines = append(lines, grepHitStyle.Render(fmt.Sprintf("%s:%d  %s", hit.Path, hit.Line, truncateLine(hit.Text, 80))))
		}
		return strings.Join(lines, "\n")
	}

	if len(m.suggestions) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		text := fmt.Sprintf("%s :%s  %s", s.Icon, s.Text, s.Description)
		if i == m.selected {
			lines = append(lines, selectedSuggestionStyle.Render(text))
		} else {
			lines = append(lines, suggestionStyle.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return ""
	}

	shown := m.transcript
	if len(shown) > 5 {
		shown = shown[len(shown)-5:]
	}

	var b strings.Builder
	for i, entry := range shown {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "> %s\n", entry.input)
		if entry.result.Success {
			b.WriteString(entry.result.Message)
		} else {
			b.WriteString(errorStyle.Render(entry.result.Message))
		}
	}
	return transcriptStyle.Render(b.String())
}

// isCommandDraft reports whether the draft addresses the command bar.
func isCommandDraft(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), ":")
}

// commandBody strips the leading ":" from a draft.
func commandBody(input string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), ":"))
}

func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// Run starts the command bar over the given interpreter and environment.
// It installs the search-panel hook when the search capability supports
// one, and blocks until the user quits.
func Run(workspacePath string, cfg *config.Config, interp *command.Interpreter, env *command.Env, index *indexer.Index) error {
	m := newModel(workspacePath, cfg, interp, env, index)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if env != nil && env.Caps != nil {
		if searcher, ok := env.Caps.Search.(*capability.Searcher); ok {
			searcher.OnShowPanel(func() {
				p.Send(showSearchPanelMsg{})
			})
		}
	}

	_, err := p.Run()
	return err
}
