package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/cramweek/internal/engine"
	"github.com/DaanHessen/cramweek/internal/store"
	"github.com/DaanHessen/cramweek/internal/text"
	"github.com/DaanHessen/cramweek/internal/util"
)

const (
	viewPlay      = "play"
	viewSubject   = "subject"
	viewInventory = "inventory"
	viewShop      = "shop"
	viewResults   = "results"
	viewHelp      = "help"
	viewEnding    = "ending"
)

const (
	defaultEvalTimeout = 45 * time.Second
	resultsLimit       = 15
)

type menuEntry struct {
	key    string
	label  string
	action engine.Action
	// picker opens a sub menu instead of dispatching directly
	picker string
}

var actionMenu = []menuEntry{
	{key: "1", label: "Study", picker: viewSubject},
	{key: "2", label: "Study everything", action: engine.Action{Type: engine.ActionStudyAll}},
	{key: "3", label: "Rest", action: engine.Action{Type: engine.ActionRest}},
	{key: "4", label: "Part-time job", action: engine.Action{Type: engine.ActionWork}},
	{key: "5", label: "Escape reality", action: engine.Action{Type: engine.ActionEscapism}},
	{key: "6", label: "Visit the professor", action: engine.Action{Type: engine.ActionAskProfessor}},
	{key: "7", label: "Find a senior", action: engine.Action{Type: engine.ActionAskSenior}},
	{key: "8", label: "Hang out with a friend", action: engine.Action{Type: engine.ActionAskFriend}},
	{key: "b", label: "Convenience store", picker: viewShop},
	{key: "i", label: "Bag", picker: viewInventory},
}

type pickerEntry struct {
	label  string
	action engine.Action
}

type evaluationMsg struct{ markdown string }

type resultsMsg struct {
	rows []store.RunResult
	err  error
}

type model struct {
	ctx      context.Context
	game     *engine.Game
	narrator text.Narrator
	archive  store.ResultArchive
	seedText string
	theme    string
	pal      palette

	view   string
	cursor int
	flash  string
	log    viewport.Model
	width  int
	height int

	evalTimeout time.Duration
	evaluating  bool
	endingRaw   string
	ending      string
	results     []store.RunResult
	resultsErr  error
}

func newModel(ctx context.Context, game *engine.Game, narrator text.Narrator, archive store.ResultArchive, cfg util.Config) model {
	m := model{
		ctx:         ctx,
		game:        game,
		narrator:    narrator,
		archive:     archive,
		seedText:    cfg.SeedText,
		theme:       cfg.Theme,
		pal:         paletteFor(cfg.Theme),
		view:        viewPlay,
		log:         viewport.New(70, 12),
		evalTimeout: defaultEvalTimeout,
	}
	st := game.State()
	m.refreshLog(st)
	if st.Status.Terminal() {
		m.evaluating = true
	}
	return m
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd {
	if m.evaluating {
		return m.evaluateCmd(m.game.State())
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLog()
		m.refreshLog(m.game.State())
		if m.endingRaw != "" {
			m.ending = renderMarkdown(m.endingRaw, m.contentWidth())
		}
		return m, nil
	case evaluationMsg:
		m.evaluating = false
		m.endingRaw = msg.markdown
		m.ending = renderMarkdown(msg.markdown, m.contentWidth())
		m.view = viewEnding
		return m, nil
	case resultsMsg:
		m.results = msg.rows
		m.resultsErr = msg.err
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.view {
	case viewSubject, viewInventory, viewShop:
		return m.handlePicker(k)
	case viewHelp, viewResults:
		switch k {
		case "esc", "q", "?", "r":
			m.view = viewPlay
			if m.game.State().Status.Terminal() && m.endingRaw != "" {
				m.view = viewEnding
			}
		}
		return m, nil
	case viewEnding:
		switch k {
		case "n":
			m.game.Reset()
			m.endingRaw, m.ending = "", ""
			m.view = viewPlay
			m.flash = "A new exam week begins."
			m.refreshLog(m.game.State())
		case "r":
			m.view = viewResults
			return m, m.loadResultsCmd()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	st := m.game.State()
	if st.Status.Terminal() {
		if k == "q" {
			return m, tea.Quit
		}
		return m, nil
	}
	if ev := st.PendingEvent; ev != nil {
		if idx, ok := digitIndex(k); ok && idx < len(ev.Options) {
			m.game.Resolve(ev.Options[idx].ID)
			m.flash = ""
			return m.afterChange()
		}
		return m.scrollOrQuit(msg)
	}

	switch k {
	case "?":
		m.view = viewHelp
		return m, nil
	case "p":
		on := !st.DebugFlags.PredictionMode
		m.game.SetPredictionMode(on)
		m.flash = fmt.Sprintf("Prediction mode %s.", onOff(on))
		return m, nil
	case "t":
		m.theme = nextThemeName(m.theme, 1)
		m.pal = paletteFor(m.theme)
		m.refreshLog(st)
		m.flash = "Theme: " + m.theme
		return m, nil
	case "r":
		m.view = viewResults
		return m, m.loadResultsCmd()
	}
	for _, e := range actionMenu {
		if e.key != k {
			continue
		}
		if e.picker != "" {
			m.view = e.picker
			m.cursor = 0
			return m, nil
		}
		return m.dispatch(e.action)
	}
	return m.scrollOrQuit(msg)
}

func (m model) handlePicker(k string) (tea.Model, tea.Cmd) {
	entries := m.pickerEntries(m.game.State())
	switch k {
	case "esc", "q":
		m.view = viewPlay
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if m.cursor < len(entries) {
			m.view = viewPlay
			return m.dispatch(entries[m.cursor].action)
		}
		return m, nil
	}
	if idx, ok := digitIndex(k); ok && idx < len(entries) {
		m.view = viewPlay
		return m.dispatch(entries[idx].action)
	}
	return m, nil
}

func (m model) scrollOrQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) dispatch(a engine.Action) (tea.Model, tea.Cmd) {
	if !m.game.Dispatch(a) {
		m.flash = "Nothing happens."
		return m, nil
	}
	m.flash = ""
	return m.afterChange()
}

// afterChange refreshes derived views and starts the evaluation once the run ends.
func (m model) afterChange() (tea.Model, tea.Cmd) {
	st := m.game.State()
	m.refreshLog(st)
	if st.Status.Terminal() && !m.evaluating && m.endingRaw == "" {
		m.evaluating = true
		return m, m.evaluateCmd(st)
	}
	return m, nil
}

func (m model) pickerEntries(st engine.GameState) []pickerEntry {
	c := m.game.Catalog()
	var out []pickerEntry
	switch m.view {
	case viewSubject:
		for _, sub := range c.Subjects {
			out = append(out, pickerEntry{
				label:  fmt.Sprintf("%s (%d)", sub.Name, st.Knowledge[sub.ID]),
				action: engine.Action{Type: engine.ActionStudy, Subject: sub.ID},
			})
		}
	case viewShop:
		for _, it := range c.Items {
			out = append(out, pickerEntry{
				label:  fmt.Sprintf("%s ¥%d - %s", it.Name, it.Price, it.Description),
				action: engine.Action{Type: engine.ActionBuyItem, Item: it.ID},
			})
		}
	case viewInventory:
		for _, it := range c.Items {
			if n := st.Inventory[it.ID]; n > 0 {
				out = append(out, pickerEntry{
					label:  fmt.Sprintf("%s x%d", it.Name, n),
					action: engine.Action{Type: engine.ActionUseItem, Item: it.ID},
				})
			}
		}
	}
	return out
}

func (m model) evaluateCmd(st engine.GameState) tea.Cmd {
	sum := text.SummaryFromState(st, m.game.Catalog())
	ctx, narrator, timeout := m.ctx, m.narrator, m.evalTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return evaluationMsg{markdown: text.EvaluationOrError(ctx, narrator, sum)}
	}
}

func (m model) loadResultsCmd() tea.Cmd {
	if m.archive == nil {
		return nil
	}
	ctx, archive := m.ctx, m.archive
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rows, err := archive.Results(ctx, resultsLimit)
		return resultsMsg{rows: rows, err: err}
	}
}

func digitIndex(k string) (int, bool) {
	if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
		return int(k[0] - '1'), true
	}
	return 0, false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
