package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/cramweek/internal/engine"
)

const (
	sidebarWidth = 32
	barWidth     = 12
)

func (m model) View() string {
	switch m.view {
	case viewHelp:
		return m.renderHelp()
	case viewResults:
		return m.renderResults()
	case viewEnding:
		return m.renderEnding()
	}
	st := m.game.State()
	main := lipgloss.NewStyle().Width(m.contentWidth()).Render(m.renderMain(st))
	side := lipgloss.NewStyle().
		Width(sidebarWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.pal.Border).
		Padding(0, 1).
		Render(m.renderSidebar(st))
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, side)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(st), body, m.renderBottomBar(st))
}

func (m model) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = 110
	}
	if cw := w - sidebarWidth - 4; cw > 30 {
		return cw
	}
	return 30
}

func (m *model) resizeLog() {
	m.log.Width = m.contentWidth()
	h := m.height - 20
	if h < 5 {
		h = 5
	}
	m.log.Height = h
}

func (m *model) refreshLog(st engine.GameState) {
	var b strings.Builder
	for i, l := range st.Logs {
		if i > 0 {
			b.WriteByte('\n')
		}
		stamp := lipgloss.NewStyle().Foreground(m.pal.Muted).Render(fmt.Sprintf("D%d %-12s", l.Day, l.TimeSlot))
		msg := lipgloss.NewStyle().Foreground(m.pal.logColor(l.Type)).Render(l.Message)
		b.WriteString(stamp + " " + msg)
	}
	m.log.SetContent(lipgloss.NewStyle().Width(m.log.Width).Render(b.String()))
	m.log.GotoBottom()
}

func (m model) renderTopBar(st engine.GameState) string {
	left := fmt.Sprintf("CRAM WEEK • Day %d/%d • %s", min(st.Day, engine.FinalDay), engine.FinalDay, st.TimeSlot)
	right := fmt.Sprintf("Turn %d", st.TurnCount)
	if st.DebugFlags.PredictionMode {
		right = "[predict] " + right
	}
	w := m.contentWidth() + sidebarWidth + 4
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent).Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) renderBottomBar(st engine.GameState) string {
	help := "[1-8] act  [b] shop  [i] bag  [p] predict  [t] theme  [r] results  [?] help  [q] quit"
	if st.PendingEvent != nil {
		help = "[1-9] choose an option  [↑/↓] scroll log  [q] quit"
	}
	if m.view != viewPlay {
		help = "[↑/↓] move  [enter] pick  [esc] back"
	}
	line := lipgloss.NewStyle().Foreground(m.pal.Muted).Render(help)
	if m.flash != "" {
		line += "\n" + lipgloss.NewStyle().Foreground(m.pal.Warning).Render(m.flash)
	}
	return line
}

func (m model) renderMain(st engine.GameState) string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent)
	b.WriteString(title.Render("LOG") + "\n")
	b.WriteString(m.log.View() + "\n\n")

	switch {
	case st.Status.Terminal():
		b.WriteString(title.Render("THE EXAM IS OVER") + "\n")
		if m.evaluating {
			b.WriteString("Grading your week...\n")
		}
	case st.PendingEvent != nil:
		b.WriteString(m.renderEvent(st.PendingEvent))
	case m.view == viewPlay:
		b.WriteString(title.Render("WHAT NOW?") + "\n")
		b.WriteString(m.renderActionMenu(st))
	default:
		b.WriteString(m.renderPicker(st))
	}
	return b.String()
}

func (m model) renderActionMenu(st engine.GameState) string {
	var b strings.Builder
	for _, e := range actionMenu {
		line := fmt.Sprintf("[%s] %-24s", e.key, e.label)
		if e.picker == "" {
			line += " " + m.riskBadge(m.game.Preview(e.action))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) renderEvent(ev *engine.Event) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(m.pal.Warning).Render("! "+ev.Text) + "\n")
	for i, opt := range ev.Options {
		tier := lipgloss.NewStyle().Foreground(m.pal.riskColor(opt.Risk)).Render(fmt.Sprintf("%-4s %3.0f%%", opt.Risk, opt.SuccessRate))
		line := fmt.Sprintf("[%d] %-30s %s", i+1, opt.Label, tier)
		if r, ok := m.game.PreviewOption(opt.ID); ok {
			line += " " + m.riskBadge(r)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) renderPicker(st engine.GameState) string {
	heading := map[string]string{viewSubject: "STUDY WHAT?", viewShop: "CONVENIENCE STORE", viewInventory: "YOUR BAG"}[m.view]
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent).Render(heading) + "\n")
	entries := m.pickerEntries(st)
	if len(entries) == 0 {
		b.WriteString("(empty)\n")
	}
	for i, e := range entries {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(m.pal.Text)
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(m.pal.Accent)
		}
		line := style.Render(fmt.Sprintf("%s[%d] %s", cursor, i+1, e.label))
		if e.action.Type != engine.ActionBuyItem {
			line += " " + m.riskBadge(m.game.Preview(e.action))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) riskBadge(r engine.RiskReport) string {
	if r.Lethal {
		return lipgloss.NewStyle().Bold(true).Foreground(m.pal.Danger).Render("LETHAL")
	}
	badge := fmt.Sprintf("HP→%d SAN→%d", r.HPAfter, r.SanityAfter)
	if len(r.Warnings) > 0 {
		return lipgloss.NewStyle().Foreground(m.pal.Warning).Render(badge + " (" + strings.Join(r.Warnings, "; ") + ")")
	}
	return lipgloss.NewStyle().Foreground(m.pal.Muted).Render(badge)
}

func (m model) renderSidebar(st engine.GameState) string {
	head := lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent)
	var b strings.Builder
	b.WriteString(head.Render("CONDITION") + "\n")
	b.WriteString(m.statLine("HP", st.HP, st.MaxHP))
	b.WriteString(m.statLine("SAN", st.Sanity, st.MaxSanity))
	b.WriteString(m.statLine("FOOD", st.Satiety, st.MaxSatiety))
	b.WriteString(m.statLine("CAF", st.Caffeine, engine.MaxCaffeine))
	b.WriteString(fmt.Sprintf("     %s\n", engine.TierOf(st.Caffeine)))
	b.WriteString(fmt.Sprintf("Money ¥%d\n\n", st.Money))

	b.WriteString(head.Render("KNOWLEDGE") + "\n")
	for _, sub := range m.game.Catalog().Subjects {
		b.WriteString(m.statLine(abbrev(sub.Name), st.Knowledge[sub.ID], 100))
	}
	b.WriteString("\n" + head.Render("PEOPLE") + "\n")
	for _, p := range m.game.Catalog().Personas {
		b.WriteString(fmt.Sprintf("%-10s %3d\n", abbrev(string(p.ID)), st.Relationships[p.ID]))
	}
	if len(st.ActiveBuffs) > 0 {
		b.WriteString("\n" + head.Render("EFFECTS") + "\n")
		for _, buff := range st.ActiveBuffs {
			b.WriteString(fmt.Sprintf("%s x%.2f (%d)\n", buff.Type, buff.Value, buff.Duration))
		}
	}
	if st.Flags.CaffeineDependent {
		b.WriteString(lipgloss.NewStyle().Foreground(m.pal.Danger).Render("caffeine dependent") + "\n")
	}
	if st.DebugFlags.ShowHidden {
		b.WriteString(fmt.Sprintf("\nsleep debt %.1f\nmadness %d\n", st.Flags.SleepDebt, st.Flags.MadnessStack))
	}
	return b.String()
}

func (m model) statLine(label string, v, limit int) string {
	return fmt.Sprintf("%-4s %s %3d\n", label, m.bar(v, limit), v)
}

func (m model) bar(v, limit int) string {
	fill := 0
	if limit > 0 {
		fill = int(float64(v)/float64(limit)*barWidth + 0.5)
	}
	fill = min(max(fill, 0), barWidth)
	return lipgloss.NewStyle().Foreground(m.pal.BarFill).Render(strings.Repeat("█", fill)) +
		lipgloss.NewStyle().Foreground(m.pal.BarEmpty).Render(strings.Repeat("░", barWidth-fill))
}

func (m model) renderHelp() string {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(m.pal.Border).Padding(1, 2).Width(72)
	return box.Render(fmt.Sprintf("HOW TO SURVIVE CRAM WEEK\n\nSeed: %s\n\n"+
		"Seven days, seven time slots each. The exam is on the morning of day 8.\n"+
		"Study raises knowledge but costs HP and sanity. Knowledge you ignore fades.\n"+
		"Coffee helps until it doesn't. Sleep at night; resting with caffeine in your blood barely works.\n"+
		"Friends, seniors and the professor can help, for a price.\n\n"+
		"Keys: 1-8 actions, b shop, i bag, p prediction mode, t theme, r past results, q quit.\n\nEsc returns.", m.seedText))
}

func (m model) renderResults() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent).Render("PAST RUNS") + "\n")
	switch {
	case m.archive == nil:
		b.WriteString("(no archive configured)\n")
	case m.resultsErr != nil:
		b.WriteString("Could not load results: " + m.resultsErr.Error() + "\n")
	case len(m.results) == 0:
		b.WriteString("(no finished runs yet)\n")
	}
	for _, r := range m.results {
		b.WriteString(fmt.Sprintf("%s  %-8s %-18s %5.1f  %s\n", r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Slot, r.Status, r.FinalScore, r.Rank))
	}
	b.WriteString("\nEsc to return")
	return b.String()
}

func (m model) renderEnding() string {
	body := m.ending
	if body == "" {
		body = m.endingRaw
	}
	hint := lipgloss.NewStyle().Foreground(m.pal.Muted).Render("[n] new run  [r] results  [q] quit")
	return body + "\n" + hint
}

func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func abbrev(k string) string {
	if len(k) <= 4 {
		return k
	}
	return k[:4]
}
