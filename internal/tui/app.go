// Package tui provides the interactive Bubble Tea dashboard for fincmd.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fincmd/internal/cli"
	"github.com/theirongolddev/fincmd/internal/config"
	"github.com/theirongolddev/fincmd/internal/ledger"
	"github.com/theirongolddev/fincmd/internal/liquidity"
	"github.com/theirongolddev/fincmd/internal/model"
	"github.com/theirongolddev/fincmd/internal/money"
	"github.com/theirongolddev/fincmd/internal/service"
	"github.com/theirongolddev/fincmd/internal/store"
	"github.com/theirongolddev/fincmd/internal/tui/components"
	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// JournalReader lists recently persisted actions, newest first.
type JournalReader interface {
	Journal(limit int) ([]store.JournalEntry, error)
}

// Options configures the dashboard.
type Options struct {
	Config config.Config
	// Journal is optional; without it the activity tab shows only this
	// session's changes.
	Journal   JournalReader
	NeedSetup bool
	Now       func() time.Time
}

// ledgerData is one consistent read of the service.
type ledgerData struct {
	state     model.State
	balances  map[string]money.Money
	liq       liquidity.Breakdown
	deficit   []liquidity.Source
	food      ledger.FoodInfo
	weekly    ledger.WeeklyInfo
	events    []service.Event
	journal   []store.JournalEntry
	undoDepth int
	loadedAt  time.Time
}

// DataLoadedMsg carries a fresh read of the ledger.
type DataLoadedMsg struct {
	data ledgerData
	err  error
}

// ledgerEventMsg is a change published by the service.
type ledgerEventMsg service.Event

// actionDoneMsg reports the outcome of a quick action.
type actionDoneMsg struct {
	text string
	err  error
}

// App is the root Bubble Tea model.
type App struct {
	svc     *service.Service
	journal JournalReader
	cfg     config.Config
	now     func() time.Time

	// Data
	data    ledgerData
	loaded  bool
	loadErr error

	// Change feed
	events <-chan service.Event
	stop   func()

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	planScroll     int
	activityScroll int
	settings       settingsState
	prompt         promptState

	// Last action outcome, shown in the status bar
	flash    string
	flashErr bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	journalLimit     = 50
)

const (
	tabLedger = iota
	tabPlan
	tabLiquidity
	tabActivity
	tabSettings
)

// NewApp creates the dashboard over svc. Call Close when the program exits.
func NewApp(svc *service.Service, opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	events, stop := svc.Subscribe()

	return App{
		svc:       svc,
		journal:   opts.Journal,
		cfg:       opts.Config,
		now:       opts.Now,
		needSetup: opts.NeedSetup,
		events:    events,
		stop:      stop,
		spinner:   sp,
	}
}

// Close ends the change-feed subscription.
func (a App) Close() {
	if a.stop != nil {
		a.stop()
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		loadDataCmd(a.svc, a.journal, a.now),
		waitForEvent(a.events),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scroll(-1)
		case tea.MouseButtonWheelDown:
			a.scroll(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.err
		if msg.err == nil {
			a.data = msg.data
			a.applyTheme()
		}
		if a.needSetup && a.setupForm == nil {
			a.setupForm = newSetupForm(&a.setupVals, a.cfg, a.data.state)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ledgerEventMsg:
		return a, tea.Batch(loadDataCmd(a.svc, a.journal, a.now), waitForEvent(a.events))

	case actionDoneMsg:
		a.flash, a.flashErr = msg.text, false
		if msg.err != nil {
			a.flash, a.flashErr = msg.err.Error(), true
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.prompt.active {
		var cmd tea.Cmd
		a.prompt.input, cmd = a.prompt.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.prompt.active {
		return a.updatePrompt(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabSettings {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.scroll(1)
		return a, nil
	case "k", "up":
		a.scroll(-1)
		return a, nil
	case "g":
		a.planScroll, a.activityScroll = 0, 0
		return a, nil
	case "R":
		return a, loadDataCmd(a.svc, a.journal, a.now)
	}

	// Quick actions
	switch key {
	case "n":
		a.flash = ""
		return a, nextWeekCmd(a.svc)
	case "f":
		a.flash = ""
		return a, spendFoodDayCmd(a.svc)
	case "r":
		a.flash = ""
		return a, releaseBufferCmd(a.svc)
	case "u":
		a.flash = ""
		return a, undoCmd(a.svc)
	case "w":
		return a.openPrompt(promptWeeklySpend)
	case "b":
		return a.openPrompt(promptBuyFood)
	}

	// Tab navigation
	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a *App) scroll(delta int) {
	switch a.activeTab {
	case tabPlan:
		a.planScroll = max(0, a.planScroll+delta)
	case tabActivity:
		a.activityScroll = max(0, a.activityScroll+delta)
	}
}

// applyTheme follows the ledger's light/dark preference.
func (a *App) applyTheme() {
	light := a.data.state.Settings.Theme == model.ThemeLight
	theme.Active = theme.ForMode(a.cfg.Appearance.Theme, light)
}

func (a App) formatter() cli.Formatter {
	return cli.NewFormatter(a.data.state.Settings)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		cfg, err := a.saveSetup()
		if err != nil {
			a.flash, a.flashErr = fmt.Sprintf("setup: %s", err), true
			return a, nil
		}
		a.cfg = cfg
		a.applyTheme()
		a.flash, a.flashErr = "Saved to "+config.ConfigPath(), false
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fincmd needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fincmd"))
	b.WriteString(subtitleStyle.Render(" · Budget Ledger"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Opening ledger..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

var (
	navBindings = []binding{
		{"l p i a s", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Scroll plan / activity"},
		{"g", "Back to top"},
	}
	actionBindings = []binding{
		{"n", "Start next week"},
		{"f", "Log a food day"},
		{"b", "Buy food days"},
		{"w", "Spend from weekly"},
		{"r", "Release food buffer"},
		{"u", "Undo last change"},
		{"R", "Reload"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
)

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, title string, binds []binding) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", navBindings)
	b.WriteString("\n")
	section(&b, "Actions", actionBindings)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderSummaryRow(w)

	var footer string
	if a.prompt.active {
		footer = a.renderPrompt(w)
	} else {
		footer = components.RenderStatusBar(w, components.Status{
			Flash:     a.flash,
			FlashErr:  a.flashErr,
			UndoDepth: a.data.undoDepth,
			Saved:     a.lastSaved(),
		})
	}

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(footer), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard("Error", a.loadErr.Error(), cw)
	case a.activeTab == tabLedger:
		content = a.renderLedgerTab(cw)
	case a.activeTab == tabPlan:
		content = scrollLines(a.renderPlanTab(cw), a.planScroll, contentH)
	case a.activeTab == tabLiquidity:
		content = a.renderLiquidityTab(cw)
	case a.activeTab == tabActivity:
		content = scrollLines(a.renderActivityTab(cw), a.activityScroll, contentH)
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderSummaryRow is the pill line under the tabs: currency, week and food days.
func (a App) renderSummaryRow(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	st := a.data.state
	row := dim.Render(" ") + accent.Render(st.Settings.Currency) +
		dim.Render(" │ week ") + accent.Render(fmt.Sprintf("%d/%d", a.data.weekly.Week, model.MaxWeeks)) +
		dim.Render(" │ food ") + accent.Render(cli.FormatDays(a.data.food.DaysLeft)) +
		dim.Render(" left")
	if st.Food.LockedAmount.IsPositive() {
		row += dim.Render(" │ buffer ") + accent.Render(a.formatter().Amount(st.Food.LockedAmount))
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(row)
}

func (a App) lastSaved() string {
	if len(a.data.journal) > 0 {
		return cli.FormatWhen(a.data.journal[0].At, a.now())
	}
	if len(a.data.events) > 0 {
		return cli.FormatWhen(a.data.events[len(a.data.events)-1].Timestamp, a.now())
	}
	return ""
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd reads the service and journal in the background.
func loadDataCmd(svc *service.Service, journal JournalReader, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		st := svc.State()
		d := ledgerData{
			state:     st,
			balances:  balancesOf(st),
			liq:       svc.Liquidity(),
			deficit:   svc.DeficitSources(),
			food:      svc.Food(),
			weekly:    svc.Weekly(),
			events:    svc.Events(),
			undoDepth: svc.UndoDepth(),
			loadedAt:  now(),
		}
		if journal != nil {
			entries, err := journal.Journal(journalLimit)
			if err != nil {
				return DataLoadedMsg{err: err}
			}
			d.journal = entries
		}
		return DataLoadedMsg{data: d}
	}
}

// balancesOf resolves the current balance of every item in the tree.
func balancesOf(st model.State) map[string]money.Money {
	view := st.Clone()
	l := ledger.New(&view)
	out := make(map[string]money.Money)
	for _, label := range view.Labels() {
		out[label] = l.Current(label)
	}
	return out
}

// waitForEvent blocks until the service publishes the next change.
func waitForEvent(events <-chan service.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ledgerEventMsg(ev)
	}
}

func nextWeekCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		if err := svc.NextWeek(); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: fmt.Sprintf("Week %d started", svc.Weekly().Week)}
	}
}

func spendFoodDayCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		if err := svc.SpendFoodDay(); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: fmt.Sprintf("Food day logged, %s left", cli.FormatDays(svc.Food().DaysLeft))}
	}
}

func releaseBufferCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		if err := svc.ReleaseBuffer(); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "Food buffer released"}
	}
}

func undoCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		err := svc.Undo()
		switch {
		case errors.Is(err, service.ErrNothingToUndo):
			return actionDoneMsg{err: err}
		case err != nil:
			return actionDoneMsg{err: fmt.Errorf("undo: %w", err)}
		}
		return actionDoneMsg{text: "Undone"}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// scrollLines drops the first offset lines, clamped so the last page stays full.
func scrollLines(s string, offset, h int) string {
	lines := strings.Split(s, "\n")
	offset = min(offset, max(0, len(lines)-h))
	return strings.Join(lines[offset:], "\n")
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by a one-column divider.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
