// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     clock
// Description: Bubbletea model for the terminal clock and month calendar
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package clock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/tempus/foundation/utils/stringx"
	"github.com/msto63/tempus/foundation/utils/timex"
	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/chronos/service"
)

// Default patterns of the clock face
const (
	DefaultTimePattern = "%H:%M:%S"
	DefaultDatePattern = "%A, %d %B %Y"
)

// Config holds clock configuration. Alarms is optional.
type Config struct {
	Service     *service.Service
	Alarms      *alarmsvc.Service
	View        service.View
	TimePattern string
	DatePattern string
	Now         func() time.Time
}

type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	Today     key.Binding
	WeekStart key.Binding
	Locale    key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Today, k.WeekStart, k.Locale, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev month")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next month")),
		Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		WeekStart: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week start")),
		Locale:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "locale")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the Bubbletea model of the terminal clock
type Model struct {
	service     *service.Service
	view        service.View
	timePattern string
	datePattern string
	now         func() time.Time
	locales     []string

	width  int
	height int

	year  int
	month int
	today timex.Date

	timeText  string
	dateText  string
	monthView *service.MonthView
	loading   bool
	lastAlarm string
	err       error

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	alarms      chan alarmsvc.Event
	unsubscribe func()
}

// New creates a clock model showing the current month
func New(cfg Config) Model {
	if cfg.TimePattern == "" {
		cfg.TimePattern = DefaultTimePattern
	}
	if cfg.DatePattern == "" {
		cfg.DatePattern = DefaultDatePattern
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	m := Model{
		service:     cfg.Service,
		view:        cfg.View,
		timePattern: cfg.TimePattern,
		datePattern: cfg.DatePattern,
		now:         cfg.Now,
		spinner:     sp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		loading:     true,
	}

	for _, info := range cfg.Service.Locales(context.Background()) {
		m.locales = append(m.locales, info.ID)
		if m.view.Locale == "" && info.Default {
			m.view.Locale = info.ID
		}
	}

	m.today = timex.FromTimestamp(m.now().Unix())
	m.year, m.month = m.today.Year, m.today.Month

	if cfg.Alarms != nil {
		ch := make(chan alarmsvc.Event, 8)
		m.alarms = ch
		m.unsubscribe = cfg.Alarms.Subscribe(func(e alarmsvc.Event) {
			select {
			case ch <- e:
			default:
			}
		})
	}
	return m
}

// Close stops the alarm subscription
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		func() tea.Msg { return tickMsg(m.now()) },
		m.loadMonth(),
	}
	if m.alarms != nil {
		cmds = append(cmds, m.waitForAlarm())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tickMsg:
		m.renderClock(time.Time(msg))
		cmds = append(cmds, tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return tickMsg(t)
		}))

	case monthLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.monthView = msg.view
		}

	case alarmMsg:
		label := msg.event.Alarm.Label
		if label == "" {
			label = msg.event.Alarm.ID
		}
		m.lastAlarm = fmt.Sprintf("%s (%s)", label, msg.event.Text)
		cmds = append(cmds, m.waitForAlarm())
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prev):
		m.month--
		if m.month < 1 {
			m.month, m.year = 12, m.year-1
		}

	case key.Matches(msg, m.keys.Next):
		m.month++
		if m.month > 12 {
			m.month, m.year = 1, m.year+1
		}

	case key.Matches(msg, m.keys.Today):
		m.year, m.month = m.today.Year, m.today.Month

	case key.Matches(msg, m.keys.WeekStart):
		monday := !m.mondayFirst()
		m.view.MondayFirst = &monday

	case key.Matches(msg, m.keys.Locale):
		m.view.Locale = m.nextLocale()
		m.renderClock(m.now())

	default:
		return m, nil
	}

	m.loading = true
	return m, m.loadMonth()
}

// mondayFirst reports the week mode of the current view
func (m Model) mondayFirst() bool {
	if m.view.MondayFirst != nil {
		return *m.view.MondayFirst
	}
	return m.service.Engine().WeekStartsMonday()
}

func (m Model) nextLocale() string {
	if len(m.locales) == 0 {
		return m.view.Locale
	}
	for i, id := range m.locales {
		if id == m.view.Locale {
			return m.locales[(i+1)%len(m.locales)]
		}
	}
	return m.locales[0]
}

func (m *Model) renderClock(now time.Time) {
	ctx := context.Background()
	ts := now.Unix()
	m.today = timex.FromTimestamp(ts)

	text, err := m.service.Format(ctx, service.FormatRequest{View: m.view, Date: service.At(ts), Pattern: m.timePattern})
	if err != nil {
		m.err = err
		return
	}
	m.timeText = text

	if m.dateText, err = m.service.Format(ctx, service.FormatRequest{View: m.view, Date: service.At(ts), Pattern: m.datePattern}); err != nil {
		m.err = err
	}
}

func (m Model) loadMonth() tea.Cmd {
	svc, req := m.service, service.MonthRequest{View: m.view, Year: m.year, Month: m.month}
	return func() tea.Msg {
		view, err := svc.Month(context.Background(), req)
		return monthLoadedMsg{view: view, err: err}
	}
}

func (m Model) waitForAlarm() tea.Cmd {
	ch := m.alarms
	return func() tea.Msg {
		return alarmMsg{event: <-ch}
	}
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(LogoStyle.Render(Logo))
	b.WriteString(StatusStyle.Render("  " + m.view.Locale))
	b.WriteString("\n\n")

	face := lipgloss.JoinVertical(lipgloss.Center,
		TimeStyle.Render(m.timeText),
		DateStyle.Render(m.dateText),
	)
	b.WriteString(PanelStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, face, "    ", m.renderMonth())))
	b.WriteString("\n")

	if m.lastAlarm != "" {
		b.WriteString(AlarmStyle.Render(IconAlarm + m.lastAlarm))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderMonth() string {
	if m.monthView == nil {
		if m.loading {
			return m.spinner.View() + " Loading..."
		}
		return ""
	}
	mv := m.monthView

	var b strings.Builder
	b.WriteString(MonthTitleStyle.Render(fmt.Sprintf("%s %d", mv.MonthName, mv.Year)))
	b.WriteString("\n")

	b.WriteString(WeekNumberStyle.Render("#"))
	for _, name := range mv.DayNames {
		b.WriteString(WeekdayStyle.Render(stringx.Truncate(name, 3)))
	}
	b.WriteString("\n")

	current := mv.Year == m.today.Year && mv.Month == m.today.Month
	for _, week := range mv.Weeks {
		b.WriteString(WeekNumberStyle.Render(fmt.Sprintf("%d", week.Number)))
		for _, day := range week.Days {
			switch {
			case day == 0:
				b.WriteString(DayStyle.Render(""))
			case current && day == m.today.Day:
				b.WriteString(TodayStyle.Render(fmt.Sprintf("%d", day)))
			default:
				b.WriteString(DayStyle.Render(fmt.Sprintf("%d", day)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the terminal clock
func Run(cfg Config) error {
	m := New(cfg)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
