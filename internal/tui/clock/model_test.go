package clock

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	mdwlog "github.com/msto63/tempus/foundation/core/log"
	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/alarm/store"
	"github.com/msto63/tempus/internal/chronos/service"
	"github.com/msto63/tempus/pkg/core/logging"
	"github.com/msto63/tempus/pkg/core/timer"
)

// 2013-10-21 12:34:56 UTC, a Monday
var fixedNow = time.Unix(1382313600+45296, 0)

func quietLogger() *logging.Logger {
	return logging.Wrap(mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelError, Output: io.Discard}))
}

func newTestModel(t *testing.T, cfg Config) Model {
	t.Helper()
	svc, err := service.NewService(service.Config{
		Clock:  func() time.Time { return fixedNow },
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	cfg.Service = svc
	cfg.Now = func() time.Time { return fixedNow }
	return New(cfg)
}

// load runs the month command and feeds its result back
func load(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(monthLoadedMsg)
	if !ok {
		t.Fatal("command did not load a month")
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewStartsAtCurrentMonth(t *testing.T) {
	m := newTestModel(t, Config{})

	if m.year != 2013 || m.month != 10 {
		t.Errorf("month = %d-%d, want 2013-10", m.year, m.month)
	}
	if m.view.Locale != "en_US" {
		t.Errorf("locale = %q, want en_US", m.view.Locale)
	}
	if len(m.locales) < 3 {
		t.Errorf("locales = %v", m.locales)
	}
	if m.Init() == nil {
		t.Error("Init() returned no command")
	}
}

func TestTick(t *testing.T) {
	m := newTestModel(t, Config{})

	updated, cmd := m.Update(tickMsg(fixedNow))
	m = updated.(Model)

	if m.timeText != "12:34:56" {
		t.Errorf("timeText = %q, want 12:34:56", m.timeText)
	}
	if m.dateText != "Monday, 21 October 2013" {
		t.Errorf("dateText = %q", m.dateText)
	}
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
}

func TestMonthNavigation(t *testing.T) {
	m := newTestModel(t, Config{})

	testCases := []struct {
		name  string
		key   tea.KeyMsg
		year  int
		month int
	}{
		{"next", tea.KeyMsg{Type: tea.KeyRight}, 2013, 11},
		{"next again", runes("l"), 2013, 12},
		{"wraps forward", runes("l"), 2014, 1},
		{"wraps back", tea.KeyMsg{Type: tea.KeyLeft}, 2013, 12},
		{"today", runes("t"), 2013, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			updated, cmd := m.Update(tc.key)
			m = load(t, updated.(Model), cmd)

			if m.year != tc.year || m.month != tc.month {
				t.Errorf("month = %d-%d, want %d-%d", m.year, m.month, tc.year, tc.month)
			}
			if m.monthView == nil || m.monthView.Month != tc.month || m.monthView.Year != tc.year {
				t.Errorf("monthView = %+v", m.monthView)
			}
		})
	}
}

func TestWeekStartToggle(t *testing.T) {
	m := newTestModel(t, Config{})

	updated, cmd := m.Update(runes("w"))
	m = load(t, updated.(Model), cmd)
	if m.monthView.DayNames[0] != "Mon" {
		t.Errorf("first day = %s, want Mon", m.monthView.DayNames[0])
	}

	updated, cmd = m.Update(runes("w"))
	m = load(t, updated.(Model), cmd)
	if m.monthView.DayNames[0] != "Sun" {
		t.Errorf("first day = %s, want Sun", m.monthView.DayNames[0])
	}
}

func TestLocaleCycle(t *testing.T) {
	m := newTestModel(t, Config{})

	seen := map[string]bool{m.view.Locale: true}
	for i := 0; i < len(m.locales)-1; i++ {
		updated, cmd := m.Update(runes("L"))
		m = load(t, updated.(Model), cmd)
		if seen[m.view.Locale] {
			t.Fatalf("locale %s repeated before the cycle ended", m.view.Locale)
		}
		seen[m.view.Locale] = true
	}

	updated, _ := m.Update(runes("L"))
	if got := updated.(Model).view.Locale; got != "en_US" {
		t.Errorf("cycle ended at %s, want en_US", got)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Config{})

	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k.String())
		}
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, Config{View: service.View{Locale: "de_DE"}})

	updated, _ := m.Update(tickMsg(fixedNow))
	m = load(t, updated.(Model), m.loadMonth())

	out := m.View()
	for _, want := range []string{Logo, "12:34:56", "Oktober 2013", "43", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestAlarmNotification(t *testing.T) {
	logger := quietLogger()
	st, err := store.Open(store.Config{Path: filepath.Join(t.TempDir(), "alarms.db")})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer st.Close()
	timers := timer.New(timer.Config{Tick: 5 * time.Millisecond, Logger: logger.Logger})
	defer timers.Stop()
	svc, err := service.NewService(service.Config{Logger: logger})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	alarms, err := alarmsvc.NewService(alarmsvc.Config{Store: st, Timers: timers, Calendar: svc, Logger: logger})
	if err != nil {
		t.Fatalf("alarm NewService() error = %v", err)
	}
	defer alarms.Stop()

	m := New(Config{Service: svc, Alarms: alarms})
	defer m.Close()

	if _, err := alarms.Add(t.Context(), alarmsvc.AddRequest{Label: "stretch", At: service.At(0)}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- m.waitForAlarm()() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("no alarm message")
	}

	updated, cmd := m.Update(msg)
	m = updated.(Model)
	if !strings.Contains(m.lastAlarm, "stretch") {
		t.Errorf("lastAlarm = %q", m.lastAlarm)
	}
	if cmd == nil {
		t.Error("alarm did not re-arm the subscription")
	}
	if !strings.Contains(m.View(), "stretch") {
		t.Error("View() does not show the alarm")
	}
}
