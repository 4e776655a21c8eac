// ============================================================================
// tempus - Calendar Engine
// ============================================================================
//
// Package:     clock
// Description: Message types for async operations in the terminal clock
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package clock

import (
	"time"

	alarmsvc "github.com/msto63/tempus/internal/alarm/service"
	"github.com/msto63/tempus/internal/chronos/service"
)

// tickMsg advances the clock
type tickMsg time.Time

// monthLoadedMsg carries the calendar of the displayed month
type monthLoadedMsg struct {
	view *service.MonthView
	err  error
}

// alarmMsg is sent when an alarm fires
type alarmMsg struct {
	event alarmsvc.Event
}
