package tui

import (
	"fmt"

	"github.com/sadopc/countr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCounters viewState = iota
	viewHistory
	viewSettings
)

var viewNames = []string{"Counters", "History", "Settings"}

// --- Messages ---

// summariesMsg is a fresh aggregate snapshot from the store
// subscription. It fans out to every view that shows counters.
type summariesMsg []store.CounterSummary

type historyDataMsg struct {
	counterID  int64
	increments []store.Increment
	groups     []store.IncrementGroup
}

type settingsDataMsg struct {
	settings []store.Setting
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatCount(n int64) string {
	return fmt.Sprintf("%d", n)
}

// resetLabel names the window a current count covers.
func resetLabel(r store.ResetType) string {
	switch r {
	case store.ResetDay:
		return "today"
	case store.ResetWeek:
		return "this week"
	case store.ResetMonth:
		return "this month"
	default:
		return "all time"
	}
}
