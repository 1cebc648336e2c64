package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/countr/internal/store"
)

// maxChartBuckets caps how many windows the bar chart shows.
const maxChartBuckets = 14

type historyModel struct {
	store  *store.Store
	width  int
	height int

	summaries []store.CounterSummary
	cursor    int

	viewingDetail bool
	detail        store.CounterSummary
	increments    []store.Increment
	groups        []store.IncrementGroup
	detailCursor  int

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h *historyModel) setSummaries(sums []store.CounterSummary) {
	h.summaries = sums
	if h.cursor >= len(h.summaries) {
		h.cursor = max(0, len(h.summaries)-1)
	}
}

func (h historyModel) refreshDetail() tea.Cmd {
	counterID := h.detail.ID
	reset := h.detail.ResetType
	return func() tea.Msg {
		increments, err := h.store.ListIncrements(counterID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		groups, err := h.store.ListIncrementGroups(counterID, reset, time.Local)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return historyDataMsg{counterID: counterID, increments: increments, groups: groups}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		if msg.counterID != h.detail.ID {
			return h, nil
		}
		h.increments = msg.increments
		h.groups = msg.groups
		if h.detailCursor >= len(h.increments) {
			h.detailCursor = max(0, len(h.increments)-1)
		}
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		if h.viewingDetail {
			return h.updateDetail(msg)
		}
		return h.updateList(msg)
	}
	return h, nil
}

func (h historyModel) updateList(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(msg, keys.Down):
		if h.cursor < len(h.summaries)-1 {
			h.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(h.summaries) > 0 {
			h.viewingDetail = true
			h.detail = h.summaries[h.cursor]
			h.detailCursor = 0
			h.increments = nil
			h.groups = nil
			return h, h.refreshDetail()
		}
	}
	return h, nil
}

func (h historyModel) updateDetail(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		h.viewingDetail = false
		return h, nil
	case key.Matches(msg, keys.Up):
		if h.detailCursor > 0 {
			h.detailCursor--
		}
	case key.Matches(msg, keys.Down):
		if h.detailCursor < len(h.increments)-1 {
			h.detailCursor++
		}
	case key.Matches(msg, keys.Delete):
		if len(h.increments) > 0 {
			inc := h.increments[h.detailCursor]
			return h, tea.Sequence(h.deleteIncrement(inc.ID), h.refreshDetail())
		}
	}
	return h, nil
}

func (h historyModel) deleteIncrement(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := h.store.DeleteIncrement(id); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: "Entry deleted"}
	}
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	// Groups arrive newest first; chart reads left to right, oldest
	// first, capped to the most recent buckets.
	groups := h.groups
	if len(groups) > maxChartBuckets {
		groups = groups[:maxChartBuckets]
	}

	style := lipgloss.NewStyle().Foreground(counterColor(h.detail.Style))
	var bars []barchart.BarData
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		value := float64(g.Total)
		if value < 0 {
			value = 0
		}
		bars = append(bars, barchart.BarData{
			Label: h.bucketLabel(g.WindowStart),
			Values: []barchart.BarValue{
				{Name: h.detail.DisplayName, Value: value, Style: style},
			},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) bucketLabel(start time.Time) string {
	switch h.detail.ResetType {
	case store.ResetMonth:
		return start.Format("Jan 06")
	case store.ResetWeek:
		return start.Format("Jan 02")
	default:
		return start.Format("02")
	}
}

func (h historyModel) view() string {
	if h.viewingDetail {
		return h.renderDetail()
	}
	return h.renderList()
}

func (h historyModel) renderList() string {
	w := h.width - 4
	title := titleStyle.Render("History")

	if len(h.summaries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No counters yet."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, sum := range h.summaries {
		dot := lipgloss.NewStyle().Foreground(counterColor(sum.Style)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == h.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s", cursor, dot, sum.DisplayName)) +
			mutedStyle.Render(fmt.Sprintf("total %s", formatCount(sum.TotalCount)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: view history"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (h historyModel) renderDetail() string {
	w := h.width - 4
	dot := lipgloss.NewStyle().Foreground(counterColor(h.detail.Style)).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s — History", dot, h.detail.DisplayName))

	if len(h.increments) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No entries yet."),
			"",
			mutedStyle.Render("  esc: back"),
		)
		return panelStyle.Width(w).Render(content)
	}

	chartView := h.chart.View()
	entriesView := h.renderEntries(w)
	nav := mutedStyle.Render("  d: delete entry  esc: back")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", chartView, "", entriesView, "", nav,
		),
	)
}

func (h historyModel) renderEntries(w int) string {
	var rows []string
	header := mutedStyle.Render(fmt.Sprintf("  %-18s %8s", "Time", "Value"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 28))))

	// Show a window of entries around the cursor.
	visible := 8
	start := 0
	if h.detailCursor >= visible {
		start = h.detailCursor - visible + 1
	}
	end := min(start+visible, len(h.increments))

	for i := start; i < end; i++ {
		inc := h.increments[i]
		cursor := "  "
		style := normalItemStyle
		if i == h.detailCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		value := formatCount(inc.Value)
		if inc.Value > 0 {
			value = "+" + value
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-18s %8s",
			cursor, inc.Timestamp.Local().Format("Jan 02 15:04"), value)))
	}

	if end < len(h.increments) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(h.increments)-end)))
	}

	return strings.Join(rows, "\n")
}
