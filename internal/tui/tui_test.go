package tui

import (
	"testing"
	"time"

	"github.com/sadopc/countr/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSummaries() []store.CounterSummary {
	return []store.CounterSummary{
		{
			Counter: store.Counter{
				ID:                 1,
				DisplayName:        "Coffee",
				Style:              store.StylePrimary,
				IncrementType:      store.IncrementFixed,
				IncrementValueType: store.ValueFixed,
				IncrementValue:     1,
				ResetType:          store.ResetDay,
			},
			TotalCount:    12,
			LastIncrement: 1,
			CurrentCount:  3,
		},
		{
			Counter: store.Counter{
				ID:                 2,
				DisplayName:        "Push-ups",
				Style:              store.StyleSecondary,
				HasMinus:           true,
				IncrementType:      store.IncrementFixed,
				IncrementValueType: store.ValuePrevious,
				IncrementValue:     10,
				ResetType:          store.ResetWeek,
			},
			TotalCount:    80,
			LastIncrement: 20,
			CurrentCount:  40,
		},
	}
}

// ============================================================
// Counters model
// ============================================================

func TestCountersSetSummariesClampsCursor(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)
	c.setSummaries(sampleSummaries())
	c.cursor = 1

	c.setSummaries(sampleSummaries()[:1])
	if c.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after shrink", c.cursor)
	}

	c.setSummaries(nil)
	if c.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 when empty", c.cursor)
	}
}

func TestCountersRecordFixedValue(t *testing.T) {
	s := newTestStore(t)
	counter, err := s.CreateCounter(store.Counter{DisplayName: "Coffee", IncrementValue: 2})
	if err != nil {
		t.Fatal(err)
	}

	c := newCountersModel(s)
	snap, _ := s.ListSummaries(time.Now())
	c.setSummaries(snap)

	c, cmd := c.record(1)
	if cmd == nil {
		t.Fatal("record should return a command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("unexpected message: %v", msg)
	}

	sum, _ := s.GetSummary(counter.ID, time.Now())
	if sum.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", sum.TotalCount)
	}
}

func TestCountersRecordPreviousValue(t *testing.T) {
	s := newTestStore(t)
	counter, err := s.CreateCounter(store.Counter{
		DisplayName:        "Push-ups",
		IncrementValueType: store.ValuePrevious,
		IncrementValue:     10,
	})
	if err != nil {
		t.Fatal(err)
	}
	s.AddIncrement(counter.ID, 25)

	c := newCountersModel(s)
	snap, _ := s.ListSummaries(time.Now())
	c.setSummaries(snap)

	c, cmd := c.record(1)
	if cmd == nil {
		t.Fatal("record should return a command")
	}
	cmd()

	sum, _ := s.GetSummary(counter.ID, time.Now())
	// Second increment repeats the previous value, not the default.
	if sum.TotalCount != 50 {
		t.Fatalf("TotalCount = %d, want 50", sum.TotalCount)
	}
}

func TestCountersRecordDecrementRequiresHasMinus(t *testing.T) {
	s := newTestStore(t)
	s.CreateCounter(store.Counter{DisplayName: "NoMinus"})

	c := newCountersModel(s)
	snap, _ := s.ListSummaries(time.Now())
	c.setSummaries(snap)

	_, cmd := c.record(-1)
	if cmd != nil {
		t.Fatal("decrement without has_minus should be a no-op")
	}
}

func TestCountersRecordDecrement(t *testing.T) {
	s := newTestStore(t)
	counter, _ := s.CreateCounter(store.Counter{DisplayName: "Budget", HasMinus: true, IncrementValue: 5})

	c := newCountersModel(s)
	snap, _ := s.ListSummaries(time.Now())
	c.setSummaries(snap)

	_, cmd := c.record(-1)
	if cmd == nil {
		t.Fatal("decrement should return a command")
	}
	cmd()

	sum, _ := s.GetSummary(counter.ID, time.Now())
	if sum.TotalCount != -5 {
		t.Fatalf("TotalCount = %d, want -5", sum.TotalCount)
	}
}

func TestCountersRecordAskOpensPrompt(t *testing.T) {
	s := newTestStore(t)
	s.CreateCounter(store.Counter{DisplayName: "Steps", IncrementType: store.IncrementAsk})

	c := newCountersModel(s)
	snap, _ := s.ListSummaries(time.Now())
	c.setSummaries(snap)

	c, cmd := c.record(1)
	if !c.formActive || c.formType != "ask" {
		t.Fatal("ask-every-time counter should open a value prompt")
	}
	if cmd == nil {
		t.Fatal("prompt should return an init command")
	}
}

func TestCountersRecordEmpty(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)
	_, cmd := c.record(1)
	if cmd != nil {
		t.Fatal("record with no counters should be a no-op")
	}
}

func TestCountersAddIncrementError(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)

	msg := c.addIncrement(999, 1)()
	status, ok := msg.(statusMsg)
	if !ok || !status.isError {
		t.Fatalf("expected error status, got %v", msg)
	}
}

func TestCountersDeleteSelected(t *testing.T) {
	s := newTestStore(t)
	counter, _ := s.CreateCounter(store.Counter{DisplayName: "Doomed"})

	c := newCountersModel(s)
	snap, _ := s.ListSummaries(time.Now())
	c.setSummaries(snap)

	_, cmd := c.deleteSelected()
	if cmd == nil {
		t.Fatal("delete should return a command")
	}
	cmd()

	gone, _ := s.GetCounter(counter.ID)
	if gone != nil {
		t.Fatal("counter should be deleted")
	}
}

func TestCountersViewEmpty(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)
	c.setSize(120, 40)

	out := c.view()
	if !stringContains(out, "No counters yet") {
		t.Fatal("empty view should show hint")
	}
}

func TestCountersViewRendersRows(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)
	c.setSize(120, 40)
	c.setSummaries(sampleSummaries())

	out := c.view()
	if !stringContains(out, "Coffee") || !stringContains(out, "Push-ups") {
		t.Fatal("view should render every counter")
	}
}

func TestCountersFormOpensAndCancels(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)
	c.setSize(120, 40)

	c, cmd := c.showCounterForm(nil)
	if !c.formActive || c.formType != "new" {
		t.Fatal("form should be active")
	}
	if cmd == nil {
		t.Fatal("form init command expected")
	}
	out := c.view()
	if out == "" {
		t.Fatal("form view rendered empty")
	}
}

func TestCountersEditFormPrefills(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)

	existing := sampleSummaries()[1].Counter
	c, _ = c.showCounterForm(&existing)
	if c.formType != "edit" || c.editingID != existing.ID {
		t.Fatal("edit form should target the existing counter")
	}
	if *c.formName != "Push-ups" || *c.formValue != "10" {
		t.Fatalf("form not prefilled: name=%q value=%q", *c.formName, *c.formValue)
	}
	if !*c.formMinus || *c.formReset != string(store.ResetWeek) {
		t.Fatal("form not prefilled from counter flags")
	}
}

func TestCountersSubmitCreates(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)

	*c.formName = "Water"
	*c.formStyle = string(store.StyleTertiary)
	*c.formReset = string(store.ResetDay)
	*c.formValue = "3"
	c.formType = "new"

	cmd := c.submitCounterForm()
	msg := cmd()
	if status, ok := msg.(statusMsg); !ok || status.isError {
		t.Fatalf("expected success status, got %v", msg)
	}

	counters, _ := s.ListCounters()
	if len(counters) != 1 || counters[0].DisplayName != "Water" {
		t.Fatalf("counter not created: %+v", counters)
	}
	if counters[0].IncrementValue != 3 || counters[0].ResetType != store.ResetDay {
		t.Fatalf("counter fields wrong: %+v", counters[0])
	}
}

func TestCountersSubmitRejectsBadValue(t *testing.T) {
	s := newTestStore(t)
	c := newCountersModel(s)

	*c.formName = "Bad"
	*c.formValue = "not a number"
	c.formType = "new"

	msg := c.submitCounterForm()()
	status, ok := msg.(statusMsg)
	if !ok || !status.isError {
		t.Fatalf("expected error status, got %v", msg)
	}

	counters, _ := s.ListCounters()
	if len(counters) != 0 {
		t.Fatal("invalid form must not create a counter")
	}
}

// ============================================================
// History model
// ============================================================

func TestHistorySetSummariesClampsCursor(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s)
	h.setSummaries(sampleSummaries())
	h.cursor = 1

	h.setSummaries(nil)
	if h.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", h.cursor)
	}
}

func TestHistoryRefreshDetail(t *testing.T) {
	s := newTestStore(t)
	counter, _ := s.CreateCounter(store.Counter{DisplayName: "Coffee", ResetType: store.ResetDay})
	s.AddIncrement(counter.ID, 2)
	s.AddIncrement(counter.ID, 3)

	h := newHistoryModel(s)
	h.setSize(120, 40)
	snap, _ := s.ListSummaries(time.Now())
	h.setSummaries(snap)
	h.detail = snap[0]

	msg := h.refreshDetail()()
	data, ok := msg.(historyDataMsg)
	if !ok {
		t.Fatalf("expected historyDataMsg, got %v", msg)
	}
	if len(data.increments) != 2 {
		t.Fatalf("expected 2 increments, got %d", len(data.increments))
	}
	if len(data.groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(data.groups))
	}
	if data.groups[0].Total != 5 || data.groups[0].Count != 2 {
		t.Fatalf("unexpected group: %+v", data.groups[0])
	}
}

func TestHistoryDataIgnoredForOtherCounter(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s)
	h.detail.ID = 1

	h, _ = h.update(historyDataMsg{counterID: 2, increments: []store.Increment{{ID: 1}}})
	if len(h.increments) != 0 {
		t.Fatal("stale detail data for another counter should be dropped")
	}
}

func TestHistoryBuildChart(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s)
	h.setSize(120, 40)
	h.detail = sampleSummaries()[0]
	h.groups = []store.IncrementGroup{
		{Total: 5, Count: 2},
		{Total: 3, Count: 1},
	}

	h.buildChart()
	if h.chart.View() == "" {
		t.Fatal("chart rendered empty")
	}
}

func TestHistoryDeleteIncrement(t *testing.T) {
	s := newTestStore(t)
	counter, _ := s.CreateCounter(store.Counter{DisplayName: "Coffee"})
	inc, _ := s.AddIncrement(counter.ID, 1)

	h := newHistoryModel(s)
	msg := h.deleteIncrement(inc.ID)()
	if status, ok := msg.(statusMsg); !ok || status.isError {
		t.Fatalf("expected success status, got %v", msg)
	}

	incs, _ := s.ListIncrements(counter.ID)
	if len(incs) != 0 {
		t.Fatal("increment should be deleted")
	}
}

func TestHistoryViewStates(t *testing.T) {
	s := newTestStore(t)
	h := newHistoryModel(s)
	h.setSize(120, 40)

	if out := h.view(); !stringContains(out, "No counters yet") {
		t.Fatal("empty list view should show hint")
	}

	h.setSummaries(sampleSummaries())
	if out := h.view(); !stringContains(out, "Coffee") {
		t.Fatal("list view should show counters")
	}

	h.viewingDetail = true
	h.detail = sampleSummaries()[0]
	if out := h.view(); !stringContains(out, "No entries yet") {
		t.Fatal("empty detail view should show hint")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsGetVal(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)

	if got := m.getVal("week_start", "monday"); got != "monday" {
		t.Fatalf("week_start = %q", got)
	}
	if got := m.getVal("missing", "fallback"); got != "fallback" {
		t.Fatalf("missing key = %q, want fallback", got)
	}
}

func TestSettingsRefresh(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)

	msg := m.refresh()()
	data, ok := msg.(settingsDataMsg)
	if !ok {
		t.Fatalf("expected settingsDataMsg, got %v", msg)
	}
	if len(data.settings) == 0 {
		t.Fatal("seeded settings should be listed")
	}
}

func TestSettingsShowForm(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m.setSize(120, 40)

	m, cmd := m.showForm()
	if !m.formActive || cmd == nil {
		t.Fatal("form should be active with init command")
	}
	if *m.weekStart != "monday" {
		t.Fatalf("weekStart = %q, want monday", *m.weekStart)
	}
	if m.view() == "" {
		t.Fatal("form view rendered empty")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-7, "-7"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.n); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestResetLabel(t *testing.T) {
	tests := []struct {
		r    store.ResetType
		want string
	}{
		{store.ResetNever, "all time"},
		{store.ResetDay, "today"},
		{store.ResetWeek, "this week"},
		{store.ResetMonth, "this month"},
	}
	for _, tt := range tests {
		if got := resetLabel(tt.r); got != tt.want {
			t.Errorf("resetLabel(%s) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestCounterColor(t *testing.T) {
	styles := []store.CounterStyle{
		store.StyleDefault, store.StylePrimary, store.StyleSecondary, store.StyleTertiary,
	}
	seen := map[string]bool{}
	for _, cs := range styles {
		c := counterColor(cs)
		if seen[string(c)] {
			t.Fatalf("duplicate color for style %s", cs)
		}
		seen[string(c)] = true
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 3 {
		t.Fatalf("expected 3 view names, got %d", len(viewNames))
	}
	expected := []string{"Counters", "History", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewCounters != 0 || viewHistory != 1 || viewSettings != 2 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()

	if app.activeView != viewCounters {
		t.Fatal("default view should be counters")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()
	app.width = 120
	app.height = 40
	app.counters.setSize(120, 36)
	app.history.setSize(120, 36)
	app.settings.setSize(120, 36)

	views := []viewState{viewCounters, viewHistory, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppSummariesFanOut(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()

	model, cmd := app.Update(summariesMsg(sampleSummaries()))
	app = model.(App)
	if len(app.counters.summaries) != 2 || len(app.history.summaries) != 2 {
		t.Fatal("snapshot should reach both views")
	}
	if cmd == nil {
		t.Fatal("snapshot handling should re-arm the subscription wait")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !stringContains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()

	// Width 0 means not yet sized
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()
	app.width = 120
	app.height = 40
	app.status = "test status"

	footer := app.renderFooter()
	if !stringContains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExportPickerRenders(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s)
	defer app.sub.Close()
	app.width = 120
	app.height = 40
	app.exportPicking = true

	out := app.View()
	if !stringContains(out, "Export Format") {
		t.Fatal("export picker should render over the content")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test — just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"count", func() string { return countStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}

func stringContains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
