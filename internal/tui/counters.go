package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/countr/internal/store"
)

type countersModel struct {
	store  *store.Store
	width  int
	height int

	summaries []store.CounterSummary
	cursor    int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "ask"

	// Form field pointers (survive value copies)
	formName      *string
	formStyle     *string
	formReset     *string
	formMinus     *bool
	formIncType   *string
	formValueType *string
	formValue     *string
	askValue      *string

	askSign   int64 // +1 or -1 for the ask-every-time prompt
	askTarget int64 // counter being incremented
	editingID int64 // counter being edited
}

func newCountersModel(s *store.Store) countersModel {
	name, style, reset := "", string(store.StyleDefault), string(store.ResetNever)
	incType, valueType, value := string(store.IncrementFixed), string(store.ValueFixed), "1"
	minus := false
	ask := ""
	return countersModel{
		store:         s,
		formName:      &name,
		formStyle:     &style,
		formReset:     &reset,
		formMinus:     &minus,
		formIncType:   &incType,
		formValueType: &valueType,
		formValue:     &value,
		askValue:      &ask,
	}
}

func (c *countersModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c *countersModel) setSummaries(sums []store.CounterSummary) {
	c.summaries = sums
	if c.cursor >= len(c.summaries) {
		c.cursor = max(0, len(c.summaries)-1)
	}
}

func (c countersModel) update(msg tea.Msg) (countersModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.summaries)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Increment):
			return c.record(1)
		case key.Matches(msg, keys.Decrement):
			return c.record(-1)
		case key.Matches(msg, keys.New):
			return c.showCounterForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(c.summaries) > 0 {
				sel := c.summaries[c.cursor].Counter
				return c.showCounterForm(&sel)
			}
		case key.Matches(msg, keys.Delete):
			return c.deleteSelected()
		}
	}
	return c, nil
}

// record appends an increment to the selected counter. Ask-every-time
// counters prompt for the value first; otherwise the magnitude comes
// from the counter's configuration or its last increment.
func (c countersModel) record(sign int64) (countersModel, tea.Cmd) {
	if len(c.summaries) == 0 {
		return c, nil
	}
	sel := c.summaries[c.cursor]
	if sign < 0 && !sel.HasMinus {
		return c, nil
	}

	if sel.IncrementType == store.IncrementAsk {
		*c.askValue = ""
		c.askSign = sign
		c.askTarget = sel.ID
		c.formType = "ask"
		c.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Value").Value(c.askValue),
			),
		).WithShowHelp(true).WithShowErrors(true)
		c.formActive = true
		return c, c.form.Init()
	}

	value := sel.IncrementValue
	if sel.IncrementValueType == store.ValuePrevious {
		value = sel.LastIncrement
	}
	return c, c.addIncrement(sel.ID, sign*value)
}

func (c countersModel) addIncrement(counterID, value int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := c.store.AddIncrement(counterID, value); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return nil
	}
}

func (c countersModel) deleteSelected() (countersModel, tea.Cmd) {
	if len(c.summaries) == 0 {
		return c, nil
	}
	sel := c.summaries[c.cursor]
	return c, func() tea.Msg {
		if err := c.store.DeleteCounter(sel.ID); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: "Deleted " + sel.DisplayName}
	}
}

// showCounterForm opens the create form, or the edit form when
// existing is non-nil.
func (c countersModel) showCounterForm(existing *store.Counter) (countersModel, tea.Cmd) {
	if existing != nil {
		*c.formName = existing.DisplayName
		*c.formStyle = string(existing.Style)
		*c.formReset = string(existing.ResetType)
		*c.formMinus = existing.HasMinus
		*c.formIncType = string(existing.IncrementType)
		*c.formValueType = string(existing.IncrementValueType)
		*c.formValue = strconv.FormatInt(existing.IncrementValue, 10)
		c.formType = "edit"
		c.editingID = existing.ID
	} else {
		*c.formName = ""
		*c.formStyle = string(store.StyleDefault)
		*c.formReset = string(store.ResetNever)
		*c.formMinus = false
		*c.formIncType = string(store.IncrementFixed)
		*c.formValueType = string(store.ValueFixed)
		*c.formValue = "1"
		c.formType = "new"
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(c.formName),
			huh.NewSelect[string]().Title("Style").
				Options(
					huh.NewOption("Default", string(store.StyleDefault)),
					huh.NewOption("Primary", string(store.StylePrimary)),
					huh.NewOption("Secondary", string(store.StyleSecondary)),
					huh.NewOption("Tertiary", string(store.StyleTertiary)),
				).Value(c.formStyle),
			huh.NewSelect[string]().Title("Resets").
				Options(
					huh.NewOption("Never", string(store.ResetNever)),
					huh.NewOption("Every day", string(store.ResetDay)),
					huh.NewOption("Every week", string(store.ResetWeek)),
					huh.NewOption("Every month", string(store.ResetMonth)),
				).Value(c.formReset),
			huh.NewConfirm().Title("Allow decrement?").Value(c.formMinus),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Increment").
				Options(
					huh.NewOption("Fixed value", string(store.IncrementFixed)),
					huh.NewOption("Ask every time", string(store.IncrementAsk)),
				).Value(c.formIncType),
			huh.NewSelect[string]().Title("Default value").
				Options(
					huh.NewOption("Configured value", string(store.ValueFixed)),
					huh.NewOption("Repeat previous", string(store.ValuePrevious)),
				).Value(c.formValueType),
			huh.NewInput().Title("Value").Value(c.formValue),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c countersModel) updateForm(msg tea.Msg) (countersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		switch c.formType {
		case "ask":
			value, err := strconv.ParseInt(strings.TrimSpace(*c.askValue), 10, 64)
			if err != nil {
				return c, func() tea.Msg {
					return statusMsg{text: "Value must be a whole number", isError: true}
				}
			}
			return c, c.addIncrement(c.askTarget, c.askSign*value)
		case "new", "edit":
			return c, c.submitCounterForm()
		}
	}

	return c, cmd
}

func (c countersModel) submitCounterForm() tea.Cmd {
	value, err := strconv.ParseInt(strings.TrimSpace(*c.formValue), 10, 64)
	if err != nil {
		return func() tea.Msg {
			return statusMsg{text: "Increment value must be a whole number", isError: true}
		}
	}
	def := store.Counter{
		DisplayName:        strings.TrimSpace(*c.formName),
		Style:              store.CounterStyle(*c.formStyle),
		HasMinus:           *c.formMinus,
		IncrementType:      store.IncrementType(*c.formIncType),
		IncrementValueType: store.IncrementValueType(*c.formValueType),
		IncrementValue:     value,
		ResetType:          store.ResetType(*c.formReset),
	}
	editing := c.formType == "edit"
	editingID := c.editingID

	return func() tea.Msg {
		if editing {
			if err := c.store.UpdateCounter(editingID, def); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return statusMsg{text: "Updated " + def.DisplayName}
		}
		if _, err := c.store.CreateCounter(def); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: "Created " + def.DisplayName}
	}
}

func (c countersModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Counter")
		switch c.formType {
		case "edit":
			title = titleStyle.Render("Edit Counter")
		case "ask":
			title = titleStyle.Render("How many?")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Counters")

	if len(c.summaries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No counters yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, sum := range c.summaries {
		rows = append(rows, c.renderCounterRow(i, sum))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  +: increment  -: decrement  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c countersModel) renderCounterRow(i int, sum store.CounterSummary) string {
	cursor := "  "
	nameStyle := normalItemStyle
	if i == c.cursor {
		cursor = "> "
		nameStyle = selectedItemStyle
	}

	dot := lipgloss.NewStyle().Foreground(counterColor(sum.Style)).Render("●")
	count := countStyle.Foreground(counterColor(sum.Style)).Render(formatCount(sum.CurrentCount))

	detail := mutedStyle.Render(fmt.Sprintf("%s · total %s · last %s",
		resetLabel(sum.ResetType),
		formatCount(sum.TotalCount),
		formatCount(sum.LastIncrement),
	))
	minus := ""
	if sum.HasMinus {
		minus = mutedStyle.Render(" ±")
	}

	return fmt.Sprintf("%s%s %s %s%s  %s",
		cursor, dot, nameStyle.Width(24).Render(sum.DisplayName), count, minus, detail)
}
