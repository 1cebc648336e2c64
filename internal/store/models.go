package store

import "time"

// CounterStyle selects the card appearance. Presentation only, it never
// affects aggregation.
type CounterStyle string

const (
	StyleDefault   CounterStyle = "DEFAULT"
	StylePrimary   CounterStyle = "PRIMARY"
	StyleSecondary CounterStyle = "SECONDARY"
	StyleTertiary  CounterStyle = "TERTIARY"
)

// IncrementType controls whether recording progress prompts for a value
// or applies the counter's default magnitude directly.
type IncrementType string

const (
	IncrementAsk   IncrementType = "ASK_EVERY_TIME"
	IncrementFixed IncrementType = "VALUE"
)

// IncrementValueType describes where the default magnitude comes from.
type IncrementValueType string

const (
	// ValueFixed uses the counter's configured increment value.
	ValueFixed IncrementValueType = "VALUE"
	// ValuePrevious repeats the last recorded increment.
	ValuePrevious IncrementValueType = "PREVIOUS"
)

// ResetType is the recurring window at which the current count resets.
type ResetType string

const (
	ResetNever ResetType = "NEVER"
	ResetDay   ResetType = "DAY"
	ResetWeek  ResetType = "WEEK"
	ResetMonth ResetType = "MONTH"
)

// Counter is a counter definition. The id is immutable once created;
// everything else can be edited.
type Counter struct {
	ID                 int64
	DisplayName        string
	Style              CounterStyle
	HasMinus           bool
	IncrementType      IncrementType
	IncrementValueType IncrementValueType
	IncrementValue     int64
	ResetType          ResetType
	CreatedAt          time.Time
}

// Increment is one append-only ledger event. Increments are never
// updated in place, only appended and deleted.
type Increment struct {
	ID        int64
	CounterID int64
	Value     int64
	Timestamp time.Time
}

// CounterSummary is a counter with its derived aggregates. It is always
// recomputed from the ledger, never persisted.
type CounterSummary struct {
	Counter

	// TotalCount is the sum of every increment, ignoring resets.
	TotalCount int64
	// LastIncrement is the value of the most recent increment, or the
	// counter's configured increment value when the ledger is empty.
	LastIncrement int64
	// CurrentCount is the sum of increments inside the current reset
	// window.
	CurrentCount int64
}

// IncrementGroup is the sum of one counter's increments over one reset
// window, used for grouped history views.
type IncrementGroup struct {
	WindowStart time.Time
	Total       int64
	Count       int
}

type Setting struct {
	Key   string
	Value string
}
