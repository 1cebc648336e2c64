package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/countr/internal/window"
)

// summaryQuery derives the three aggregates in one pass: a grouped sum
// for the lifetime total, the newest ledger row for the last increment
// (insertion order breaks timestamp ties) and a window-bounded sum for
// the current count. Window boundaries arrive as the three parameters,
// precomputed per reset type; NEVER counters take the unbounded branch.
const summaryQuery = `
	SELECT c.id, c.display_name, c.style, c.has_minus, c.increment_type,
	       c.increment_value_type, c.increment_value, c.reset_type, c.created_at,
	       COALESCE(tot.total, 0),
	       COALESCE(li.value, c.increment_value),
	       COALESCE(cur.current, 0)
	FROM counters c
	LEFT JOIN (SELECT counter_id, SUM(value) AS total
	             FROM increments GROUP BY counter_id) AS tot
	       ON tot.counter_id = c.id
	LEFT JOIN increments li
	       ON li.id = (SELECT id FROM increments
	                    WHERE counter_id = c.id
	                    ORDER BY timestamp DESC, id DESC LIMIT 1)
	LEFT JOIN (SELECT i.counter_id, SUM(i.value) AS current
	             FROM increments i
	             JOIN counters cc ON cc.id = i.counter_id
	            WHERE (cc.reset_type = 'NEVER')
	               OR (cc.reset_type = 'DAY'   AND i.timestamp >= ?)
	               OR (cc.reset_type = 'WEEK'  AND i.timestamp >= ?)
	               OR (cc.reset_type = 'MONTH' AND i.timestamp >= ?)
	            GROUP BY i.counter_id) AS cur
	       ON cur.counter_id = c.id`

// GetSummary computes the aggregates for one counter. Windows are
// evaluated in now's location. Returns nil without error when the
// counter does not exist.
func (s *Store) GetSummary(counterID int64, now time.Time) (*CounterSummary, error) {
	day, week, month := s.windowStarts(now)
	row := s.db.QueryRow(summaryQuery+` WHERE c.id = ?`, day, week, month, counterID)

	sum, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("summarize counter %d: %w", counterID, err)
	}
	return sum, nil
}

// ListSummaries computes the aggregates for every counter in one
// batched query, in insertion order.
func (s *Store) ListSummaries(now time.Time) ([]CounterSummary, error) {
	day, week, month := s.windowStarts(now)
	rows, err := s.db.Query(summaryQuery+` ORDER BY c.id`, day, week, month)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var sums []CounterSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		sums = append(sums, *sum)
	}
	return sums, rows.Err()
}

// ListIncrementGroups buckets a counter's ledger by reset window,
// newest bucket first. NEVER counters group by day so history views
// still have buckets to show. Buckets follow loc, matching how the
// aggregates treat local time.
func (s *Store) ListIncrementGroups(counterID int64, reset ResetType, loc *time.Location) ([]IncrementGroup, error) {
	if reset == ResetNever {
		reset = ResetDay
	}
	weekStart := s.weekStartDay()

	incs, err := s.ListIncrements(counterID)
	if err != nil {
		return nil, err
	}

	var groups []IncrementGroup
	for _, inc := range incs {
		start, _ := window.Start(window.Reset(reset), inc.Timestamp.In(loc), weekStart)
		if n := len(groups); n > 0 && groups[n-1].WindowStart.Equal(start) {
			groups[n-1].Total += inc.Value
			groups[n-1].Count++
			continue
		}
		groups = append(groups, IncrementGroup{WindowStart: start, Total: inc.Value, Count: 1})
	}
	return groups, nil
}

// windowStarts formats the DAY/WEEK/MONTH boundaries for now as the
// RFC3339 UTC strings the ledger's timestamp column compares against.
func (s *Store) windowStarts(now time.Time) (day, week, month string) {
	weekStart := s.weekStartDay()
	d, _ := window.Start(window.Day, now, weekStart)
	w, _ := window.Start(window.Week, now, weekStart)
	m, _ := window.Start(window.Month, now, weekStart)
	return d.UTC().Format(time.RFC3339),
		w.UTC().Format(time.RFC3339),
		m.UTC().Format(time.RFC3339)
}

func (s *Store) weekStartDay() time.Weekday {
	if v, err := s.GetSetting("week_start"); err == nil && v == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

func scanSummary(row rowScanner) (*CounterSummary, error) {
	sum := &CounterSummary{}
	var style, itype, ivtype, rtype, createdAt string
	var hasMinus int
	err := row.Scan(
		&sum.ID, &sum.DisplayName, &style, &hasMinus,
		&itype, &ivtype, &sum.IncrementValue, &rtype, &createdAt,
		&sum.TotalCount, &sum.LastIncrement, &sum.CurrentCount,
	)
	if err != nil {
		return nil, err
	}
	sum.Style = CounterStyle(style)
	sum.HasMinus = hasMinus == 1
	sum.IncrementType = IncrementType(itype)
	sum.IncrementValueType = IncrementValueType(ivtype)
	sum.ResetType = ResetType(rtype)
	sum.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sum, nil
}
