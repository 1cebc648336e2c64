package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateCounter validates def and persists it. The returned counter
// carries the assigned id; def.ID and def.CreatedAt are ignored.
func (s *Store) CreateCounter(def Counter) (*Counter, error) {
	def = normalizeCounter(def)
	if err := validateCounter(def); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO counters (display_name, style, has_minus, increment_type, increment_value_type, increment_value, reset_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		def.DisplayName, string(def.Style), boolToInt(def.HasMinus),
		string(def.IncrementType), string(def.IncrementValueType),
		def.IncrementValue, string(def.ResetType), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert counter: %w", err)
	}
	id, _ := res.LastInsertId()

	c, err := s.GetCounter(id)
	if err != nil {
		return nil, err
	}
	s.signal()
	return c, nil
}

// GetCounter returns nil without error when the counter does not exist.
func (s *Store) GetCounter(id int64) (*Counter, error) {
	row := s.db.QueryRow(
		`SELECT id, display_name, style, has_minus, increment_type, increment_value_type, increment_value, reset_type, created_at
		 FROM counters WHERE id = ?`, id,
	)
	c, err := scanCounter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get counter %d: %w", id, err)
	}
	return c, nil
}

// ListCounters returns all counters in insertion order.
func (s *Store) ListCounters() ([]Counter, error) {
	rows, err := s.db.Query(
		`SELECT id, display_name, style, has_minus, increment_type, increment_value_type, increment_value, reset_type, created_at
		 FROM counters ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list counters: %w", err)
	}
	defer rows.Close()

	var counters []Counter
	for rows.Next() {
		c, err := scanCounter(rows)
		if err != nil {
			return nil, err
		}
		counters = append(counters, *c)
	}
	return counters, rows.Err()
}

// UpdateCounter replaces every mutable field of the counter. The id and
// creation time are immutable.
func (s *Store) UpdateCounter(id int64, def Counter) error {
	def = normalizeCounter(def)
	if err := validateCounter(def); err != nil {
		return err
	}

	res, err := s.db.Exec(
		`UPDATE counters SET display_name = ?, style = ?, has_minus = ?, increment_type = ?, increment_value_type = ?, increment_value = ?, reset_type = ?
		 WHERE id = ?`,
		def.DisplayName, string(def.Style), boolToInt(def.HasMinus),
		string(def.IncrementType), string(def.IncrementValueType),
		def.IncrementValue, string(def.ResetType), id,
	)
	if err != nil {
		return fmt.Errorf("update counter %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update counter %d: %w", id, ErrNotFound)
	}
	s.signal()
	return nil
}

// DeleteCounter removes the counter and every increment it owns in one
// transaction. Deleting an absent counter is a no-op.
func (s *Store) DeleteCounter(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete counter %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM increments WHERE counter_id = ?`, id); err != nil {
		return fmt.Errorf("delete increments of counter %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM counters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete counter %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete counter %d: %w", id, err)
	}
	s.signal()
	return nil
}

func validateCounter(def Counter) error {
	if def.DisplayName == "" {
		return &ValidationError{Field: "display name", Reason: "must not be empty"}
	}
	if def.IncrementValueType == ValueFixed && def.IncrementValue <= 0 {
		return &ValidationError{Field: "increment value", Reason: "must be a positive integer"}
	}
	return nil
}

// normalizeCounter fills zero-value enum fields with their column
// defaults so callers can pass sparse definitions.
func normalizeCounter(def Counter) Counter {
	if def.Style == "" {
		def.Style = StyleDefault
	}
	if def.IncrementType == "" {
		def.IncrementType = IncrementFixed
	}
	if def.IncrementValueType == "" {
		def.IncrementValueType = ValueFixed
	}
	if def.IncrementValue == 0 {
		def.IncrementValue = 1
	}
	if def.ResetType == "" {
		def.ResetType = ResetNever
	}
	return def
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCounter(row rowScanner) (*Counter, error) {
	c := &Counter{}
	var style, itype, ivtype, rtype, createdAt string
	var hasMinus int
	err := row.Scan(
		&c.ID, &c.DisplayName, &style, &hasMinus,
		&itype, &ivtype, &c.IncrementValue, &rtype, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	c.Style = CounterStyle(style)
	c.HasMinus = hasMinus == 1
	c.IncrementType = IncrementType(itype)
	c.IncrementValueType = IncrementValueType(ivtype)
	c.ResetType = ResetType(rtype)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
