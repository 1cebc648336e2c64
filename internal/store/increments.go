package store

import (
	"fmt"
	"time"
)

// AddIncrement appends one ledger event stamped with the current time.
func (s *Store) AddIncrement(counterID, value int64) (*Increment, error) {
	return s.AddIncrementAt(counterID, value, time.Now())
}

// AddIncrementAt appends a ledger event with an explicit timestamp,
// used for backdated entries. Returns ErrForeignKey when counterID does
// not reference an existing counter.
func (s *Store) AddIncrementAt(counterID, value int64, ts time.Time) (*Increment, error) {
	stamp := ts.UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO increments (counter_id, value, timestamp) VALUES (?, ?, ?)`,
		counterID, value, stamp,
	)
	if err != nil {
		return nil, fmt.Errorf("append increment: %w", constraintErr(err))
	}
	id, _ := res.LastInsertId()
	s.signal()

	inc := &Increment{ID: id, CounterID: counterID, Value: value}
	inc.Timestamp, _ = time.Parse(time.RFC3339, stamp)
	return inc, nil
}

// DeleteIncrement removes one ledger event. Returns ErrNotFound when
// the id is already gone; the ledger is untouched either way.
func (s *Store) DeleteIncrement(id int64) error {
	res, err := s.db.Exec(`DELETE FROM increments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete increment %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete increment %d: %w", id, ErrNotFound)
	}
	s.signal()
	return nil
}

// ListIncrements returns the counter's ledger newest first, ties broken
// by insertion order.
func (s *Store) ListIncrements(counterID int64) ([]Increment, error) {
	rows, err := s.db.Query(
		`SELECT id, counter_id, value, timestamp FROM increments
		 WHERE counter_id = ? ORDER BY timestamp DESC, id DESC`, counterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list increments: %w", err)
	}
	defer rows.Close()

	var incs []Increment
	for rows.Next() {
		var inc Increment
		var ts string
		if err := rows.Scan(&inc.ID, &inc.CounterID, &inc.Value, &ts); err != nil {
			return nil, err
		}
		inc.Timestamp, _ = time.Parse(time.RFC3339, ts)
		incs = append(incs, inc)
	}
	return incs, rows.Err()
}
