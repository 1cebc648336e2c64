package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/countr/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID        int64  `json:"id"`
	Counter   string `json:"counter"`
	CounterID int64  `json:"counter_id"`
	Value     int64  `json:"value"`
	Timestamp string `json:"timestamp"`
}

func ToJSON(increments []store.Increment, counters map[int64]*store.Counter, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(increments),
	}

	for _, inc := range increments {
		counterName := "Unknown"
		if c, ok := counters[inc.CounterID]; ok {
			counterName = c.DisplayName
		}

		export.Entries = append(export.Entries, jsonEntry{
			ID:        inc.ID,
			Counter:   counterName,
			CounterID: inc.CounterID,
			Value:     inc.Value,
			Timestamp: inc.Timestamp.Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
