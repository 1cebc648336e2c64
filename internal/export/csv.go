package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/countr/internal/store"
)

func ToCSV(increments []store.Increment, counters map[int64]*store.Counter, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Counter", "Value", "Timestamp"}); err != nil {
		return err
	}

	for _, inc := range increments {
		counterName := "Unknown"
		if c, ok := counters[inc.CounterID]; ok {
			counterName = c.DisplayName
		}

		row := []string{
			fmt.Sprintf("%d", inc.ID),
			counterName,
			fmt.Sprintf("%d", inc.Value),
			inc.Timestamp.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
