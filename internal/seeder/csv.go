package seeder

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/evrgames/metapipe/internal/models"
)

// WriteClientCSV writes the client feed in its canonical column layout.
func WriteClientCSV(path string, records []models.ClientRecord) error {
	rows := [][]string{{"timestamp", "error_id", "player_id", "description"}}
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.Timestamp.Unix(), 10),
			r.ErrorID,
			strconv.FormatInt(r.PlayerID, 10),
			r.Description,
		})
	}
	return writeCSV(path, rows)
}

// WriteServerCSV writes the server feed in its canonical column layout.
func WriteServerCSV(path string, records []models.ServerRecord) error {
	rows := [][]string{{"timestamp", "event_id", "error_id", "description"}}
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.Timestamp.Unix(), 10),
			strconv.FormatInt(r.EventID, 10),
			r.ErrorID,
			r.Description,
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
