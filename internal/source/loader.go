// Package source reads the raw daily report feeds. Each feed is a CSV file
// with a header row and epoch-second timestamps; loading restricts the rows
// to a single calendar day while preserving the file order.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evrgames/metapipe/internal/models"
)

var (
	// ErrUnavailable reports a feed that cannot be opened or read.
	ErrUnavailable = errors.New("source unavailable")
	// ErrSchemaMismatch reports a feed whose columns do not match the
	// expected layout, or whose cells cannot be parsed as the expected type.
	ErrSchemaMismatch = errors.New("source schema mismatch")
)

// LoadClient reads the client-reported error feed and returns the rows whose
// timestamp falls on day (local calendar date), in file order.
func LoadClient(path string, day time.Time) ([]models.ClientRecord, error) {
	rows, idx, err := readFeed(path, []string{"timestamp", "error_id", "player_id", "description"})
	if err != nil {
		return nil, err
	}

	var records []models.ClientRecord
	for n, row := range rows {
		ts, err := parseEpoch(path, n, row[idx["timestamp"]])
		if err != nil {
			return nil, err
		}
		if !sameDay(ts, day) {
			continue
		}
		playerID, err := parseInt(path, n, "player_id", row[idx["player_id"]])
		if err != nil {
			return nil, err
		}
		records = append(records, models.ClientRecord{
			Timestamp:   ts,
			ErrorID:     row[idx["error_id"]],
			PlayerID:    playerID,
			Description: row[idx["description"]],
		})
	}
	return records, nil
}

// LoadServer reads the server-reported event feed for day, in file order.
func LoadServer(path string, day time.Time) ([]models.ServerRecord, error) {
	rows, idx, err := readFeed(path, []string{"timestamp", "event_id", "error_id", "description"})
	if err != nil {
		return nil, err
	}

	var records []models.ServerRecord
	for n, row := range rows {
		ts, err := parseEpoch(path, n, row[idx["timestamp"]])
		if err != nil {
			return nil, err
		}
		if !sameDay(ts, day) {
			continue
		}
		eventID, err := parseInt(path, n, "event_id", row[idx["event_id"]])
		if err != nil {
			return nil, err
		}
		records = append(records, models.ServerRecord{
			Timestamp:   ts,
			EventID:     eventID,
			ErrorID:     row[idx["error_id"]],
			Description: row[idx["description"]],
		})
	}
	return records, nil
}

// readFeed opens the CSV file, validates the header against the wanted
// column names and returns the data rows plus a name-to-index mapping.
// Columns are resolved by name, never by position.
func readFeed(path string, want []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no header row", ErrSchemaMismatch, path)
	}

	idx := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s missing columns %s",
			ErrSchemaMismatch, path, strings.Join(missing, ", "))
	}

	return all[1:], idx, nil
}

func parseEpoch(path string, row int, cell string) (time.Time, error) {
	sec, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s row %d: timestamp %q is not epoch seconds",
			ErrSchemaMismatch, path, row+1, cell)
	}
	return time.Unix(sec, 0), nil
}

func parseInt(path string, row int, column, cell string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s row %d: %s %q is not an integer",
			ErrSchemaMismatch, path, row+1, column, cell)
	}
	return v, nil
}

// sameDay reports whether t falls on the same local calendar date as day.
func sameDay(t, day time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
