package source

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.csv")
	var data string
	for _, l := range lines {
		data += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func epoch(t *testing.T, day time.Time, hour, min int) int64 {
	t.Helper()
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.Local).Unix()
}

func TestLoadClientDayFilter(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)
	before := day.AddDate(0, 0, -1)
	after := day.AddDate(0, 0, 1)

	path := writeCSV(t,
		"timestamp,error_id,player_id,description",
		fmt.Sprintf("%d,E1,1,previous day", epoch(t, before, 23, 59)),
		fmt.Sprintf("%d,E2,2,first of day", epoch(t, day, 0, 0)),
		fmt.Sprintf("%d,E3,3,midday", epoch(t, day, 12, 30)),
		fmt.Sprintf("%d,E4,4,last of day", epoch(t, day, 23, 59)),
		fmt.Sprintf("%d,E5,5,next day", epoch(t, after, 0, 0)),
	)

	records, err := LoadClient(path, day)
	require.NoError(t, err)

	require.Len(t, records, 3)
	// surviving rows keep file order
	assert.Equal(t, "E2", records[0].ErrorID)
	assert.Equal(t, "E3", records[1].ErrorID)
	assert.Equal(t, "E4", records[2].ErrorID)
	assert.Equal(t, int64(3), records[1].PlayerID)
	assert.Equal(t, "midday", records[1].Description)
	assert.Equal(t, epoch(t, day, 12, 30), records[1].Timestamp.Unix())
}

func TestLoadServerDayFilter(t *testing.T) {
	day := time.Date(2021, 6, 15, 0, 0, 0, 0, time.Local)

	path := writeCSV(t,
		"timestamp,event_id,error_id,description",
		fmt.Sprintf("%d,7,E1,kept", epoch(t, day, 8, 0)),
		fmt.Sprintf("%d,8,E2,dropped", epoch(t, day.AddDate(0, 0, 2), 8, 0)),
	)

	records, err := LoadServer(path, day)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, int64(7), records[0].EventID)
	assert.Equal(t, "E1", records[0].ErrorID)
	assert.Equal(t, "kept", records[0].Description)
}

func TestLoadColumnsResolvedByName(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)

	// Same columns, different order than the canonical layout.
	path := writeCSV(t,
		"description,player_id,timestamp,error_id",
		fmt.Sprintf("reordered,42,%d,E9", epoch(t, day, 10, 0)),
	)

	records, err := LoadClient(path, day)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "E9", records[0].ErrorID)
	assert.Equal(t, int64(42), records[0].PlayerID)
	assert.Equal(t, "reordered", records[0].Description)
}

func TestLoadMissingFile(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)

	_, err := LoadClient(filepath.Join(t.TempDir(), "absent.csv"), day)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoadMissingColumns(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)

	path := writeCSV(t,
		"timestamp,code,player_id,description",
		fmt.Sprintf("%d,E1,1,x", epoch(t, day, 0, 0)),
	)

	_, err := LoadClient(path, day)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "error_id")
}

func TestLoadMalformedTimestamp(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)

	path := writeCSV(t,
		"timestamp,error_id,player_id,description",
		"2021-01-01T00:00:00Z,E1,1,iso timestamps are not accepted",
	)

	_, err := LoadClient(path, day)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestLoadEmptyFile(t *testing.T) {
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := LoadServer(path, day)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
