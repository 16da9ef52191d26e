package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestCSVWriter_HeaderWrittenOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emg-1.csv")
	w := NewCSVWriter(path, SchemaColumns[StreamEMG], false)
	require.NoError(t, w.Err())

	assert.Equal(t, []string{"timestamp,emg1,emg2,emg3,emg4,emg5,emg6,emg7,emg8"}, readLines(t, path))

	w.WriteRow([]string{"10", "1", "2", "3", "4", "5", "6", "7", "8"})
	w.WriteRow([]string{"11", "0", "0", "0", "0", "0", "0", "0", "-1"})
	require.NoError(t, w.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, "11,0,0,0,0,0,0,0,-1", lines[2])
	assert.EqualValues(t, 2, w.Rows())
}

func TestCSVWriter_LazyHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gyro-1.csv")
	w := NewCSVWriter(path, SchemaColumns[StreamGyroscope], true)

	assert.Empty(t, readLines(t, path), "lazy header must wait for the first row")

	w.WriteRow([]string{"1000", "1.5", "-2.25", "0", "123456"})
	w.WriteRow([]string{"1001", "1", "1", "1", "123457"})
	require.NoError(t, w.Close())

	assert.Equal(t, []string{
		"myot,myox,myoy,myoz,myost",
		"1000,1.5,-2.25,0,123456",
		"1001,1,1,1,123457",
	}, readLines(t, path))
}

func TestCSVWriter_LazyHeaderNoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accelerometer-1.csv")
	w := NewCSVWriter(path, SchemaColumns[StreamAccelerometer], true)
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCSVWriter_RowsVisibleBeforeClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orientation-1.csv")
	w := NewCSVWriter(path, SchemaColumns[StreamOrientation], false)
	defer w.Close()

	w.WriteRow([]string{"5", "0", "0", "0", "1"})
	assert.Equal(t, []string{"timestamp,x,y,z,w", "5,0,0,0,1"}, readLines(t, path))
}

func TestCSVWriter_DegradedOnOpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "emg-1.csv")
	w := NewCSVWriter(path, SchemaColumns[StreamEMG], false)
	require.NotNil(t, w)
	require.Error(t, w.Err())

	w.WriteRow([]string{"1", "0", "0", "0", "0", "0", "0", "0", "0"})
	w.WriteRow([]string{"2", "0", "0", "0", "0", "0", "0", "0", "0"})

	assert.EqualValues(t, 0, w.Rows())
	assert.EqualValues(t, 2, w.Dropped())
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.NoFileExists(t, path)
}

func TestCSVWriter_CloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emg-1.csv")
	w := NewCSVWriter(path, SchemaColumns[StreamEMG], false)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.Equal(t, path, w.Path())
}

func TestStream_Names(t *testing.T) {
	cases := map[Stream]string{
		StreamEMG:              "emg",
		StreamGyroscope:        "gyro",
		StreamAccelerometer:    "accelerometer",
		StreamOrientation:      "orientation",
		StreamOrientationEuler: "orientationEuler",
		StreamFused:            "allData",
		Stream(42):             "unknown",
	}
	for s, want := range cases {
		assert.Equal(t, want, s.String())
	}

	assert.True(t, StreamGyroscope.LazyHeader())
	assert.True(t, StreamAccelerometer.LazyHeader())
	assert.False(t, StreamEMG.LazyHeader())
	assert.False(t, StreamOrientationEuler.LazyHeader())
	assert.Len(t, SchemaColumns[StreamFused], 25)
}
