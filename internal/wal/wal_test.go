package wal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var walNow = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

func TestAppendCreatesDailyFile(t *testing.T) {
	dir := t.TempDir()

	err := Append(dir, Entry{
		Timestamp: walNow,
		EventType: EventTaskCreated,
		Content:   map[string]any{"id": "task_ab12cd34"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "WAL-2026-02-12.log"))
	require.NoError(t, err)

	var entry Entry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, EventTaskCreated, entry.EventType)
	assert.Equal(t, "task_ab12cd34", entry.Content["id"])
}

func TestAppendIsJSONL(t *testing.T) {
	dir := t.TempDir()

	for _, event := range []string{EventGoalCreated, EventProgressChange, EventTimeLog} {
		require.NoError(t, Append(dir, Entry{Timestamp: walNow, EventType: event}))
	}

	f, err := os.Open(filepath.Join(dir, "WAL-2026-02-12.log"))
	require.NoError(t, err)
	defer f.Close()

	var events []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		events = append(events, entry.EventType)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{EventGoalCreated, EventProgressChange, EventTimeLog}, events)
}

func TestAppendSplitsByDay(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, Entry{Timestamp: walNow, EventType: EventTimeLog}))
	require.NoError(t, Append(dir, Entry{Timestamp: walNow.AddDate(0, 0, 1), EventType: EventTimeLog}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "WAL-2026-02-12.log", entries[0].Name())
	assert.Equal(t, "WAL-2026-02-13.log", entries[1].Name())
}

func TestLogEventSwallowsErrors(t *testing.T) {
	// Missing directory: the append fails, LogEvent must not panic.
	LogEvent(filepath.Join(t.TempDir(), "does-not-exist"), EventHealthCheck, walNow, nil)
}

func TestTruncateKeepsNewestEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WAL-2026-02-12.log")

	var buf []byte
	for i := 0; i < maxLogEntries+5; i++ {
		line, err := json.Marshal(Entry{Timestamp: walNow, EventType: EventTimeLog,
			Content: map[string]any{"n": i}})
		require.NoError(t, err)
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	require.NoError(t, os.WriteFile(path, buf, 0o600))

	// The next append triggers truncation.
	require.NoError(t, Append(dir, Entry{Timestamp: walNow, EventType: EventStatusChange}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	count := 0
	var first Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if count == 0 {
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &first))
		}
		count++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, maxLogEntries, count)
	assert.Equal(t, EventTimeLog, first.EventType)
	assert.EqualValues(t, 6, first.Content["n"], "oldest entries are dropped")
}
