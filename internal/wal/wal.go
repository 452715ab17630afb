// Package wal appends mutation events to daily JSONL write-ahead logs.
// Entries are written before the document is persisted so a crash between
// the two still leaves a record of the intended change.
package wal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	fileMode      = 0o600
	maxLogEntries = 10000 // truncate oldest entries when a log exceeds this size
)

// Event types recorded in the WAL.
const (
	EventGoalCreated        = "GOAL_CREATED"
	EventTaskCreated        = "TASK_CREATED"
	EventProgressChange     = "PROGRESS_CHANGE"
	EventTimeLog            = "TIME_LOG"
	EventStatusChange       = "STATUS_CHANGE"
	EventRecurrenceAdvanced = "RECURRENCE_ADVANCED"
	EventHealthCheck        = "HEALTH_CHECK"
)

// Entry is a single WAL record.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	EventType string         `json:"event_type"`
	Content   map[string]any `json:"content"`
}

// Append writes an entry to the day's log file inside walDir.
// If the log exceeds maxLogEntries, the oldest entries are truncated.
func Append(walDir string, entry Entry) error {
	path := filepath.Join(walDir, fileName(entry.Timestamp))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // log path from trusted dir
	if err != nil {
		return fmt.Errorf("opening WAL file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling WAL entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing WAL entry: %w", err)
	}

	// Truncate if needed (best-effort; errors are non-fatal).
	_ = truncateIfNeeded(path)

	return nil
}

// LogEvent appends a WAL entry. Errors are silently discarded because
// audit logging should never fail a command.
func LogEvent(walDir, eventType string, now time.Time, content map[string]any) {
	_ = Append(walDir, Entry{
		Timestamp: now,
		EventType: eventType,
		Content:   content,
	})
}

// fileName returns the daily log name, WAL-YYYY-MM-DD.log.
func fileName(t time.Time) string {
	return "WAL-" + t.UTC().Format("2006-01-02") + ".log"
}

// truncateIfNeeded reads the log file and, if it exceeds maxLogEntries,
// rewrites it keeping only the most recent entries.
func truncateIfNeeded(path string) error {
	f, err := os.Open(path) //nolint:gosec // trusted path
	if err != nil {
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	_ = f.Close()

	if err := scanner.Err(); err != nil {
		return err
	}

	if len(lines) <= maxLogEntries {
		return nil
	}

	// Keep only the last maxLogEntries lines.
	lines = lines[len(lines)-maxLogEntries:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(buf.String()), fileMode)
}
