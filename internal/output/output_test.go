package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFlagPrecedence(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect(true, true, true))
	assert.Equal(t, FormatCompact, Detect(false, false, true))
	assert.Equal(t, FormatTable, Detect(false, true, false))
	assert.Equal(t, FormatTable, Detect(false, false, false))
}

func TestDetectEnv(t *testing.T) {
	t.Setenv("TASKPULSE_OUTPUT", "json")
	assert.Equal(t, FormatJSON, Detect(false, false, false))

	t.Setenv("TASKPULSE_OUTPUT", "oneline")
	assert.Equal(t, FormatCompact, Detect(false, false, false))

	t.Setenv("TASKPULSE_OUTPUT", "nonsense")
	assert.Equal(t, FormatTable, Detect(false, false, false))
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, "TASK_NOT_FOUND", "task not found: task_x", map[string]any{"id": "task_x"})

	out := buf.String()
	assert.Contains(t, out, `"code": "TASK_NOT_FOUND"`)
	assert.Contains(t, out, `"error": "task not found: task_x"`)
	assert.Contains(t, out, `"id": "task_x"`)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "1h 0m", FormatMinutes(60))
	assert.Equal(t, "2h 15m", FormatMinutes(135))
}

func TestPadRightCountsVisibleWidth(t *testing.T) {
	styled := headerStyle.Render("abc")
	padded := padRight(styled, 6)
	require.True(t, len(padded) >= 6)
	assert.Equal(t, styled+"   ", padded)
}
