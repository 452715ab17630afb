package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse/internal/config"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestNextTaskJSONPrintsNullWhenNothingActionable(t *testing.T) {
	dir := t.TempDir()
	_, err := config.Init(dir)
	require.NoError(t, err)

	prevDir, prevJSON := flagDir, flagJSON
	flagDir, flagJSON = dir, true
	defer func() { flagDir, flagJSON = prevDir, prevJSON }()

	out := captureStdout(t, func() {
		assert.NoError(t, runNextTask(nextTaskCmd, nil),
			"an empty document is a null answer, not an error")
	})
	assert.Equal(t, "null", strings.TrimSpace(out))
}
