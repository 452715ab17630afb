package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daysFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("show-velocity", pflag.ContinueOnError)
	flags.Int("days", 0, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestVelocityWindowDays(t *testing.T) {
	assert.Equal(t, 30, velocityWindowDays(daysFlagSet(t), 30),
		"no flag falls back to the configured lookback")
	assert.Equal(t, 7, velocityWindowDays(daysFlagSet(t, "--days", "7"), 30))
	assert.Equal(t, 0, velocityWindowDays(daysFlagSet(t, "--days", "0"), 30),
		"an explicit --days 0 asks for all history and beats the config")
}
