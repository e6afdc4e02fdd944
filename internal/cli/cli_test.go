package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParse_OptionalConfigPath(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	cfg, exit, err := ParseWithEnv([]string{"run.hcl"}, out, env(nil))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "run.hcl", cfg.ConfigPath)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg, exit, err = ParseWithEnv(nil, out, env(nil))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Empty(t, cfg.ConfigPath)
}

func TestParse_LoggingFromEnvironment(t *testing.T) {
	t.Parallel()

	cfg, _, err := ParseWithEnv(nil, &bytes.Buffer{}, env(map[string]string{
		EnvLogLevel:  "debug",
		EnvLogFormat: "json",
	}))

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	_, _, err = ParseWithEnv(nil, &bytes.Buffer{}, env(map[string]string{EnvLogLevel: "loud"}))
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"too many arguments", []string{"a.hcl", "b.hcl"}, "accepts at most 1 arg(s)"},
		{"unknown flag", []string{"--workers", "4"}, "unknown flag: --workers"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := ParseWithEnv(tc.args, &bytes.Buffer{}, env(nil))

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	cfg, exit, err := ParseWithEnv([]string{"--help"}, out, env(nil))

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), EnvLogLevel)
}
