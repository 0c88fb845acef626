package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/lifecycle"
)

func TestCatalogCommand(t *testing.T) {
	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"catalog"})
	require.NoError(t, root.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(lifecycle.Checkpoints())+1)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "ConfiguratorsProcessed")
	assert.Contains(t, lines[11], "(repeatable)")
	assert.Contains(t, lines[16], "HkExtensionsInstalled")
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kickstart.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "cli-test"
log_level = "error"
bundle_lookup = false
`), 0o600))

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--config", path})
	require.NoError(t, root.Execute())

	report := out.String()
	assert.Contains(t, report, "ConfiguratorsProcessed")
	assert.Contains(t, report, "BundlesFromDwResolved")
	assert.Contains(t, report, "HkExtensionsInstalled")
	assert.Contains(t, report, "routes: [GET /healthz GET /hello]")
}

func TestRunCommandEnvWithoutConfig(t *testing.T) {
	t.Setenv(kickstart.EnvLogLevel, "debug")

	var out, errOut bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"run"})
	require.NoError(t, root.Execute())

	assert.Contains(t, errOut.String(), "level=DEBUG")
	assert.Contains(t, errOut.String(), "listener called")
	assert.Contains(t, out.String(), "routes: [GET /healthz GET /hello]")
}

func TestRunCommandBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kickstart.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = ""`), 0o600))

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--config", path})
	assert.Error(t, root.Execute())
}
