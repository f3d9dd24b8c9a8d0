package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfile := filepath.Join(t.TempDir(), "salesledger.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o600))
	return cfile
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestPrintConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SALES_WEB_PORT", "")
	cfile := writeConfig(t, "web:\n  port: 8181\n")

	out, err := run(t, "print-config", "--config", cfile)
	require.NoError(t, err)
	assert.Contains(t, out, "port: 8181")
	assert.Contains(t, out, "sqlite:///./sales.db")
}

func TestPrintConfigBadFile(t *testing.T) {
	cfile := writeConfig(t, "web: [unclosed")
	_, err := run(t, "print-config", "-c", cfile)
	assert.Error(t, err)
}

func TestInitdb(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	cfile := writeConfig(t, "system:\n  workdir: "+dir+"\nlogger:\n  mode: production\ndatabase:\n  url: sqlite:///sales.db\n")

	out, err := run(t, "initdb", "--config", cfile)
	require.NoError(t, err)
	assert.Contains(t, out, "database schema recreated")

	_, err = os.Stat(filepath.Join(dir, "sales.db"))
	assert.NoError(t, err)
}

func TestUnknownCommand(t *testing.T) {
	_, err := run(t, "frobnicate")
	assert.Error(t, err)
}
