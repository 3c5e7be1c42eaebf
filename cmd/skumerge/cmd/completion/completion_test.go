package completion

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot() (*cobra.Command, *bytes.Buffer) {
	root := &cobra.Command{Use: "skumerge"}
	root.AddCommand(NewCommand())
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	return root, &buf
}

func TestGenerate(t *testing.T) {
	root, buf := newRoot()
	root.SetArgs([]string{"completion", "zsh"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "#compdef skumerge")
}

func TestInstallAndUninstall(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)

	root, buf := newRoot()
	root.SetArgs([]string{"completion", "install", "fish"})
	require.NoError(t, root.Execute())

	path := filepath.Join(prefix, "share", "fish", "vendor_completions.d", "skumerge.fish")
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), path)

	root, buf = newRoot()
	root.SetArgs([]string{"completion", "uninstall", "fish"})
	require.NoError(t, root.Execute())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, buf.String(), "removed fish completions")
}

func TestInstallRejectsUnknownShell(t *testing.T) {
	root, _ := newRoot()
	root.SetArgs([]string{"completion", "install", "tcsh"})
	assert.Error(t, root.Execute())
}
