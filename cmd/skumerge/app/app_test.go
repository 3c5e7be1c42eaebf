package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
)

func newTestApp(t *testing.T, body string) *App {
	t.Helper()
	t.Chdir(t.TempDir())
	config, err := LoadConfig(writeConfig(t, body))
	require.NoError(t, err)

	app, err := New("1.2.3", "abc123", "2026-01-01", "test", WithConfig(config))
	require.NoError(t, err)
	return app
}

func TestNew(t *testing.T) {
	app := newTestApp(t, "log_level: error\n")

	assert.Equal(t, "1.2.3", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2026-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	require.NotNil(t, app.Logger())
	assert.NoError(t, app.Shutdown(context.Background()))
}

func TestWithConfigNil(t *testing.T) {
	_, err := New("dev", "", "", "", WithConfig(nil))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestRegistrySingleton(t *testing.T) {
	app := newTestApp(t, "log_level: error\n")

	first, err := app.Registry()
	require.NoError(t, err)
	second, err := app.Registry()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistryOverrides(t *testing.T) {
	dir := t.TempDir()
	overrides := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(overrides, []byte(`
fields:
  list_price:
    columns:
      cin7: PriceTier2
    priority: [cin7, shopify, zoho]
`), 0o600))

	app := newTestApp(t, "log_level: error\nschema_file: "+overrides+"\n")

	registry, err := app.Registry()
	require.NoError(t, err)
	col, ok := registry.Column(schema.FieldListPrice, schema.SourceCin7)
	require.True(t, ok)
	assert.Equal(t, "PriceTier2", col)
	assert.Equal(t, schema.SourceCin7, registry.Priority(schema.FieldListPrice)[0])
}

func TestRegistryOverridesInvalid(t *testing.T) {
	dir := t.TempDir()
	overrides := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(overrides, []byte("fields:\n  colour:\n    priority: [cin7]\n"), 0o600))

	app := newTestApp(t, "log_level: error\nschema_file: "+overrides+"\n")

	_, err := app.Registry()
	require.Error(t, err)
}

func TestNewSessionUsesConfig(t *testing.T) {
	app := newTestApp(t, "log_level: error\nmin_files: 3\ntemplate: minimal\n")

	sess, err := app.NewSession()
	require.NoError(t, err)

	state := sess.Snapshot()
	assert.Equal(t, 3, state.MinFiles)
	assert.Equal(t, schema.TemplateMinimal, state.Options.Template)
}

func TestExecuteConvert(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "converted")
	shopify := filepath.Join(in, "shopify.csv")
	cin7 := filepath.Join(in, "cin7.csv")
	require.NoError(t, os.WriteFile(shopify, []byte("Handle,Title,Variant SKU,Variant Price\nwidget,Widget,X1,19.99\n"), 0o600))
	require.NoError(t, os.WriteFile(cin7, []byte("ProductCode,Name,PriceTier1\nX1,Widget,18.00\n"), 0o600))

	app := newTestApp(t, "log_level: error\noutput_dir: "+out+"\n")

	err := app.Execute(context.Background(), []string{"convert", "--auto-resolve", "--template", "minimal", "-q", shopify, cin7})
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(out, "*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "X1")
}

func TestExecuteConvertUnresolved(t *testing.T) {
	in := t.TempDir()
	shopify := filepath.Join(in, "shopify.csv")
	cin7 := filepath.Join(in, "cin7.csv")
	require.NoError(t, os.WriteFile(shopify, []byte("Handle,Title,Variant SKU,Variant Price\nwidget,Widget,X1,19.99\n"), 0o600))
	require.NoError(t, os.WriteFile(cin7, []byte("ProductCode,Name,PriceTier1\nX1,Widget,18.00\n"), 0o600))

	app := newTestApp(t, "log_level: error\noutput_dir: "+t.TempDir()+"\nformat: json\n")

	err := app.Execute(context.Background(), []string{"convert", shopify, cin7})
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
	assert.Contains(t, err.Error(), "Please resolve all 1 remaining conflicts")
}
