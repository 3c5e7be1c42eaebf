package serve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/server"
)

type testApp struct {
	appcontext.Mock
	cfg server.Config
}

func (a *testApp) ServerConfig() server.Config { return a.cfg }

func TestParseConfigUsesDefaultsAndFlags(t *testing.T) {
	app := &testApp{cfg: server.DefaultConfig()}
	cmd := NewCommand(app)

	cfg, err := parseConfig(cmd, app.cfg)
	require.NoError(t, err)
	assert.Equal(t, app.cfg.Port, cfg.Port)
	assert.Equal(t, app.cfg.CacheTTL, cfg.CacheTTL)

	require.NoError(t, cmd.Flags().Set("port", "3000"))
	require.NoError(t, cmd.Flags().Set("cors", "true"))
	require.NoError(t, cmd.Flags().Set("cache-ttl", "30m"))
	cfg, err = parseConfig(cmd, app.cfg)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.True(t, cfg.CORSEnabled)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "/api/v1", cfg.PathPrefix)
}

func TestParseConfigRejectsBadPort(t *testing.T) {
	app := &testApp{cfg: server.DefaultConfig()}
	cmd := NewCommand(app)
	require.NoError(t, cmd.Flags().Set("port", "70000"))

	_, err := parseConfig(cmd, app.cfg)
	assert.Error(t, err)
}
