package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/cmd/skumerge/cmd/conflicts"
	"github.com/agentstation/skumerge/cmd/skumerge/cmd/convert"
	"github.com/agentstation/skumerge/cmd/skumerge/cmd/detect"
	"github.com/agentstation/skumerge/cmd/skumerge/cmd/merge"
	"github.com/agentstation/skumerge/cmd/skumerge/cmd/schema"
	"github.com/agentstation/skumerge/cmd/skumerge/cmd/serve"
	"github.com/agentstation/skumerge/cmd/skumerge/cmd/templates"
	"github.com/agentstation/skumerge/cmd/skumerge/cmd/version"
	"github.com/agentstation/skumerge/internal/server"
)

// NewDetectCommand creates the detect command with app dependencies.
func (a *App) NewDetectCommand() *cobra.Command {
	return detect.NewCommand(a)
}

// NewMergeCommand creates the merge command with app dependencies.
func (a *App) NewMergeCommand() *cobra.Command {
	return merge.NewCommand(a)
}

// NewConflictsCommand creates the conflicts command with app dependencies.
func (a *App) NewConflictsCommand() *cobra.Command {
	return conflicts.NewCommand(a)
}

// NewConvertCommand creates the convert command with app dependencies.
func (a *App) NewConvertCommand() *cobra.Command {
	return convert.NewCommand(a)
}

// NewServeCommand creates the serve command with app dependencies.
func (a *App) NewServeCommand() *cobra.Command {
	return serve.NewCommand(a)
}

// NewTemplatesCommand creates the templates command with app dependencies.
func (a *App) NewTemplatesCommand() *cobra.Command {
	return templates.NewCommand(a)
}

// NewSchemaCommand creates the schema command with app dependencies.
func (a *App) NewSchemaCommand() *cobra.Command {
	return schema.NewCommand(a)
}

// NewVersionCommand creates the version command with app dependencies.
func (a *App) NewVersionCommand() *cobra.Command {
	return version.NewCommand(a)
}

// ServerConfig returns the serve command defaults from the configuration.
func (a *App) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	s := a.config.Server
	if s.Host != "" {
		cfg.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Port = s.Port
	}
	if s.CacheTTL != 0 {
		cfg.CacheTTL = s.CacheTTL
	}
	cfg.CORSEnabled = s.CORS
	return cfg
}
