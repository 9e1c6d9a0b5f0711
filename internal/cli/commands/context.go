// Package commands implements the docsteer subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsteer/docsteer/internal/cli/config"
	"github.com/docsteer/docsteer/internal/cli/output"
	"github.com/docsteer/docsteer/internal/corpus"
)

// ConfigKey is used to store config in command context.
type ConfigKey struct{}

// RendererKey is used to store the renderer in command context.
type RendererKey struct{}

// CommandContext bundles the pieces every command needs.
type CommandContext struct {
	Config   *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
	Store    *corpus.Store
}

// NewCommandContext resolves config and renderer from the command and
// loads the corpus. Commands that need documents go through here so a
// load failure surfaces uniformly.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	cmdCtx.Logger.Debug("loading corpus", "dir", cmdCtx.Config.GuidelinesDir)
	store, err := corpus.Load(cmdCtx.Config.GuidelinesDir)
	if err != nil {
		return nil, err
	}
	cmdCtx.Logger.Debug("corpus loaded", "documents", store.Len())

	cmdCtx.Store = store
	return cmdCtx, nil
}

// NewCommandContextWithoutStore resolves config and renderer without
// touching the corpus directory.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()

	cfg, ok := ctx.Value(ConfigKey{}).(*config.Config)
	if !ok {
		cfg = &config.Config{
			GuidelinesDir: config.DefaultGuidelinesDir,
			OutputFormat:  config.DefaultOutput,
		}
	}

	r, ok := ctx.Value(RendererKey{}).(*output.Renderer)
	if !ok {
		r = output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
	}

	return &CommandContext{
		Config:   cfg,
		Renderer: r,
		Logger:   config.GetLogger(ctx),
	}
}
