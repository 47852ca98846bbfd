package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipes/internal/app"
	"github.com/goliatone/go-recipes/internal/config"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/requestid"
	"github.com/goliatone/go-recipes/pkg/renderers/tui"
)

// cliOptions carries test seams. Zero values select the real
// implementations.
type cliOptions struct {
	environ map[string]string
	driver  tui.PromptDriver
}

type cli struct {
	opts    cliOptions
	envFile string
}

func newRootCmd(opts cliOptions) *cobra.Command {
	c := &cli{opts: opts}
	root := &cobra.Command{
		Use:   "recipes",
		Short: "Manage recipes from the browser or the terminal",
		Long: `recipes serves the recipe web application.

Configuration is read from the environment and an optional .env file.
Without DATABASE_URL recipes are kept in memory.

Examples:
  recipes serve                 # Start the HTTP server
  recipes migrate               # Apply database migrations
  recipes form --metadata       # Print the recipe form field metadata
  recipes add                   # Add a recipe through terminal prompts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Path to the .env file")

	root.AddCommand(c.serveCmd())
	root.AddCommand(c.migrateCmd())
	root.AddCommand(c.formCmd())
	root.AddCommand(c.addCmd())
	return root
}

func (c *cli) config() (config.Config, error) {
	if c.opts.environ != nil {
		return config.FromMap(c.opts.environ)
	}
	return config.Load(c.envFile)
}

// newApp loads configuration and builds the application. Logs go to
// stderr so command output on stdout stays machine readable.
func (c *cli) newApp(ctx context.Context, stderr io.Writer) (*app.App, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logger := logging.New(
		logging.WithLevel(level),
		logging.WithFormat(format),
		logging.WithOutput(stderr),
		logging.WithContextExtractors(requestid.LogAttr),
	)
	return app.New(ctx, cfg, logger)
}
