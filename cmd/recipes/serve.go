package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipes/internal/server"
)

func (c *cli) serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate && a.Config.UseDatabase() {
				if err := a.Migrate(ctx); err != nil {
					return err
				}
			}

			handler, err := a.Handler(ctx)
			if err != nil {
				return err
			}
			srv := server.New(server.Config{
				Addr:            a.Config.HTTPAddr,
				ReadTimeout:     a.Config.ReadTimeout,
				WriteTimeout:    a.Config.WriteTimeout,
				ShutdownTimeout: a.Config.ShutdownTimeout,
			}, a.Logger)
			return srv.Run(ctx, handler)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")
	return cmd
}
