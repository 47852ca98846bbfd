package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/render"
	"github.com/goliatone/go-recipes/pkg/renderers/tui"
)

func (c *cli) addCmd() *cobra.Command {
	var (
		output   string
		attempts int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe through terminal prompts",
		Long: `Prompt for every recipe field, store the recipe once it is valid and
print what was saved.

Examples:
  recipes add                   # Summary as "Label: value" lines
  recipes add --output json     # Saved values as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, err := tui.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			a, err := c.newApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			driver := c.opts.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}

			var saved recipes.Recipe
			store := func(cleaned map[string]any) (map[string]any, error) {
				recipe, err := a.Store.Create(ctx, recipes.ApplyCleaned(recipes.Recipe{}, cleaned))
				if err != nil {
					return nil, err
				}
				saved = recipe
				cleaned["id"] = recipe.ID
				return cleaned, nil
			}

			renderer, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(format),
				tui.WithMaxAttempts(attempts),
				tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
				tui.WithSubmitTransformer(store),
			)
			if err != nil {
				return err
			}
			if err := a.Renderers.Register(renderer); err != nil {
				return err
			}

			unbound, err := forms.Unbound(ctx, a.Form, nil)
			if err != nil {
				return err
			}
			payload, _, err := a.Renderers.Render(ctx, renderer.Name(), unbound, render.RenderOptions{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, string(payload)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (id %d)\n", recipes.MsgSaved, saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(tui.OutputFormatPrettyText), "Output format: pretty, json or form")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "Prompt rounds before giving up on invalid answers")
	return cmd
}
