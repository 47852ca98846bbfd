package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/forms"
	"github.com/goliatone/go-recipes/pkg/hybrid"
	"github.com/goliatone/go-recipes/pkg/render"
)

func (c *cli) formCmd() *cobra.Command {
	var (
		id       int64
		metadata bool
		action   string
	)
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Render the recipe form",
		Long: `Render the recipe form as hybrid markup, or print the metadata each
field fragment receives.

Examples:
  recipes form                  # Markup for a new recipe
  recipes form --id 3           # Markup prefilled with recipe 3
  recipes form --metadata       # Field metadata as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := c.newApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			var initial map[string]any
			if id != 0 {
				recipe, err := a.Store.Get(ctx, id)
				if err != nil {
					return err
				}
				initial = recipes.InitialFromRecipe(recipe)
			}
			bound, err := forms.Unbound(ctx, a.Form, initial)
			if err != nil {
				return err
			}

			if metadata {
				fields := make([]hybrid.Metadata, 0, len(bound.Fields()))
				for _, bf := range bound.Fields() {
					fields = append(fields, a.Adapter.Metadata(bf))
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(fields)
			}

			formConfig, _ := a.Schema.Form(recipes.FormName)
			out, _, err := a.Renderers.Render(ctx, "hybrid", bound, render.RenderOptions{
				Action:      action,
				SubmitLabel: formConfig.SubmitLabel,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Prefill the form with an existing recipe")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "Print field metadata as JSON instead of markup")
	cmd.Flags().StringVar(&action, "action", recipes.ListPath+"create/", "Form action URL")
	return cmd
}
