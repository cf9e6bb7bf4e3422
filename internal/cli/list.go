package cli

import (
	"github.com/spf13/cobra"
)

func (app *Application) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [repository]",
		Short: "List ECR repositories or their contents",
		Long: `Without arguments, list every repository of the registry sorted by name.
With a repository name, list its images, most recently pushed first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, err := app.newService(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				repositories, err := service.ListRepositories(ctx)
				if err != nil {
					return err
				}
				return app.renderer().Repositories(repositories)
			}

			images, err := service.ListImages(ctx, args[0])
			if err != nil {
				return err
			}
			return app.renderer().Images(images)
		},
	}
}
