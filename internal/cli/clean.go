package cli

import (
	"github.com/spf13/cobra"

	"github.com/mchineboy/ecrtool/internal/registry"
)

func (app *Application) newCleanCommand() *cobra.Command {
	var (
		count     uint64
		threshold uint64
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "clean <repository>",
		Short: "Delete images from a repository",
		Long: `Once the repository holds at least --threshold images, delete the --count
oldest of them by digest. Every tag of a deleted digest goes with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, err := app.newService(ctx, registry.WithDryRun(dryRun))
			if err != nil {
				return err
			}

			result, err := service.CleanRepository(ctx, args[0], threshold, count)
			if result.Decision.Act || err == nil {
				if renderErr := app.renderer().CleanResult(result, threshold, count); renderErr != nil && err == nil {
					err = renderErr
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.Uint64VarP(&count, "count", "c", 0, "The number of images to delete if the threshold is met")
	flags.Uint64VarP(&threshold, "threshold", "t", 0, "The number of images that must exist before any will be deleted")
	flags.BoolVar(&dryRun, "dry-run", false, "Show which images would be deleted without deleting them")
	_ = cmd.MarkFlagRequired("count")
	_ = cmd.MarkFlagRequired("threshold")

	return cmd
}
