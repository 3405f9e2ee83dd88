package commands

import (
	"github.com/spf13/cobra"

	"github.com/nat-a-cyborg/octahedroflake/internal/app"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached parts and generated artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cleanCache, _ := cmd.Flags().GetBool("cache")
			cleanOutput, _ := cmd.Flags().GetBool("output")
			all, _ := cmd.Flags().GetBool("all")
			if all || (!cleanCache && !cleanOutput) {
				cleanCache, cleanOutput = true, true
			}

			cfg, err := domain.Resolve(domain.DefaultParams())
			if err != nil {
				return err
			}
			return c.app.Clean(cfg, app.CleanOptions{
				Cache:  cleanCache,
				Output: cleanOutput,
			})
		},
	}

	cmd.Flags().Bool("cache", false, "Remove the part cache only")
	cmd.Flags().Bool("output", false, "Remove the output directory only")
	cmd.Flags().Bool("all", false, "Remove everything")
	return cmd
}
