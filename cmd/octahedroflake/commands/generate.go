package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nat-a-cyborg/octahedroflake/internal/adapters/config"
	"github.com/nat-a-cyborg/octahedroflake/internal/core/domain"
	"github.com/nat-a-cyborg/octahedroflake/internal/ui/output"
	"github.com/nat-a-cyborg/octahedroflake/internal/ui/style"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the octahedroflake model for a print profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profilePath, _ := cmd.Flags().GetString("profile")
			params, err := config.Load(profilePath)
			if err != nil {
				return err
			}
			params = applyFlags(cmd, params)

			cfg, err := domain.Resolve(params)
			if err != nil {
				return err
			}

			if out, _ := cmd.Flags().GetString("output"); out != "" {
				c.app.SetOutputRoot(out)
			}

			result, err := c.app.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			term := output.New(os.Stdout)
			_, _ = fmt.Fprintln(term, style.Header.Render("octahedroflake generated"))
			_, _ = fmt.Fprintf(term, "%s %s\n", style.Success.Render(style.Check), result.FlakePath)
			_, _ = fmt.Fprintf(term, "%s %s\n", style.Success.Render(style.Check), result.PyramidPath)
			_, _ = fmt.Fprintf(term, "%s %s\n", style.Success.Render(style.Check), result.GeometryPath)
			_, _ = fmt.Fprintln(term, style.Muted.Render(fmt.Sprintf("took %s", result.Elapsed.Round(result.Elapsed/100))))
			return nil
		},
	}

	cmd.Flags().IntP("iterations", "i", 0, "Recursion order of the fractal")
	cmd.Flags().Float64P("layer-height", "l", 0, "Layer height in mm")
	cmd.Flags().Float64P("nozzle-diameter", "n", 0, "Nozzle diameter in mm")
	cmd.Flags().Float64("size-multiplier", 0, "Direct edge size multiplier")
	cmd.Flags().Float64P("model-height", "m", 0, "Target model height in mm")
	cmd.Flags().String("profile", config.DefaultFilename, "Path to a YAML print profile")
	cmd.Flags().Bool("no-branding", false, "Skip the logo insert")
	cmd.Flags().Bool("no-disk-cache", false, "Keep the part cache in memory only")
	cmd.Flags().StringP("output", "o", "", "Output directory root")
	return cmd
}

// applyFlags merges explicitly set flags over the loaded profile.
func applyFlags(cmd *cobra.Command, params domain.Params) domain.Params {
	if cmd.Flags().Changed("iterations") {
		params.Order, _ = cmd.Flags().GetInt("iterations")
	}
	if cmd.Flags().Changed("layer-height") {
		params.LayerHeight, _ = cmd.Flags().GetFloat64("layer-height")
	}
	if cmd.Flags().Changed("nozzle-diameter") {
		params.NozzleDiameter, _ = cmd.Flags().GetFloat64("nozzle-diameter")
	}
	if cmd.Flags().Changed("size-multiplier") {
		params.SizeMultiplier, _ = cmd.Flags().GetFloat64("size-multiplier")
		params.ModelHeight = 0
	}
	if cmd.Flags().Changed("model-height") {
		params.ModelHeight, _ = cmd.Flags().GetFloat64("model-height")
	}
	if noBrand, _ := cmd.Flags().GetBool("no-branding"); noBrand {
		params.Branded = false
	}
	if noDisk, _ := cmd.Flags().GetBool("no-disk-cache"); noDisk {
		params.DiskCache = false
	}
	return params
}
