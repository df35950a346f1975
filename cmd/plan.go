package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/josuanbn/bl2u1/internal/convert"
	"github.com/josuanbn/bl2u1/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan <package.3mf>",
	Short: "Write a starter conversion plan",
	Long: `Write a TOML plan listing every filament in the package with keep = true.
Edit the plan to drop or recolor filaments, then pass it to convert --plan.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringP("output", "o", "plan.toml", "plan file to write")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	log := newLogger(cfg.Verbose)

	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}
	fils := convert.ExtractFilaments(args[0], log)
	if len(fils) == 0 {
		return fmt.Errorf("no filaments found in %s", args[0])
	}

	out, _ := cmd.Flags().GetString("output")
	if err := convert.WritePlan(out, fils); err != nil {
		return err
	}
	ui.New().Success(fmt.Sprintf("wrote %s (%d filaments)", out, len(fils)))
	return nil
}
