package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/josuanbn/bl2u1/internal/convert"
	"github.com/josuanbn/bl2u1/internal/tui"
	"github.com/josuanbn/bl2u1/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <package.3mf>",
	Short: "Edit filaments interactively, then convert",
	Args:  cobra.ExactArgs(1),
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringP("output", "o", "", "output file (default <input>_U1_Ready.3mf)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isStderrTTY() {
		return fmt.Errorf("bl2u1 tui requires a TTY (terminal)")
	}

	cfg := loadConfig(cmd)
	log := newLogger(cfg.Verbose)
	printer := ui.New()

	inPath := args[0]
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("cannot read %s: %w", inPath, err)
	}
	fils := convert.ExtractFilaments(inPath, log)
	if len(fils) == 0 {
		return fmt.Errorf("no filaments found in %s", inPath)
	}

	cat := loadCatalog(cfg, log)
	edits, confirmed, err := tui.Run(fils, cat.Types())
	if err != nil {
		return err
	}
	if !confirmed {
		printer.Info("cancelled")
		return nil
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = defaultOutputPath(inPath)
	}

	conv := &convert.Converter{TemplatesDir: cfg.TemplatesDir, Profiles: cat, Log: log}
	if err := conv.Convert(cmd.Context(), inPath, edits, outPath); err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("wrote %s", outPath))
	return nil
}
