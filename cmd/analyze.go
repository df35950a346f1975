package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/josuanbn/bl2u1/internal/convert"
	"github.com/josuanbn/bl2u1/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <package.3mf>",
	Short: "List the filaments a package declares",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(analyzeCmd)
}

// filamentOut is the JSON shape for analyze output, matching the web API.
type filamentOut struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Type  string `json:"type"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	log := newLogger(cfg.Verbose)

	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}
	fils := convert.ExtractFilaments(args[0], log)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		out := make([]filamentOut, len(fils))
		for i, f := range fils {
			out[i] = filamentOut{ID: f.ID, Color: f.Color, Type: f.Type}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	ui.New().FilamentTable(fils)
	return nil
}
