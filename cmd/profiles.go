package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/josuanbn/bl2u1/internal/ui"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the filament profiles the converter assigns",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	profilesCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	log := newLogger(cfg.Verbose)

	cat := loadCatalog(cfg, log)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cat.Profiles())
	}

	ui.New().ProfileTable(cat.Profiles())
	return nil
}
