package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josuanbn/bl2u1/internal/convert"
	"github.com/josuanbn/bl2u1/internal/filament"
	"github.com/josuanbn/bl2u1/internal/ui"
)

var convertCmd = &cobra.Command{
	Use:   "convert <package.3mf>",
	Short: "Rewrite a package for the Snapmaker U1",
	Long: `Rewrite a Bambu Lab package so the Snapmaker U1 accepts it. By default
every filament is kept with its current color and type; use --plan or
--keep to drop or edit filaments.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (default <input>_U1_Ready.3mf)")
	convertCmd.Flags().String("plan", "", "conversion plan file")
	convertCmd.Flags().StringArray("keep", nil, "keep a filament: id[=color[:type]] (repeatable)")
	convertCmd.Flags().Bool("all", false, "keep every filament as-is")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	log := newLogger(cfg.Verbose)
	printer := ui.New()

	planFile, _ := cmd.Flags().GetString("plan")
	keeps, _ := cmd.Flags().GetStringArray("keep")
	all, _ := cmd.Flags().GetBool("all")
	selections := 0
	for _, chosen := range []bool{planFile != "", len(keeps) > 0, all} {
		if chosen {
			selections++
		}
	}
	if selections > 1 {
		return fmt.Errorf("--plan, --keep, and --all are mutually exclusive")
	}

	inPath := args[0]
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("cannot read %s: %w", inPath, err)
	}
	fils := convert.ExtractFilaments(inPath, log)

	var edits map[string]filament.Edit
	switch {
	case planFile != "":
		var err error
		edits, err = convert.LoadPlan(planFile)
		if err != nil {
			return err
		}
	case len(keeps) > 0:
		var err error
		edits, err = parseKeepSpecs(keeps)
		if err != nil {
			return err
		}
	default:
		edits = convert.KeepAll(fils)
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = defaultOutputPath(inPath)
	}

	conv := newConverter(cfg, log)
	if err := conv.Convert(cmd.Context(), inPath, edits, outPath); err != nil {
		return err
	}

	_, mapped := filament.BuildRemap(fils, edits, convert.SlotCount)
	printer.RemapTable(mapped)
	printer.Success(fmt.Sprintf("wrote %s", outPath))
	return nil
}

// parseKeepSpecs parses --keep values of the form id, id=color, or
// id=color:type. An empty color or type keeps the filament's current value.
func parseKeepSpecs(specs []string) (map[string]filament.Edit, error) {
	edits := make(map[string]filament.Edit, len(specs))
	for _, spec := range specs {
		id, rest, _ := strings.Cut(spec, "=")
		if id == "" {
			return nil, fmt.Errorf("invalid --keep %q: missing filament id", spec)
		}
		color, typ, _ := strings.Cut(rest, ":")
		edits[id] = filament.Edit{Color: color, Type: typ}
	}
	return edits, nil
}

// defaultOutputPath names the output the way the web service names
// downloads: benchy.3mf becomes benchy_U1_Ready.3mf.
func defaultOutputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + "_U1_Ready.3mf"
}
