// Package cmd wires the bl2u1 command line interface.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/josuanbn/bl2u1/internal/catalog"
	"github.com/josuanbn/bl2u1/internal/config"
	"github.com/josuanbn/bl2u1/internal/convert"
)

var rootCmd = &cobra.Command{
	Use:   "bl2u1",
	Short: "Convert Bambu Lab 3MF packages for the Snapmaker U1",
	Long: `bl2u1 rewrites the printer metadata inside Bambu Lab 3MF print packages
so the Snapmaker U1 accepts them: filaments are remapped onto the U1's four
slots and the project settings are rebuilt from a U1 template package.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .bl2u1.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".bl2u1")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("BL2U1")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig loads viper config and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	return cfg
}

// newLogger returns a development logger for verbose runs and a silent one
// otherwise. Core packages log through it; normal CLI output goes through ui.
func newLogger(verbose bool) *zap.Logger {
	if verbose {
		if log, err := zap.NewDevelopment(); err == nil {
			return log
		}
	}
	return zap.NewNop()
}

// loadCatalog reads the filament catalog from the templates directory,
// falling back to the built-in profiles when the package is absent.
func loadCatalog(cfg config.Config, log *zap.Logger) *catalog.Catalog {
	return catalog.Load(filepath.Join(cfg.TemplatesDir, catalog.DefaultFile), log)
}

// newConverter binds the templates directory and catalog from config.
func newConverter(cfg config.Config, log *zap.Logger) *convert.Converter {
	return &convert.Converter{
		TemplatesDir: cfg.TemplatesDir,
		Profiles:     loadCatalog(cfg, log),
		Log:          log,
	}
}

// isStderrTTY reports whether stderr is attached to a terminal.
func isStderrTTY() bool {
	stat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
