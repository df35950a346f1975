package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/josuanbn/bl2u1/internal/audit"
	"github.com/josuanbn/bl2u1/internal/catalog"
	"github.com/josuanbn/bl2u1/internal/config"
	"github.com/josuanbn/bl2u1/internal/server"
	"github.com/josuanbn/bl2u1/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion web service",
	Long: `Run the HTTP service: upload a package to /analyze, pick colors, convert
with /convert, and fetch the result from /download. Sessions and uploads are
swept after the configured age.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default :8080)")
	serveCmd.Flags().String("uploads", "", "uploads directory")
	serveCmd.Flags().String("templates", "", "templates directory")
	serveCmd.Flags().String("db", "", "session database path")
	serveCmd.Flags().Int("max-age", 0, "hours before sessions are swept")
	serveCmd.Flags().String("audit-log", "", "append JSONL audit events to this file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	applyServeFlags(cmd, &cfg)

	log, err := newServeLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := session.Open(ctx, cfg.DatabasePath(), cfg.UploadsDir)
	if err != nil {
		return err
	}
	defer sessions.Close()

	catalogPath := filepath.Join(cfg.TemplatesDir, catalog.DefaultFile)
	catalogs := catalog.NewStore(catalog.Load(catalogPath, log))
	if watcher, err := catalog.NewWatcher(catalogPath, catalogs, log); err != nil {
		log.Warn("catalog watcher unavailable", zap.Error(err))
	} else if err := watcher.Start(); err != nil {
		log.Warn("catalog watcher unavailable", zap.Error(err))
	} else {
		defer watcher.Stop()
	}

	var auditor *audit.Emitter
	if cfg.AuditLog != "" {
		auditor, err = audit.NewEmitter(cfg.AuditLog)
		if err != nil {
			return err
		}
		defer auditor.Close()
	}

	srv := server.New(server.Config{
		ListenAddr:   cfg.ListenAddr,
		TemplatesDir: cfg.TemplatesDir,
		MaxFileAge:   cfg.MaxFileAge(),
	}, sessions, catalogs, log, auditor)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("listening", zap.String("addr", srv.Addr().String()))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// applyServeFlags overlays serve flags onto the loaded config.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		cfg.ListenAddr = v
	}
	if v, _ := cmd.Flags().GetString("uploads"); v != "" {
		cfg.UploadsDir = v
	}
	if v, _ := cmd.Flags().GetString("templates"); v != "" {
		cfg.TemplatesDir = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetInt("max-age"); v > 0 {
		cfg.MaxFileAgeHours = v
	}
	if v, _ := cmd.Flags().GetString("audit-log"); v != "" {
		cfg.AuditLog = v
	}
}

// newServeLogger builds the service logger: human-readable in verbose mode,
// JSON production logging otherwise.
func newServeLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
