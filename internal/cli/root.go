// Package cli implements the pinlog command line tool, which inspects and
// maintains a log store written by an application embedding the library.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pinlog "github.com/AdityaBavadekar/PinLog"
	"github.com/AdityaBavadekar/PinLog/internal/config"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configFile string
	dbPath     string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:   "pinlog",
		Short: "Inspect and maintain PinLog log stores",
		Long: `pinlog reads the SQLite store written by an application using PinLog.
It lists, filters, exports and expires records, follows new records as they
are written and decodes crash reports.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "config file (default ./pinlog.yaml, then ~/.pinlog/pinlog.yaml)")
	cmd.PersistentFlags().StringVar(&g.dbPath, "db", "", "log database, overrides store.path")

	cmd.AddCommand(
		newListCmd(g),
		newTagsCmd(g),
		newStatsCmd(g),
		newExportCmd(g),
		newPurgeCmd(g),
		newClearCmd(g),
		newWatchCmd(g),
		newReportCmd(g),
		newSampleCmd(g),
	)
	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (g *globals) load() (*config.Config, error) {
	cfg, err := config.Load(viper.New(), g.configFile)
	if err != nil {
		return nil, err
	}
	if g.dbPath != "" {
		cfg.Store.Path = g.dbPath
	}
	return cfg, nil
}

// open loads the configuration and binds a Logger to it. The caller must
// Close the Logger.
func (g *globals) open(cmd *cobra.Command, extra ...pinlog.Option) (*pinlog.Logger, *config.Config, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, nil, err
	}

	host := &pinlog.StaticHost{
		Name:    cfg.App.Name,
		Package: cfg.App.Package,
		Version: cfg.App.VersionName,
		Code:    cfg.App.VersionCode,
		Dir:     cfg.App.FilesDir,
	}
	opts := []pinlog.Option{
		pinlog.WithStorePath(cfg.Store.Path),
		pinlog.WithStoreLogLevel(cfg.Store.LogLevel),
		pinlog.WithDevLogging(cfg.Console.DevLogging),
		pinlog.WithConsole(cmd.ErrOrStderr()),
		pinlog.WithBuildInfo(cfg.BuildInfo),
	}
	if cfg.Console.File != "" {
		opts = append(opts, pinlog.WithConsoleFile(pinlog.ConsoleFile{
			Path:       cfg.Console.File,
			MaxSizeMB:  cfg.Console.MaxSizeMB,
			MaxBackups: cfg.Console.MaxBackups,
			MaxAgeDays: cfg.Console.MaxAgeDays,
			Compress:   cfg.Console.Compress,
		}))
	}
	opts = append(opts, extra...)

	l := pinlog.New()
	if !l.Initialize(host, opts...) {
		_ = l.Close()
		return nil, nil, fmt.Errorf("failed to initialize logger for %s", cfg.Store.Path)
	}
	return l, cfg, nil
}
