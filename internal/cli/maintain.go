package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pinlog "github.com/AdityaBavadekar/PinLog"
)

// parseInterval accepts time.ParseDuration syntax plus a "d" suffix for days.
func parseInterval(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid interval %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", s)
	}
	return d, nil
}

func newExportCmd(g *globals) *cobra.Command {
	var (
		name     string
		trailing string
		keep     bool
		zstd     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record to a text file",
		Long: `Write every stored record, oldest first and one per line, to a file in
<files_dir>/logs_app_dir. Exported records are removed from the store unless
--keep is given. An existing file with the same name is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			opts := pinlog.ExportOptions{FileName: name, TrailingLine: trailing, Keep: keep}
			export := l.ExportToFile
			if zstd {
				export = l.ExportCompressed
			}
			path, ok := export(opts)
			if !ok {
				return errors.New("export failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "o", "", "file name inside the logs dir (default <APP>__<date>_LOG.txt)")
	cmd.Flags().StringVar(&trailing, "trailer", "", "line appended after the last record")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave exported records in the store")
	cmd.Flags().BoolVar(&zstd, "zstd", false, "compress the file with zstd")
	return cmd
}

func newPurgeCmd(g *globals) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete records older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, cfg, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			if !cmd.Flags().Changed("days") {
				days = cfg.RetentionDays
			}
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}
			n := l.DeleteExpiredLogs(days)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d records older than %d days\n", n, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", pinlog.DefaultRetentionDays, "retention window in days (default retention_days from config)")
	return cmd
}

func newClearCmd(g *globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete every record without --yes")
			}
			l, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			n := l.GetLogsCount()
			l.DeleteAllLogs()
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d records\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")
	return cmd
}
