package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/AdityaBavadekar/PinLog/internal/pkg/security"
	"github.com/AdityaBavadekar/PinLog/internal/report"
)

func newReportCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Work with crash reports and exported files",
	}
	cmd.AddCommand(newReportListCmd(g), newReportShowCmd(g))
	return cmd
}

func newReportListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List files in the logs dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			dir := l.LogFilesDir()
			for _, name := range l.LogFileNames() {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, name))
			}
			return nil
		},
	}
}

func newReportShowCmd(g *globals) *cobra.Command {
	var (
		passphrase string
		showLogs   bool
	)

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Decode a crash report",
		Long: `Decode a crash report. Sealed reports (".sealed") are opened with
--passphrase, falling back to crash.passphrase from the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if security.IsSealed(data) {
				if passphrase == "" {
					if cfg, err := g.load(); err == nil {
						passphrase = cfg.Crash.Passphrase
					}
				}
				if passphrase == "" {
					return errors.New("report is sealed; pass --passphrase")
				}
				if data, err = security.Open(data, passphrase); err != nil {
					return err
				}
			}

			s, err := report.Parse(data)
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), s, showLogs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for sealed reports")
	cmd.Flags().BoolVar(&showLogs, "logs", false, "print the stored records and console tail")
	return cmd
}

func renderSummary(w io.Writer, s *report.Summary, showLogs bool) {
	t := newTable(w)
	t.AppendHeader(header("KEY", "VALUE"))
	t.AppendRows([]table.Row{
		{report.KeyAppName, s.AppName},
		{report.KeyPackageName, s.PackageName},
		{report.KeyVersionName, s.VersionName},
		{report.KeyVersionCode, s.VersionCode},
		{report.KeyInstallationID, s.InstallationID},
		{report.KeyCrashDate, s.CrashDate},
		{report.KeyThreadName, s.ThreadName},
		{report.KeyMessage, colorError.Sprint(s.Message)},
		{report.KeyCause, s.Cause},
		{report.KeyModel, s.Model},
		{report.KeyManufacturer, s.Manufacturer},
		{report.KeyRelease, s.Release},
		{report.KeySDKInt, s.SDKInt},
		{report.KeyDebug, s.Debug},
		{report.KeyOrientation, s.Orientation},
		{report.KeyLogFiles, s.LogFiles},
	})
	for _, k := range report.SortedKeys(s.CustomData) {
		t.AppendRow(table.Row{report.KeyCustomData + "." + k, s.CustomData[k]})
	}
	for _, k := range report.SortedKeys(s.BuildConfig) {
		t.AppendRow(table.Row{report.KeyBuildConfig + "." + k, s.BuildConfig[k]})
	}
	t.Render()

	fmt.Fprintln(w, s.Stacktrace)

	if len(s.Missing) > 0 {
		_, _ = colorWarn.Fprintf(w, "missing keys: %s\n", strings.Join(s.Missing, ", "))
	}
	if !showLogs {
		return
	}
	fmt.Fprintln(w, s.Logs)
	if s.ConsoleTail != "" {
		_, _ = colorDim.Fprintln(w, s.ConsoleTail)
	}
}
