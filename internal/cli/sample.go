package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	pinlog "github.com/AdityaBavadekar/PinLog"
)

func newSampleCmd(g *globals) *cobra.Command {
	var (
		count int
		crash bool
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write sample records, optionally ending in a crash report",
		Long: `Write sample records through the library the way an application would.
With --crash a fault is raised afterwards: a crash report is written to the
logs dir and the process exits with the crash exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, cfg, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			net := l.Tagged("Network")
			db := l.Tagged("Database")
			logger := slog.New(pinlog.NewSlogHandler(l, "Sample"))

			for i := 0; i < count; i++ {
				switch i % 4 {
				case 0:
					net.Debug(fmt.Sprintf("request %d sent", i))
				case 1:
					logger.Info("screen shown", "screen", "home", "seq", i)
				case 2:
					net.Warn("timeout", fmt.Errorf("request %d: %w", i, errors.New("deadline exceeded")))
				case 3:
					db.Error(fmt.Sprintf("write %d failed", i))
				}
			}
			l.Sync()
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", count, cfg.Store.Path)

			if !crash {
				return nil
			}
			l.CustomData().Put("sample", true)
			l.SetupExceptionHandler(pinlog.CrashOptions{Passphrase: cfg.Crash.Passphrase})
			l.Faults().Guard("main", func() {
				panic(errors.New("sample crash"))
			})
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of records")
	cmd.Flags().BoolVar(&crash, "crash", false, "raise a fault after writing")
	return cmd
}
