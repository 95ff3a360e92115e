package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	pinlog "github.com/AdityaBavadekar/PinLog"
	"github.com/AdityaBavadekar/PinLog/internal/pkg/logql"
)

const watchPollInterval = 2 * time.Second

func newWatchCmd(g *globals) *cobra.Command {
	var (
		fromStart bool
		query     string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print records as they are written",
		Long: `Follow the store and print new records as another process writes them.
File system notifications on the database directory trigger a read, with a
periodic poll as backup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, cfg, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			f, err := newFollower(l, query, fromStart)
			if err != nil {
				return err
			}
			return f.run(ctx, cfg.Store.Path, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&fromStart, "from-start", false, "print existing records first")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only print records matching this expression")
	return cmd
}

// follower prints records past the last id it has seen.
type follower struct {
	l      *pinlog.Logger
	filter logql.Node
	lastID int64
}

func newFollower(l *pinlog.Logger, query string, fromStart bool) (*follower, error) {
	node, err := logql.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	f := &follower{l: l, filter: node}
	if !fromStart {
		latest, _ := l.QueryLogs(pinlog.Query{Descending: true, Limit: 1})
		if len(latest) > 0 {
			f.lastID = latest[0].ID
		}
	}
	return f, nil
}

// flush prints every new matching record and returns how many were printed.
func (f *follower) flush(w io.Writer) int {
	records := f.l.LogsAfter(f.lastID)
	if len(records) == 0 {
		return 0
	}
	f.lastID = records[len(records)-1].ID

	printed := 0
	for i := range records {
		if !logql.Match(f.filter, &records[i]) {
			continue
		}
		writeLine(w, records[i])
		printed++
	}
	return printed
}

func (f *follower) run(ctx context.Context, dbPath string, w io.Writer) error {
	f.flush(w)

	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Polling alone still works.
		return f.poll(ctx, ticker.C, w)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		return f.poll(ctx, ticker.C, w)
	}

	base := filepath.Base(dbPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.flush(w)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// The main file, its -wal and its -journal all signal a write.
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f.flush(w)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (f *follower) poll(ctx context.Context, tick <-chan time.Time, w io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			f.flush(w)
		}
	}
}
