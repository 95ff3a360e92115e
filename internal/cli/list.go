package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	pinlog "github.com/AdityaBavadekar/PinLog"
	"github.com/AdityaBavadekar/PinLog/internal/store"
)

func newListCmd(g *globals) *cobra.Command {
	var (
		tag     string
		level   string
		query   string
		sortBy  string
		desc    bool
		limit   int
		full    bool
		consume bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Long: `List stored records, oldest first.

Records can be narrowed with --tag and --level, or with a query such as
  tag:Net AND NOT level:DEBUG
  msg~timeout OR (tag:Db AND level:E)

--consume reads every record once and removes it, like an app draining its
own logs; it cannot be combined with filters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if consume && (tag != "" || level != "" || query != "" || desc) {
				return fmt.Errorf("--consume cannot be combined with filters or ordering")
			}

			l, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			if consume {
				renderRecords(cmd.OutOrStdout(), l.GetAllLogs(true, limit), full)
				return nil
			}

			q := pinlog.Query{Tag: tag, Expression: query, Descending: desc, Limit: limit}
			if level != "" {
				lv, err := pinlog.ParseLevel(level)
				if err != nil {
					return err
				}
				q.Level = &lv
			}
			if q.Sort, err = store.ParseSortOrder(sortBy); err != nil {
				return err
			}

			records, err := l.QueryLogs(q)
			if err != nil {
				return err
			}
			renderRecords(cmd.OutOrStdout(), records, full)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only records with this tag")
	cmd.Flags().StringVarP(&level, "level", "l", "", "only records at this level (ERROR, W, 2, ...)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter expression")
	cmd.Flags().StringVar(&sortBy, "sort", "id", "sort by id or level")
	cmd.Flags().BoolVar(&desc, "desc", false, "newest first")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum records to show (0 for all)")
	cmd.Flags().BoolVar(&full, "full", false, "show stack traces")
	cmd.Flags().BoolVar(&consume, "consume", false, "remove records after reading them")
	return cmd
}

func newTagsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List distinct tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			for _, tag := range l.Tags() {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func newStatsCmd(g *globals) *cobra.Command {
	var (
		interval string
		query    string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, _, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer l.Close()

			out := cmd.OutOrStdout()
			st := l.Stats()

			summary := newTable(out)
			summary.AppendHeader(header("KEY", "VALUE"))
			summary.AppendRows([]table.Row{
				{"Records", st.TotalLogs},
				{"Pages", l.GetLogsGroupCount()},
				{"Disk usage", fmt.Sprintf("%d bytes", st.DiskUsage)},
				{"Oldest", formatMillis(st.OldestTime)},
				{"Newest", formatMillis(st.NewestTime)},
			})
			summary.Render()

			levels := newTable(out)
			levels.AppendHeader(header("LEVEL", "COUNT"))
			for _, lv := range pinlog.Levels {
				levels.AppendRow(table.Row{levelColor(lv).Sprint(lv.String()), st.LevelDist[lv.String()]})
			}
			levels.Render()

			if tags := st.SortedTags(); len(tags) > 0 {
				tt := newTable(out)
				tt.AppendHeader(header("TAG", "COUNT"))
				for _, row := range tags {
					tt.AppendRow(table.Row{row.Tag, row.Count})
				}
				tt.Render()
			}

			if interval == "" {
				return nil
			}
			step, err := parseInterval(interval)
			if err != nil {
				return err
			}
			points, err := l.Histogram(step, query)
			if err != nil {
				return err
			}
			ht := newTable(out)
			ht.AppendHeader(header("BUCKET", "COUNT"))
			for _, p := range points {
				ht.AppendRow(table.Row{formatMillis(p.Time), p.Count})
			}
			ht.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&interval, "interval", "", "also print a histogram with this bucket size (e.g. 1h, 1d)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "histogram filter expression")
	return cmd
}
