package cli

import (
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	pinlog "github.com/AdityaBavadekar/PinLog"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorWarn  = color.New(color.FgYellow)
	colorInfo  = color.New(color.FgGreen)
	colorDebug = color.New(color.FgCyan)
	colorDim   = color.New(color.FgHiBlack)
)

func levelColor(l pinlog.Level) *color.Color {
	switch l {
	case pinlog.ERROR:
		return colorError
	case pinlog.WARN:
		return colorWarn
	case pinlog.INFO:
		return colorInfo
	default:
		return colorDebug
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = text.FgHiCyan.Sprint(c)
	}
	return row
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format(timeLayout)
}

// firstLine drops stack traces appended to formatted records.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func renderRecords(w io.Writer, records []pinlog.LogRecord, full bool) {
	t := newTable(w)
	t.AppendHeader(header("ID", "TIME", "LEVEL", "TAG", "MESSAGE"))
	for _, r := range records {
		msg := r.Message
		if !full {
			msg = firstLine(msg)
		}
		t.AppendRow(table.Row{
			r.ID,
			formatMillis(r.CreatedAt),
			levelColor(r.Level).Sprint(r.Level.Short()),
			r.Tag,
			msg,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "TOTAL", len(records)})
	t.Render()
}

// writeLine prints one record the way `watch` streams it.
func writeLine(w io.Writer, r pinlog.LogRecord) {
	_, _ = colorDim.Fprintf(w, "%s ", formatMillis(r.CreatedAt))
	_, _ = levelColor(r.Level).Fprintf(w, "%s/%s", r.Level.Short(), r.Tag)
	_, _ = io.WriteString(w, " "+r.Message+"\n")
}
