package pinlog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AdityaBavadekar/PinLog/internal/archive"
)

const (
	// LogsDirName is the directory under FilesDir holding exports and
	// crash reports.
	LogsDirName = "logs_app_dir"

	// FileDateLayout is the timestamp embedded in generated file names.
	FileDateLayout = "02_01_2006_3_04_PM"

	// CrashDateLayout is the timestamp written into crash reports.
	CrashDateLayout = "02.01.2006 3:04:05 PM MST"

	exportSuffix = "_LOG.txt"
	filePerm     = 0644
	dirPerm      = 0755
)

// ExportOptions controls ExportToFile.
type ExportOptions struct {
	// FileName overrides the generated name. An existing file is replaced.
	FileName string
	// TrailingLine is appended after the last record.
	TrailingLine string
	// Keep leaves exported records in the store. By default they are
	// removed once the file is written.
	Keep bool
}

// LogFilesDir returns the export directory, or "" before initialization.
func (l *Logger) LogFilesDir() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.initialized {
		return ""
	}
	return filepath.Join(l.filesDir, LogsDirName)
}

// LogFileNames lists the files in LogFilesDir.
func (l *Logger) LogFileNames() []string {
	dir := l.LogFilesDir()
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// fileStem builds "<APP_NAME_UPPERCASED_UNDERSCORED>__<date>".
func (l *Logger) fileStem(t time.Time) string {
	l.mu.RLock()
	name := l.appName
	l.mu.RUnlock()

	var sb strings.Builder
	for _, word := range strings.Fields(name) {
		sb.WriteString(strings.ToUpper(word))
		sb.WriteByte('_')
	}
	sb.WriteByte('_')
	sb.WriteString(t.Format(FileDateLayout))
	return sb.String()
}

// ExportFileName returns the generated export file name for time t.
func (l *Logger) ExportFileName(t time.Time) string {
	return l.fileStem(t) + exportSuffix
}

// ensureLogsDir creates LogFilesDir with world-readable permissions.
func (l *Logger) ensureLogsDir() (string, bool) {
	dir := l.LogFilesDir()
	if dir == "" {
		l.internal(WARN, "PinLog is not initialized; export called before Initialize", nil)
		return "", false
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		l.internal(ERROR, "could not create logs dir", err)
		return "", false
	}
	_ = os.Chmod(dir, dirPerm)
	return dir, true
}

// exportBody renders records one per line with an optional trailer.
func exportBody(records []LogRecord, trailing string) []byte {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(r.Message)
		sb.WriteByte('\n')
	}
	if trailing != "" {
		sb.WriteString(trailing)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// ExportToFile writes every stored record, oldest first and one per line,
// to a world-readable text file in LogFilesDir and returns its path. It
// returns false if nothing could be written.
func (l *Logger) ExportToFile(opts ExportOptions) (string, bool) {
	return l.export(opts, "", func(path string, data []byte) error {
		if err := os.WriteFile(path, data, filePerm); err != nil {
			return err
		}
		return os.Chmod(path, filePerm)
	})
}

// ExportCompressed is ExportToFile with zstd compression. The file name
// gets a ".zst" suffix.
func (l *Logger) ExportCompressed(opts ExportOptions) (string, bool) {
	return l.export(opts, archive.Extension, func(path string, data []byte) error {
		return archive.WriteFile(path, data, filePerm)
	})
}

func (l *Logger) export(opts ExportOptions, suffix string, write func(path string, data []byte) error) (string, bool) {
	st := l.readyStore("ExportToFile")
	if st == nil {
		return "", false
	}
	dir, ok := l.ensureLogsDir()
	if !ok {
		return "", false
	}

	name := opts.FileName
	if name == "" {
		name = l.ExportFileName(l.now())
	}
	path := filepath.Join(dir, filepath.Base(name)+suffix)

	records := st.GetAll()
	if err := write(path, exportBody(records, opts.TrailingLine)); err != nil {
		l.internal(ERROR, "could not write export file", err)
		return "", false
	}
	if !opts.Keep && len(records) > 0 {
		st.DeleteThrough(records[len(records)-1].ID)
	}
	l.internal(INFO, "logs exported to "+path, nil)
	return path, true
}
