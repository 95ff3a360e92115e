package pinlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaBavadekar/PinLog/internal/archive"
)

func TestExportFileName(t *testing.T) {
	l, host := newTestLogger(t)
	assert.Equal(t, "PIN_DEMO__05_03_2024_2_07_PM_LOG.txt", l.ExportFileName(fixedNow))
	assert.Equal(t, filepath.Join(host.Dir, LogsDirName), l.LogFilesDir())
}

func TestExportMatchesStoredRecords(t *testing.T) {
	l, _ := newTestLogger(t)
	logN(l, 3)
	want := l.GetAllLogsAsStrings(false)

	path, ok := l.ExportToFile(ExportOptions{Keep: true})
	require.True(t, ok)
	assert.Equal(t, filepath.Join(l.LogFilesDir(), "PIN_DEMO__05_03_2024_2_07_PM_LOG.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(want, "\n")+"\n", string(data))
	assert.Equal(t, 3, l.GetLogsCount())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	assert.Equal(t, []string{filepath.Base(path)}, l.LogFileNames())
}

func TestExportConsumesByDefault(t *testing.T) {
	l, _ := newTestLogger(t)
	logN(l, 2)

	path, ok := l.ExportToFile(ExportOptions{TrailingLine: "-- end --"})
	require.True(t, ok)
	assert.Equal(t, 0, l.GetLogsCount())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "-- end --", lines[2])
}

func TestExportOverwritesSameName(t *testing.T) {
	l, _ := newTestLogger(t)
	l.SetFormatter(FormatterFunc(func(e Entry) string { return e.Message }))

	l.Info("A", "first")
	l.Sync()
	p1, ok := l.ExportToFile(ExportOptions{FileName: "fixed.txt"})
	require.True(t, ok)

	l.Info("A", "second")
	l.Sync()
	p2, ok := l.ExportToFile(ExportOptions{FileName: "fixed.txt"})
	require.True(t, ok)
	require.Equal(t, p1, p2)

	data, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestExportEmptyStore(t *testing.T) {
	l, _ := newTestLogger(t)
	path, ok := l.ExportToFile(ExportOptions{})
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestExportCompressed(t *testing.T) {
	l, _ := newTestLogger(t)
	logN(l, 2)
	want := strings.Join(l.GetAllLogsAsStrings(false), "\n") + "\n"

	path, ok := l.ExportCompressed(ExportOptions{Keep: true})
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(path, "_LOG.txt"+archive.Extension))

	data, err := archive.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestExportBeforeInitialize(t *testing.T) {
	l := New()
	defer l.Close()
	_, ok := l.ExportToFile(ExportOptions{})
	assert.False(t, ok)
}

func TestExportFailureKeepsRecords(t *testing.T) {
	l, host := newTestLogger(t)
	logN(l, 2)
	// A plain file where the directory should be makes the export fail.
	require.NoError(t, os.WriteFile(filepath.Join(host.Dir, LogsDirName), nil, 0644))

	_, ok := l.ExportToFile(ExportOptions{})
	assert.False(t, ok)
	assert.Equal(t, 2, l.GetLogsCount())
}
