package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pinlog "github.com/AdityaBavadekar/PinLog"
	"github.com/AdityaBavadekar/PinLog/internal/archive"
)

func init() {
	color.NoColor = true
}

// isolate points HOME and the working directory at a temp dir so no user
// config is picked up, and returns a database path inside it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return filepath.Join(dir, "logs.db")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSampleListTags(t *testing.T) {
	db := isolate(t)

	out, err := run(t, "--db", db, "sample", "-n", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 8 records")

	out, err = run(t, "--db", db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Network")
	assert.Contains(t, out, "Database")
	assert.Contains(t, out, "TOTAL")

	out, err = run(t, "--db", db, "list", "--level", "E")
	require.NoError(t, err)
	assert.Contains(t, out, "Database")
	assert.NotContains(t, out, "Network")

	out, err = run(t, "--db", db, "list", "-q", "tag:Network AND msg~timeout")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout")
	assert.NotContains(t, out, "request 0 sent")

	out, err = run(t, "--db", db, "tags")
	require.NoError(t, err)
	assert.Equal(t, "Database\nNetwork\nSample\n", out)

	_, err = run(t, "--db", db, "list", "--sort", "tag")
	assert.Error(t, err)
	_, err = run(t, "--db", db, "list", "--consume", "--tag", "Network")
	assert.Error(t, err)
}

func TestListConsume(t *testing.T) {
	db := isolate(t)
	_, err := run(t, "--db", db, "sample", "-n", "4")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "list", "--consume")
	require.NoError(t, err)
	assert.Contains(t, out, "Network")

	out, err = run(t, "--db", db, "tags")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStats(t *testing.T) {
	db := isolate(t)
	_, err := run(t, "--db", db, "sample", "-n", "8")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "stats", "--interval", "1d")
	require.NoError(t, err)
	assert.Contains(t, out, "Records")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "BUCKET")

	_, err = run(t, "--db", db, "stats", "--interval", "soon")
	assert.Error(t, err)
}

func TestExportPurgeClear(t *testing.T) {
	db := isolate(t)
	_, err := run(t, "--db", db, "sample", "-n", "8")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "export", "--keep", "--trailer", "END")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout")
	assert.True(t, strings.HasSuffix(string(data), "END\n"))

	out, err = run(t, "--db", db, "export", "--keep", "--zstd", "-o", "packed.txt")
	require.NoError(t, err)
	zpath := strings.TrimSpace(out)
	assert.Equal(t, "packed.txt"+archive.Extension, filepath.Base(zpath))
	plain, err := archive.ReadFile(zpath)
	require.NoError(t, err)
	assert.Contains(t, string(plain), "timeout")

	out, err = run(t, "--db", db, "report", "list")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Base(path))
	assert.Contains(t, out, "packed.txt.zst")

	out, err = run(t, "--db", db, "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 0 records older than 7 days")

	out, err = run(t, "--db", db, "purge", "--days", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 8 records")

	_, err = run(t, "--db", db, "sample", "-n", "3")
	require.NoError(t, err)
	_, err = run(t, "--db", db, "clear")
	assert.Error(t, err)
	out, err = run(t, "--db", db, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 3 records")
}

func TestReportShow(t *testing.T) {
	isolate(t)
	host := &pinlog.StaticHost{Name: "Demo", Package: "com.example.demo", Version: "2.0", Code: "20", Dir: t.TempDir()}
	l := pinlog.New()
	require.True(t, l.Initialize(host, pinlog.WithConsole(io.Discard)))
	defer l.Close()
	l.CustomData().Put("user", "u-7")

	r, err := l.CreateCrashReport("worker", errors.New("kaboom"), false)
	require.NoError(t, err)
	plainPath, err := l.WriteCrashReport(r, "")
	require.NoError(t, err)

	out, err := run(t, "report", "show", plainPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Demo")
	assert.Contains(t, out, "kaboom")
	assert.Contains(t, out, "CUSTOM_DATA.user")
	assert.NotContains(t, out, "missing keys")

	sealedPath, err := l.WriteCrashReport(r, "pw")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(sealedPath, ".sealed"))

	_, err = run(t, "report", "show", sealedPath)
	assert.Error(t, err)
	out, err = run(t, "report", "show", sealedPath, "-p", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "kaboom")
	_, err = run(t, "report", "show", sealedPath, "-p", "wrong")
	assert.Error(t, err)
}

func TestFollower(t *testing.T) {
	host := &pinlog.StaticHost{Name: "Demo", Dir: t.TempDir()}
	l := pinlog.New()
	require.True(t, l.Initialize(host, pinlog.WithConsole(io.Discard)))
	defer l.Close()

	l.Info("Net", "old")
	l.Sync()

	f, err := newFollower(l, "tag:Net", false)
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.Equal(t, 0, f.flush(&buf))

	l.Warn("Net", "fresh")
	l.Info("Ui", "ignored")
	l.Sync()
	assert.Equal(t, 1, f.flush(&buf))
	assert.Contains(t, buf.String(), "W/Net")
	assert.NotContains(t, buf.String(), "ignored")
	assert.Equal(t, 0, f.flush(&buf))

	all, err := newFollower(l, "", true)
	require.NoError(t, err)
	assert.Equal(t, 3, all.flush(io.Discard))

	_, err = newFollower(l, "(tag:Net", false)
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	d, err := parseInterval("2d")
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)

	d, err = parseInterval("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	for _, bad := range []string{"", "0d", "-1h", "xd"} {
		_, err := parseInterval(bad)
		assert.Error(t, err, bad)
	}
}
