package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullReport() Report {
	r := Report{}
	for _, k := range RequiredKeys {
		r[k] = k + "-value"
	}
	r[KeySDKInt] = 34
	r[KeyDebug] = true
	r[KeyCustomData] = map[string]any{"user": "alice", "attempt": 3}
	r[KeyBuildConfig] = map[string]any{"FLAVOR": "beta"}
	return r
}

func TestEncodeParse(t *testing.T) {
	data, err := fullReport().Encode()
	require.NoError(t, err)

	s, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, s.Missing)
	assert.Equal(t, "APP_NAME-value", s.AppName)
	assert.Equal(t, "THREAD_NAME-value", s.ThreadName)
	assert.Equal(t, 34, s.SDKInt)
	assert.True(t, s.Debug)
	assert.Equal(t, map[string]string{"user": "alice", "attempt": "3"}, s.CustomData)
	assert.Equal(t, "beta", s.BuildConfig["FLAVOR"])
	assert.Equal(t, []string{"attempt", "user"}, SortedKeys(s.CustomData))
}

func TestParseReportsMissingKeys(t *testing.T) {
	s, err := Parse([]byte(`{"APP_NAME":"Demo","SDK_INT":1}`))
	require.NoError(t, err)
	assert.Equal(t, "Demo", s.AppName)
	assert.Contains(t, s.Missing, KeyStacktrace)
	assert.NotContains(t, s.Missing, KeyAppName)
}

func TestParseRejectsNonObject(t *testing.T) {
	_, err := Parse([]byte(`[1,2]`))
	assert.Error(t, err)
	_, err = Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	var sb strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))

	got, err := Tail(path, 3)
	require.NoError(t, err)
	assert.Equal(t, "line 8\nline 9\nline 10", got)

	all, err := Tail(path, 50)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(all, "line 1\n"))

	_, err = Tail(filepath.Join(t.TempDir(), "missing"), 3)
	assert.Error(t, err)
}
