package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "APP__LOG.txt"+Extension)
	content := []byte(strings.Repeat("Vr/[1.0] I/Main : started\n", 200))

	require.NoError(t, WriteFile(path, content, 0644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(content)))
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDecompressGarbage(t *testing.T) {
	_, err := Decompress([]byte("not zstd"))
	assert.Error(t, err)
}
