package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelCodes(t *testing.T) {
	tests := []struct {
		level Level
		rank  int
		short string
		name  string
	}{
		{LevelError, 0, "E", "ERROR"},
		{LevelWarn, 1, "W", "WARN"},
		{LevelInfo, 2, "I", "INFO"},
		{LevelDebug, 3, "D", "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.level.Rank())
			assert.Equal(t, tt.short, tt.level.Short())
			assert.Equal(t, tt.name, tt.level.String())
			assert.Equal(t, tt.level, LevelFromRank(tt.rank))
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, in := range []string{"warn", "W", "1", " Warning "} {
		l, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, LevelWarn, l)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelFromRankUnknown(t *testing.T) {
	assert.Equal(t, LevelDebug, LevelFromRank(42))
	assert.False(t, Level(-1).Valid())
}
