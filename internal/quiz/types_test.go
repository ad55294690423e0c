package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	c, err := ParseCount("all")
	require.NoError(t, err)
	assert.True(t, c.IsAll())
	assert.Equal(t, MaxGenerateCount, c.RequestSize())
	assert.Equal(t, "all", c.String())

	c, err = ParseCount(" 12 ")
	require.NoError(t, err)
	assert.False(t, c.IsAll())
	assert.Equal(t, 12, c.N())
	assert.Equal(t, 12, c.RequestSize())

	for _, bad := range []string{"0", "-3", "ten", ""} {
		_, err := ParseCount(bad)
		assert.Error(t, err, "ParseCount(%q)", bad)
	}
}

func TestCount_SentinelNeverCollidesWithLimit(t *testing.T) {
	assert.NotEqual(t, AllAvailable, Limit(MaxGenerateCount))
	assert.False(t, Limit(MaxGenerateCount).IsAll())
}

func TestCount_Apply(t *testing.T) {
	items := makeItems(5)
	assert.Len(t, Limit(3).apply(items), 3)
	assert.Len(t, Limit(9).apply(items), 5)
	assert.Len(t, AllAvailable.apply(items), 5)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("Hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyAny, d)

	_, err = ParseDifficulty("brutal")
	assert.Error(t, err)
}

func TestSessionConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SessionConfig
		wantErr bool
	}{
		{"limit", SessionConfig{Count: Limit(5)}, false},
		{"all", SessionConfig{Count: AllAvailable}, false},
		{"zero count", SessionConfig{}, true},
		{"bad difficulty", SessionConfig{Count: Limit(5), Difficulty: "nope"}, true},
		{"negative time limit", SessionConfig{Count: Limit(5), TimeLimit: -1}, true},
		{"bloom matches", SessionConfig{Count: Limit(6), Bloom: &BloomDistribution{Remember: 3, Create: 3}}, false},
		{"bloom mismatch", SessionConfig{Count: Limit(6), Bloom: &BloomDistribution{Remember: 3}}, true},
		{"bloom negative", SessionConfig{Count: AllAvailable, Bloom: &BloomDistribution{Remember: -1, Apply: 2}}, true},
		{"bloom with all", SessionConfig{Count: AllAvailable, Bloom: &BloomDistribution{Apply: 4}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
