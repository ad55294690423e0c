package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydeck/internal/quiz"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Study.Count)
	assert.Nil(t, cfg.API.URL)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_Values(t *testing.T) {
	path := writeConfig(t, `
[study]
count = 6
difficulty = "hard"
time-limit = 300
submit = false

[study.bloom]
remember = 3
apply = 3

[api]
url = "https://decks.example.com/api"
timeout = "10s"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Study.Count)
	assert.Equal(t, quiz.Limit(6), cfg.Study.Count.Count)
	assert.Equal(t, "hard", *cfg.Study.Difficulty)
	assert.Equal(t, 300, *cfg.Study.TimeLimit)
	assert.False(t, *cfg.Study.Submit)
	require.NotNil(t, cfg.Study.Bloom)
	assert.Equal(t, 6, cfg.Study.Bloom.Total())
	assert.Equal(t, "https://decks.example.com/api", *cfg.API.URL)
	assert.Equal(t, "10s", *cfg.API.Timeout)
}

func TestLoadConfig_CountAll(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[study]\ncount = \"all\"\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Study.Count.IsAll())
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero count", "[study]\ncount = 0\n"},
		{"bad count string", "[study]\ncount = \"lots\"\n"},
		{"bad count type", "[study]\ncount = 1.5\n"},
		{"bad difficulty", "[study]\ndifficulty = \"brutal\"\n"},
		{"negative time limit", "[study]\ntime-limit = -5\n"},
		{"unknown key", "[study]\ncolour = \"blue\"\n"},
		{"malformed", "[study\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultTemplate_Parses(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, DefaultTemplate()))
	require.NoError(t, err)
	assert.Nil(t, cfg.Study.Count)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("STUDYDECK_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "studydeck", "config.toml"), DefaultConfigPath())

	t.Setenv("STUDYDECK_CONFIG", "/etc/studydeck.toml")
	assert.Equal(t, "/etc/studydeck.toml", DefaultConfigPath())
}

func TestStudySettings_ApplyFileRespectsFlags(t *testing.T) {
	count := CountValue{quiz.Limit(20)}
	diff := "easy"
	limit := 120
	fc := StudyConfig{Count: &count, Difficulty: &diff, TimeLimit: &limit}

	s := StudySettings{Count: "5", Difficulty: "hard"}
	s.ApplyFile(fc, func(name string) bool { return name == "difficulty" })

	assert.Equal(t, "20", s.Count)
	assert.Equal(t, "hard", s.Difficulty)
	assert.Equal(t, 120, s.TimeLimit)
}

func TestStudySettings_SessionConfig(t *testing.T) {
	cfg, err := StudySettings{Count: "all", Difficulty: "mixed", TimeLimit: 90}.SessionConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Count.IsAll())
	assert.Equal(t, quiz.DifficultyMixed, cfg.Difficulty)
	assert.Equal(t, 90*time.Second, cfg.TimeLimit)

	_, err = StudySettings{Count: "abc"}.SessionConfig()
	assert.Error(t, err)

	_, err = StudySettings{Count: "4", Bloom: &quiz.BloomDistribution{Remember: 3}}.SessionConfig()
	assert.Error(t, err)

	_, err = StudySettings{Count: "4", TimeLimit: -1}.SessionConfig()
	assert.Error(t, err)
}

type envSample struct {
	Name    string        `env:"STUDYDECK_TEST_NAME" envDefault:"deck"`
	Timeout time.Duration `env:"STUDYDECK_TEST_TIMEOUT" envDefault:"5s"`
}

func TestParseEnv(t *testing.T) {
	var s envSample
	require.NoError(t, ParseEnv(&s))
	assert.Equal(t, "deck", s.Name)
	assert.Equal(t, 5*time.Second, s.Timeout)

	t.Setenv("STUDYDECK_TEST_TIMEOUT", "not-a-duration")
	assert.Error(t, ParseEnv(&envSample{}))
}
