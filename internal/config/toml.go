// Package config provides the TOML config file, XDG paths and env parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/studydeck/internal/quiz"
)

// FileConfig represents the TOML configuration file. Every value is
// optional; CLI flags override it.
type FileConfig struct {
	Study StudyConfig `toml:"study"`
	API   APIConfig   `toml:"api"`
}

// StudyConfig holds session defaults.
type StudyConfig struct {
	Count      *CountValue             `toml:"count"`
	Difficulty *string                 `toml:"difficulty"`
	TimeLimit  *int                    `toml:"time-limit"`
	Submit     *bool                   `toml:"submit"`
	Bloom      *quiz.BloomDistribution `toml:"bloom"`
}

// APIConfig holds content service settings. Environment variables take
// precedence over these.
type APIConfig struct {
	URL     *string `toml:"url"`
	Timeout *string `toml:"timeout"`
}

// CountValue accepts either `count = 10` or `count = "all"`.
type CountValue struct {
	quiz.Count
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *CountValue) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		n := quiz.Limit(int(x))
		if err := n.Validate(); err != nil {
			return err
		}
		c.Count = n
		return nil
	case string:
		n, err := quiz.ParseCount(x)
		if err != nil {
			return err
		}
		c.Count = n
		return nil
	}
	return fmt.Errorf("count must be a number or \"all\", got %T", v)
}

// LoadConfig reads a TOML config from the given path. Missing file is not
// an error. Unknown keys are.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that the TOML decoder cannot.
func (c FileConfig) Validate() error {
	if c.Study.Difficulty != nil {
		if _, err := quiz.ParseDifficulty(*c.Study.Difficulty); err != nil {
			return err
		}
	}
	if c.Study.TimeLimit != nil && *c.Study.TimeLimit < 0 {
		return fmt.Errorf("time-limit must not be negative")
	}
	return nil
}

// DefaultTemplate is written by `studydeck config init`.
func DefaultTemplate() string {
	return `# studydeck configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# count = 10              # Items per session, or "all"
# difficulty = "medium"   # easy, medium, hard or mixed
# time-limit = 0          # Session limit in seconds, 0 for none
# submit = true           # Report outcomes to the content service

# [study.bloom]           # Must add up to count
# remember = 4
# understand = 3
# apply = 3

[api]
# url = "` + DefaultAPIURL + `"
# timeout = "30s"
`
}

// DefaultAPIURL is the content service used when nothing else is set.
const DefaultAPIURL = "http://localhost:8000/api"

// StudySettings are the resolved session flags before parsing.
type StudySettings struct {
	Count      string
	Difficulty string
	TimeLimit  int // seconds
	Bloom      *quiz.BloomDistribution
}

// ApplyFile fills settings the caller has not set explicitly. changed
// reports whether a flag with the given name was set on the command line.
func (s *StudySettings) ApplyFile(fc StudyConfig, changed func(name string) bool) {
	if fc.Count != nil && !changed("count") {
		s.Count = fc.Count.String()
	}
	if fc.Difficulty != nil && !changed("difficulty") {
		s.Difficulty = *fc.Difficulty
	}
	if fc.TimeLimit != nil && !changed("time-limit") {
		s.TimeLimit = *fc.TimeLimit
	}
	if fc.Bloom != nil && s.Bloom == nil {
		b := *fc.Bloom
		s.Bloom = &b
	}
}

// SessionConfig parses and validates the settings.
func (s StudySettings) SessionConfig() (quiz.SessionConfig, error) {
	count, err := quiz.ParseCount(s.Count)
	if err != nil {
		return quiz.SessionConfig{}, err
	}
	diff, err := quiz.ParseDifficulty(s.Difficulty)
	if err != nil {
		return quiz.SessionConfig{}, err
	}
	if s.TimeLimit < 0 {
		return quiz.SessionConfig{}, fmt.Errorf("time limit must not be negative, got %d", s.TimeLimit)
	}
	cfg := quiz.SessionConfig{
		Count:      count,
		Difficulty: diff,
		TimeLimit:  time.Duration(s.TimeLimit) * time.Second,
		Bloom:      s.Bloom,
	}
	if err := cfg.Validate(); err != nil {
		return quiz.SessionConfig{}, err
	}
	return cfg, nil
}
