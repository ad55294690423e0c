package quiz

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxGenerateCount is the item count requested from a source when the
// learner asks for every available item.
const MaxGenerateCount = 50

// StudyItem is one prompt/answer unit derived from a source document.
// Items are immutable once received from an item source.
type StudyItem struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`

	// Difficulty is the source's own rating, empty when unknown.
	Difficulty Difficulty `json:"difficulty,omitempty"`

	// Options is populated for structured-choice items only. One option
	// equals Answer.
	Options []string `json:"options,omitempty"`
}

// IsChoice reports whether the item is answered by picking an option.
func (it StudyItem) IsChoice() bool {
	return len(it.Options) > 0
}

// Difficulty filters generated items.
type Difficulty string

const (
	DifficultyAny    Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

// ParseDifficulty accepts the difficulty names used on the command line
// and in the config file.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyAny, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium, hard or mixed)", s)
}

// Count is the requested session size: either a positive limit or every
// item the source returns.
type Count struct {
	n   int
	all bool
}

// AllAvailable requests every item the source is willing to return.
var AllAvailable = Count{all: true}

// Limit requests at most n items.
func Limit(n int) Count {
	return Count{n: n}
}

// ParseCount parses "all" or a positive integer.
func ParseCount(s string) (Count, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return AllAvailable, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Count{}, fmt.Errorf("invalid count %q: want a number or \"all\"", s)
	}
	c := Limit(n)
	if err := c.Validate(); err != nil {
		return Count{}, err
	}
	return c, nil
}

// IsAll reports whether c is the all-available sentinel.
func (c Count) IsAll() bool { return c.all }

// N returns the explicit limit; zero for AllAvailable.
func (c Count) N() int { return c.n }

// RequestSize is the count sent to the item source.
func (c Count) RequestSize() int {
	if c.all {
		return MaxGenerateCount
	}
	return c.n
}

// Validate rejects the zero Count and non-positive limits.
func (c Count) Validate() error {
	if c.all {
		return nil
	}
	if c.n <= 0 {
		return fmt.Errorf("count must be positive, got %d", c.n)
	}
	return nil
}

func (c Count) String() string {
	if c.all {
		return "all"
	}
	return strconv.Itoa(c.n)
}

// apply truncates items to the requested size. The source's count is
// authoritative when it returned fewer.
func (c Count) apply(items []StudyItem) []StudyItem {
	if c.all || len(items) <= c.n {
		return items
	}
	return items[:c.n]
}

// BloomDistribution maps item counts onto the six cognitive levels.
// It is forwarded to generation and never interpreted by the session.
type BloomDistribution struct {
	Remember   int `json:"remember" toml:"remember"`
	Understand int `json:"understand" toml:"understand"`
	Apply      int `json:"apply" toml:"apply"`
	Analyze    int `json:"analyze" toml:"analyze"`
	Evaluate   int `json:"evaluate" toml:"evaluate"`
	Create     int `json:"create" toml:"create"`
}

// Total returns the sum of all buckets.
func (b BloomDistribution) Total() int {
	return b.Remember + b.Understand + b.Apply + b.Analyze + b.Evaluate + b.Create
}

// Validate checks that no bucket is negative and the buckets add up to total.
func (b BloomDistribution) Validate(total int) error {
	for _, v := range []int{b.Remember, b.Understand, b.Apply, b.Analyze, b.Evaluate, b.Create} {
		if v < 0 {
			return fmt.Errorf("bloom distribution has a negative bucket")
		}
	}
	if got := b.Total(); got != total {
		return fmt.Errorf("bloom distribution sums to %d, want %d", got, total)
	}
	return nil
}

// SessionConfig holds the learner's choices for one session. It is read
// once to build the generation request.
type SessionConfig struct {
	Count      Count
	Difficulty Difficulty

	// TimeLimit is the optional session limit. Zero means no limit.
	// Enforcement is up to the caller.
	TimeLimit time.Duration

	// Bloom is optional; when set its total must match Count for explicit
	// limits.
	Bloom *BloomDistribution
}

// Validate checks the config before any request is made.
func (c SessionConfig) Validate() error {
	if err := c.Count.Validate(); err != nil {
		return err
	}
	if _, err := ParseDifficulty(string(c.Difficulty)); err != nil {
		return err
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative")
	}
	if c.Bloom != nil {
		total := c.Bloom.Total()
		if !c.Count.IsAll() {
			total = c.Count.N()
		}
		if err := c.Bloom.Validate(total); err != nil {
			return err
		}
	}
	return nil
}

// GenerateOptions is the request an ItemSource receives.
type GenerateOptions struct {
	Count      int
	Difficulty Difficulty
	BloomLevel *BloomDistribution
}

// Session is one bounded, ordered run of items.
type Session struct {
	ID           string
	DeckID       string
	Mode         Mode
	Items        []StudyItem
	CurrentIndex int
	Revealed     bool
	StartedAt    time.Time
	Config       SessionConfig
}

// Current returns the item at CurrentIndex.
func (s *Session) Current() StudyItem {
	return s.Items[s.CurrentIndex]
}

// Remaining returns how many items follow the current one.
func (s *Session) Remaining() int {
	return len(s.Items) - s.CurrentIndex - 1
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = append([]StudyItem(nil), s.Items...)
	return &c
}

// ItemOutcome records how the learner did on one presented item.
type ItemOutcome struct {
	Item StudyItem `json:"item"`

	// Response is the chosen option for structured choice, empty for
	// self-assessed recall.
	Response    string `json:"response,omitempty"`
	Revealed    bool   `json:"revealed"`
	IsCorrect   bool   `json:"is_correct"`
	TimeTakenMs int64  `json:"time_taken_ms"`
}

// SessionResult is the immutable summary of a completed session.
type SessionResult struct {
	TotalQuestions   int           `json:"total_questions"`
	CorrectAnswers   int           `json:"correct_answers"`
	IncorrectAnswers int           `json:"incorrect_answers"`
	Score            int           `json:"score"`
	TimeTakenMs      int64         `json:"time_taken_ms"`
	Results          []ItemOutcome `json:"results"`
}

func (r *SessionResult) clone() *SessionResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Results = append([]ItemOutcome(nil), r.Results...)
	return &c
}
