package cmd

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/abhisek/studydeck/internal/app"
	"github.com/abhisek/studydeck/internal/config"
	"github.com/abhisek/studydeck/internal/gateway"
	"github.com/abhisek/studydeck/internal/itemgen"
	"github.com/abhisek/studydeck/internal/llm"
	"github.com/abhisek/studydeck/internal/quiz"
	"github.com/abhisek/studydeck/internal/screen"
	"github.com/spf13/cobra"
)

// studyTimeout bounds one generation request and one submission batch.
const studyTimeout = 3 * time.Minute

var studyCmd = &cobra.Command{
	Use:   "study [document-id]",
	Short: "Start a study session",
	Long: "Start an interactive session over a document's study items.\n\n" +
		"Items come from the content service by default. --file generates them\n" +
		"from a local text file with the configured LLM provider instead, and\n" +
		"--mock uses a built-in sample deck.",
	Args: cobra.MaximumNArgs(1),
	RunE: runStudy,
}

func init() {
	f := studyCmd.Flags()
	f.StringP("count", "n", "10", `Items per session, or "all"`)
	f.StringP("difficulty", "d", "", "easy, medium, hard or mixed")
	f.Int("time-limit", 0, "Session time limit in seconds (0 for none)")
	f.Bool("review", false, "Start a spaced-repetition review session right away")
	f.Int("review-size", 10, "Items per review session")
	f.Bool("start", false, "Start a quiz right away instead of showing setup")
	f.String("file", "", "Generate items from a local text file")
	f.Bool("mock", false, "Use the built-in sample deck")
	f.Bool("no-submit", false, "Do not report outcomes to the content service")
}

func runStudy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	file, _ := flags.GetString("file")
	mock, _ := flags.GetBool("mock")
	review, _ := flags.GetBool("review")
	start, _ := flags.GetBool("start")
	noSubmit, _ := flags.GetBool("no-submit")
	reviewSize, _ := flags.GetInt("review-size")

	var deckID string
	switch {
	case len(args) == 1:
		deckID = args[0]
	case file != "":
		deckID = file
	case mock:
		deckID = "sample"
	default:
		return errors.New("a document ID is required (or use --file / --mock)")
	}
	if file != "" && mock {
		return errors.New("--file and --mock cannot be combined")
	}
	if file != "" && review {
		return errors.New("review sessions need the content service; drop --file")
	}

	fc, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}

	var settings config.StudySettings
	settings.Count, _ = flags.GetString("count")
	settings.Difficulty, _ = flags.GetString("difficulty")
	settings.TimeLimit, _ = flags.GetInt("time-limit")
	settings.ApplyFile(fc.Study, flags.Changed)
	sessCfg, err := settings.SessionConfig()
	if err != nil {
		return err
	}
	if fc.Study.Submit != nil && !*fc.Study.Submit && !flags.Changed("no-submit") {
		noSubmit = true
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	deps := screen.Deps{
		DeckID:  deckID,
		Config:  sessCfg,
		History: st.HistoryRepo(),
		Timeout: studyTimeout,
	}

	var (
		source   quiz.ItemSource
		opts     []quiz.Option
		rejected rejectLog
	)
	switch {
	case mock:
		mg := gateway.NewMockGateway()
		mg.Fallback = gateway.SampleItems()
		gw := gateway.WithLogging(mg, st.EventRepo())
		source = gw
		opts = append(opts, quiz.WithReviewSource(gw))
		deps.ReviewSize = reviewSize
		deps.Sink = gw

	case file != "":
		llmCfg, err := llm.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("read LLM config: %w", err)
		}
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		gen := itemgen.New(provider, itemgen.DefaultConfig())
		gen.OnReject = rejected.add
		source = gen

	default:
		gw, err := newGateway(fc, st.EventRepo())
		if err != nil {
			return err
		}
		source = gw
		opts = append(opts, quiz.WithReviewSource(gw))
		deps.ReviewSize = reviewSize
		if !noSubmit {
			deps.Sink = gw
		}
	}

	deps.Machine = quiz.NewMachine(source, opts...)

	err = app.Run(deps, app.Options{AutoStart: start || review, Review: review})
	rejected.report()
	return err
}

// rejectLog collects generated cards dropped by validation so they can be
// reported once the TUI has released the terminal.
type rejectLog struct {
	mu    sync.Mutex
	items []itemgen.RejectedItem
}

func (r *rejectLog) add(it itemgen.RejectedItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, it)
}

func (r *rejectLog) report() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "Warning: %d generated card(s) were dropped:\n", len(r.items))
	for _, it := range r.items {
		fmt.Fprintf(os.Stderr, "  - %s: %s\n", truncate(it.Prompt, 60), it.Reason)
	}
}
