package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/studydeck/internal/ui/layout"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show completed sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.HistoryRepo()

		if len(args) == 1 {
			rec, err := repo.Session(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			if rec == nil {
				return fmt.Errorf("session %s not found", args[0])
			}

			fmt.Printf("Session:   %s\n", rec.ID)
			fmt.Printf("Document:  %s\n", rec.DeckID)
			fmt.Printf("Mode:      %s\n", rec.Mode)
			fmt.Printf("Completed: %s\n", rec.CompletedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Score:     %d%% (%d/%d)\n", rec.Score, rec.Correct, rec.Total)
			fmt.Printf("Time:      %s\n", layout.FormatDuration(rec.TimeTakenMs))
			fmt.Printf("Submitted: %s\n", submitStatus(rec.Submitted, rec.SubmitError))
			fmt.Println()
			for _, o := range rec.Outcomes {
				mark := "✓"
				if !o.IsCorrect {
					mark = "✗"
				}
				fmt.Printf("%s %2d. %s\n", mark, o.Position+1, o.Prompt)
				fmt.Printf("       answer: %s\n", o.Answer)
				if o.Response != "" {
					fmt.Printf("       chosen: %s\n", o.Response)
				}
			}
			return nil
		}

		sessions, err := repo.RecentSessions(ctx, limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-24s  %-6s  %6s  %6s  %s\n",
			"ID", "Completed", "Document", "Mode", "Score", "Time", "Submitted")
		fmt.Println(strings.Repeat("─", 116))
		for _, s := range sessions {
			fmt.Printf("%-36s  %-16s  %-24s  %-6s  %5d%%  %6s  %s\n",
				s.ID,
				s.CompletedAt.Local().Format("2006-01-02 15:04"),
				truncate(s.DeckID, 24),
				s.Mode,
				s.Score,
				layout.FormatDuration(s.TimeTakenMs),
				submitStatus(s.Submitted, s.SubmitError),
			)
		}
		return nil
	},
}

func submitStatus(submitted bool, submitErr string) string {
	switch {
	case submitted:
		return "yes"
	case submitErr != "":
		return "failed"
	}
	return "no"
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
