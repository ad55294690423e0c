package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/studydeck/internal/llm"
	"github.com/abhisek/studydeck/internal/store"
	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:     "requests",
	Aliases: []string{"llm"},
	Short:   "Inspect logged content service and LLM requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		source, _ := cmd.Flags().GetString("source")
		if source != "" && source != store.SourceGateway && source != store.SourceLLM {
			return fmt.Errorf("unknown source %q (want %s or %s)", source, store.SourceGateway, store.SourceLLM)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().RecentRequests(cmd.Context(), store.QueryOpts{Limit: limit, Source: source})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No requests found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-7s  %-14s  %-28s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Source", "Operation", "Target", "Status", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 104))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			status := "-"
			if e.StatusCode != 0 {
				status = strconv.Itoa(e.StatusCode)
			}
			fmt.Printf("%-6d  %-19s  %-7s  %-14s  %-28s  %-6s  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Source,
				truncate(e.Operation, 14),
				truncate(e.Target, 28),
				status,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var requestsViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "View the full request and response of one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", args[0], err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EventRepo().Request(cmd.Context(), seq)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", seq)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("Sequence:  %d\n", e.Sequence)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Source:    %s\n", e.Source)
		fmt.Printf("Operation: %s\n", e.Operation)
		fmt.Printf("Target:    %s\n", e.Target)
		if e.Source == store.SourceLLM {
			fmt.Printf("Model:     %s\n", e.Model)
			fmt.Printf("Purpose:   %s\n", e.Purpose)
			fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		}
		if e.StatusCode != 0 {
			fmt.Printf("Status:    %d\n", e.StatusCode)
		}
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			fmt.Println()
			fmt.Println(sep)
			fmt.Println(part.title)
			fmt.Println(sep)
			if part.body != "" {
				fmt.Println(part.body)
			} else {
				fmt.Println("(not captured)")
			}
		}
		return nil
	},
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show LLM token usage and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		usage, err := st.EventRepo().UsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by Model (estimated cost in USD)")
		fmt.Println(strings.Repeat("─", 88))
		fmt.Printf("%-28s  %6s  %6s  %10s  %10s  %8s  %10s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
		fmt.Println(strings.Repeat("─", 88))

		var totalCost float64
		var totalIn, totalOut, totalCalls int
		var unknown []string
		for _, mu := range usage {
			var avg int64
			if mu.Requests > 0 {
				avg = mu.LatencyMs / int64(mu.Requests)
			}
			costStr := "?"
			if cost, ok := llm.LookupCost(mu.Model); ok {
				c := cost.Cost(mu.InputTokens, mu.OutputTokens)
				totalCost += c
				costStr = formatCost(c)
			} else {
				unknown = append(unknown, mu.Model)
			}
			fmt.Printf("%-28s  %6d  %6d  %10d  %10d  %8d  %10s\n",
				truncate(mu.Model, 28), mu.Requests, mu.Failures, mu.InputTokens, mu.OutputTokens, avg, costStr)
			totalCalls += mu.Requests
			totalIn += mu.InputTokens
			totalOut += mu.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 88))
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-28s  %6d  %6s  %10d  %10d  %8s  %10s\n",
			label, totalCalls, "", totalIn, totalOut, "", formatCost(totalCost))

		if len(unknown) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	requestsListCmd.Flags().StringP("source", "s", "", "Filter by source (gateway or llm)")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsViewCmd)
	requestsCmd.AddCommand(requestsStatsCmd)
}
