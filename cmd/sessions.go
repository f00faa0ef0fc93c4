package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect saved sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.SessionRepo().RecentSessions(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-24s  %5s  %-4s  %6s  %5s\n",
			"ID", "Completed", "Lesson", "Score", "Pass", "First", "Hints")
		fmt.Println(strings.Repeat("─", 112))

		for _, rec := range sessions {
			pass := "✓"
			if !rec.HasPassed {
				pass = "✗"
			}
			fmt.Printf("%-36s  %-19s  %-24s  %4d%%  %-4s  %6s  %5d\n",
				rec.ID,
				rec.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(rec.LessonTitle, 24),
				rec.Score,
				pass,
				fmt.Sprintf("%d/%d", rec.CorrectFirstTry, rec.TotalQuestions),
				rec.HintsUsed,
			)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session with its full answer log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.SessionRepo().GetSession(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("session %s not found", args[0])
		}

		fmt.Printf("ID:         %s\n", rec.ID)
		fmt.Printf("Lesson:     %s\n", rec.LessonTitle)
		fmt.Printf("Started:    %s\n", rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Completed:  %s\n", rec.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Score:      %d%% (pass at %d%%, passed: %v)\n", rec.Score, rec.PassingScore, rec.HasPassed)
		fmt.Printf("First try:  %d/%d\n", rec.CorrectFirstTry, rec.TotalQuestions)
		fmt.Printf("Correct:    %d of %d answers\n", rec.CorrectTotal, len(rec.Answers))
		fmt.Printf("Hints:      %d\n", rec.HintsUsed)
		fmt.Printf("Time:       %.1fs\n", float64(rec.TotalTimeMs)/1000)

		if len(rec.Answers) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-3s  %-5s  %-16s  %-20s  %-3s  %7s  %s\n",
			"#", "Pos", "Question", "Answer", "Try", "Secs", "OK")
		fmt.Println(strings.Repeat("─", 72))
		for i, a := range rec.Answers {
			ok := "✓"
			if !a.IsCorrect {
				ok = "✗"
			}
			if a.HintUsed {
				ok += " (hint)"
			}
			fmt.Printf("%-3d  %-5s  %-16s  %-20s  %-3d  %7.1f  %s\n",
				i+1,
				fmt.Sprintf("%d.%d", a.ActivityIndex+1, a.QuestionIndex+1),
				truncate(a.QuestionID, 16),
				truncate(a.GivenAnswer, 20),
				a.AttemptNumber,
				float64(a.TimeMs)/1000,
				ok,
			)
		}
		return nil
	},
}

func init() {
	sessionsListCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
}
