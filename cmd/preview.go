package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview <lesson-file>",
	Short: "Walk through a lesson on plain stdin (no database)",
	Long: `Answer a lesson line by line without the full-screen UI.

This is a stateless authoring tool: nothing is saved. Type ? for a hint.
After a wrong answer, type r to try again or press Enter to move on.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := activity.LoadFile(args[0])
		if err != nil {
			return err
		}
		return runPreview(cfg, os.Stdin, os.Stdout)
	},
}

func runPreview(cfg *activity.LessonConfig, in io.Reader, out io.Writer) error {
	var done *session.Completion
	sess := session.New(cfg, session.Options{
		OnComplete: func(c session.Completion) { done = &c },
	})
	total := sess.Engine().TotalQuestions()
	scanner := bufio.NewScanner(in)

	if cfg.Title != "" {
		fmt.Fprintf(out, "%s\n\n", cfg.Title)
	}

	for done == nil {
		act, qi := sess.Current()
		p := activity.PromptFor(act, qi)

		fmt.Fprintf(out, "── Question %d/%d (%s) ──\n", sess.Position(), total, p.Kind)
		fmt.Fprintln(out, p.Text)
		for j, c := range p.Choices {
			fmt.Fprintf(out, "  %d) %s\n", j+1, c)
		}

		answer, ok := readAnswer(scanner, out, sess, p)
		if !ok {
			fmt.Fprintln(out, "\n(input closed)")
			return nil
		}

		correct := activity.CheckAnswer(act, qi, answer)
		if err := sess.RecordAnswer(answer, correct); err != nil {
			return err
		}
		if correct {
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprint(out, "\033[31m✗ Not quite.\033[0m [r] retry, Enter to continue: ")
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return nil
			}
			if strings.EqualFold(strings.TrimSpace(scanner.Text()), "r") {
				if err := sess.DismissFeedback(); err != nil {
					return err
				}
				fmt.Fprintln(out)
				continue
			}
		}
		fmt.Fprintln(out)

		if err := sess.NextQuestion(); err != nil {
			return err
		}
	}

	sum := session.BuildSummary(cfg, *done)
	verdict := "not passed"
	if sum.HasPassed {
		verdict = "passed"
	}
	fmt.Fprintf(out, "── Score %d%% (%s, pass at %d%%): %d/%d right first try ──\n",
		sum.Score, verdict, sum.PassingScore, sum.CorrectFirstTry, sum.TotalQuestions)
	return nil
}

// readAnswer prompts until a non-empty answer arrives. A "?" shows the hint
// and marks the question as hinted.
func readAnswer(scanner *bufio.Scanner, out io.Writer, sess *session.Session, p activity.Prompt) (string, bool) {
	for {
		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			return "", false
		}
		answer := strings.TrimSpace(scanner.Text())
		switch answer {
		case "":
			continue
		case "?":
			sess.UseHint()
			if p.Hint != "" {
				fmt.Fprintf(out, "Hint: %s\n", p.Hint)
			} else {
				fmt.Fprintln(out, "No hint for this one.")
			}
			continue
		}
		return answer, true
	}
}
