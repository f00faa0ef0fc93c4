package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lessonkit/internal/activity"
)

var validateCmd = &cobra.Command{
	Use:   "validate <lesson-file>...",
	Short: "Check lesson configs without playing them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]validateResult, len(args))

		var g errgroup.Group
		g.SetLimit(8)
		for i, path := range args {
			g.Go(func() error {
				results[i] = validateFile(path)
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for _, r := range results {
			if r.err != nil {
				failed++
				fmt.Printf("✗ %s: %v\n", r.path, r.err)
				continue
			}
			fmt.Printf("✓ %s: %d activities, %d questions, pass at %d%%\n",
				r.path, r.activities, r.questions, r.passingScore)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d lesson files are invalid", failed, len(args))
		}
		return nil
	},
}

type validateResult struct {
	path         string
	activities   int
	questions    int
	passingScore int
	err          error
}

func validateFile(path string) validateResult {
	cfg, err := activity.LoadFile(path)
	if err != nil {
		return validateResult{path: path, err: err}
	}
	return validateResult{
		path:         path,
		activities:   len(cfg.Activities),
		questions:    activity.CountTotalQuestions(cfg.Activities),
		passingScore: cfg.PassingScore,
	}
}
