package session

import (
	"time"

	"github.com/abhisek/lessonkit/internal/activity"
)

// ActivityResult tracks performance on one activity within a session.
type ActivityResult struct {
	Index           int
	Kind            activity.Kind
	Questions       int
	Attempts        int
	CorrectFirstTry int
	Solved          int
	HintsUsed       int
}

// Summary holds the data displayed when a session ends.
type Summary struct {
	Duration        time.Duration
	TotalQuestions  int
	Answered        int
	CorrectTotal    int
	CorrectFirstTry int
	Accuracy        float64
	Score           int
	PassingScore    int
	HasPassed       bool
	ActivityResults []ActivityResult
}

// BuildSummary creates a Summary from a lesson config and a completion.
func BuildSummary(cfg *activity.LessonConfig, c Completion) *Summary {
	results := make([]ActivityResult, len(cfg.Activities))
	for i, a := range cfg.Activities {
		results[i] = ActivityResult{
			Index:     i,
			Kind:      a.Kind(),
			Questions: activity.QuestionsInActivity(a),
		}
	}

	solved := make(map[position]bool)
	for _, ev := range c.Metrics.Answers {
		if ev.ActivityIndex < 0 || ev.ActivityIndex >= len(results) {
			continue
		}
		r := &results[ev.ActivityIndex]
		r.Attempts++
		if ev.HintUsed {
			r.HintsUsed++
		}
		if !ev.IsCorrect {
			continue
		}
		if ev.AttemptNumber == 1 {
			r.CorrectFirstTry++
		}
		pos := position{ev.ActivityIndex, ev.QuestionIndex}
		if !solved[pos] {
			solved[pos] = true
			r.Solved++
		}
	}

	var accuracy float64
	if n := len(c.Metrics.Answers); n > 0 {
		accuracy = float64(c.Metrics.CorrectTotal) / float64(n)
	}

	var duration time.Duration
	if !c.StartedAt.IsZero() && c.CompletedAt.After(c.StartedAt) {
		duration = c.CompletedAt.Sub(c.StartedAt)
	}

	return &Summary{
		Duration:        duration,
		TotalQuestions:  c.Metrics.TotalQuestions,
		Answered:        len(c.Metrics.Answers),
		CorrectTotal:    c.Metrics.CorrectTotal,
		CorrectFirstTry: c.Metrics.CorrectFirstTry,
		Accuracy:        accuracy,
		Score:           c.Metrics.Score,
		PassingScore:    c.PassingScore,
		HasPassed:       c.HasPassed,
		ActivityResults: results,
	}
}
