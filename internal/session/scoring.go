package session

import "math"

// ScorePercent returns round(100 × solved / total), or 0 when total is 0.
func ScorePercent(solved, total int) int {
	if total <= 0 {
		return 0
	}
	score := int(math.Round(100 * float64(solved) / float64(total)))
	return min(score, 100)
}

// applyAnswer folds one new event into m. newlySolved is true when ev is
// the first correct answer for its question.
func applyAnswer(m *Metrics, ev AnswerEvent, newlySolved bool) {
	m.Answers = append(m.Answers, ev)
	m.TotalTimeMs += ev.TimeMs
	if ev.HintUsed {
		m.HintsUsed++
	}
	if ev.IsCorrect {
		m.CorrectTotal++
		if ev.AttemptNumber == 1 {
			m.CorrectFirstTry++
		}
	}
	if newlySolved {
		m.QuestionsSolved++
	}
	m.Score = ScorePercent(m.QuestionsSolved, m.TotalQuestions)
}

type position struct {
	activity, question int
}

// Tally recomputes session metrics from an ordered event list. A question
// counts toward the score once, as soon as it has a correct answer.
func Tally(events []AnswerEvent, totalQuestions int) Metrics {
	m := Metrics{TotalQuestions: totalQuestions}
	solved := make(map[position]bool)

	for _, ev := range events {
		pos := position{ev.ActivityIndex, ev.QuestionIndex}
		newlySolved := ev.IsCorrect && !solved[pos]
		if newlySolved {
			solved[pos] = true
		}
		applyAnswer(&m, ev, newlySolved)
	}
	return m
}
