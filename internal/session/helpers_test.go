package session

import (
	"time"

	"github.com/abhisek/lessonkit/internal/activity"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// scenarioConfig is two multiple-choice questions followed by one counting
// question.
func scenarioConfig() *activity.LessonConfig {
	return &activity.LessonConfig{
		PassingScore: activity.DefaultPassingScore,
		Activities: []activity.Activity{
			activity.MultipleChoice{Questions: []activity.MultipleChoiceQuestion{
				{ID: "q1", Prompt: "1 + 1", Options: []string{"1", "2"}, CorrectIndex: 1},
				{ID: "q2", Prompt: "2 + 2", Options: []string{"4", "5"}, CorrectIndex: 0},
			}},
			activity.Counting{Questions: []activity.CountingQuestion{
				{ID: "q3", Object: "star", Count: 3},
			}},
		},
	}
}

// mixedConfig covers list activities around an atomic matching activity.
func mixedConfig() *activity.LessonConfig {
	return &activity.LessonConfig{
		PassingScore: 80,
		Activities: []activity.Activity{
			activity.FlashCard{Cards: []activity.Card{
				{ID: "f1", Front: "3+3", Back: "6"},
				{ID: "f2", Front: "4+4", Back: "8"},
			}},
			activity.MatchingPairs{Pairs: []activity.MatchingPair{
				{ID: "p1", Left: "1", Right: "one"},
				{ID: "p2", Left: "2", Right: "two"},
				{ID: "p3", Left: "3", Right: "three"},
			}},
			activity.NumberBond{Questions: []activity.BondQuestion{
				{ID: "n1", Whole: 5, Part: 2},
			}},
			activity.MatchingPairs{Pairs: []activity.MatchingPair{
				{ID: "p4", Left: "4", Right: "four"},
			}},
		},
	}
}

// answerAll answers every question correctly on the first attempt and
// advances until the session completes.
func answerAll(s *Session) {
	for !s.State().IsComplete() {
		_ = s.RecordAnswer("ok", true)
		_ = s.NextQuestion()
	}
}
