package session

import (
	"testing"
	"time"

	"github.com/abhisek/lessonkit/internal/activity"
)

func TestBuildSummary(t *testing.T) {
	cfg := scenarioConfig()
	clock := newFakeClock()
	var done Completion
	s := New(cfg, Options{Now: clock.Now, OnComplete: func(c Completion) { done = c }})

	clock.Advance(time.Second)
	_ = s.RecordAnswer("2", true)
	_ = s.NextQuestion()
	s.UseHint()
	_ = s.RecordAnswer("5", false)
	_ = s.DismissFeedback()
	_ = s.RecordAnswer("4", true)
	_ = s.NextQuestion()
	clock.Advance(time.Minute)
	_ = s.RecordAnswer("1", false)
	_ = s.NextQuestion()

	sum := BuildSummary(cfg, done)

	if sum.Duration != 61*time.Second {
		t.Errorf("Duration = %v, want 61s", sum.Duration)
	}
	if sum.Answered != 4 {
		t.Errorf("Answered = %d, want 4", sum.Answered)
	}
	if sum.Accuracy != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", sum.Accuracy)
	}
	if sum.Score != 67 {
		t.Errorf("Score = %d, want 67", sum.Score)
	}
	if !sum.HasPassed {
		t.Error("HasPassed = false, want true")
	}
	if len(sum.ActivityResults) != 2 {
		t.Fatalf("ActivityResults len = %d, want 2", len(sum.ActivityResults))
	}

	mc := sum.ActivityResults[0]
	if mc.Kind != activity.KindMultipleChoice || mc.Questions != 2 {
		t.Errorf("first result = %+v", mc)
	}
	if mc.Attempts != 3 || mc.Solved != 2 || mc.CorrectFirstTry != 1 || mc.HintsUsed != 2 {
		t.Errorf("multiple choice result = %+v, want 3 attempts, 2 solved, 1 first try, 2 hinted", mc)
	}

	cnt := sum.ActivityResults[1]
	if cnt.Attempts != 1 || cnt.Solved != 0 {
		t.Errorf("counting result = %+v, want 1 attempt, 0 solved", cnt)
	}
}

func TestBuildSummary_NoAnswers(t *testing.T) {
	sum := BuildSummary(scenarioConfig(), Completion{Metrics: Metrics{TotalQuestions: 3}})
	if sum.Accuracy != 0 || sum.Duration != 0 || sum.Answered != 0 {
		t.Errorf("BuildSummary() = %+v, want zero accuracy and duration", sum)
	}
}
