package lessongen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/llm"
)

const systemPrompt = `You design short interactive lessons for young learners. Each lesson is a list of activities a learner answers one question at a time. Every question must have exactly one correct answer that can be checked automatically.`

var kindNotes = map[activity.Kind]string{
	activity.KindMultipleChoice: "2-4 options, correctIndex is zero-based",
	activity.KindCounting:       "a single emoji or word as the object, count between 1 and 10",
	activity.KindMatchingPairs:  "3-5 pairs, every left and right side distinct",
	activity.KindSequenceOrder:  "items listed in their correct order",
	activity.KindFlashCard:      "the back is a short answer the learner can type",
	activity.KindFillInBlank:    "mark the blank with ___ and give a one-word answer",
	activity.KindNumberBond:     "part must not exceed whole",
	activity.KindTenFrame:       "filled between 0 and 10",
	activity.KindNumberLine:     "min < max and min <= target <= max",
	activity.KindRekenrek:       "target between 0 and 20",
}

func buildUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	if in.Grade != "" {
		fmt.Fprintf(&b, "Level: %s\n", in.Grade)
	}
	fmt.Fprintf(&b, "Activities: %d\n", in.Activities)
	if in.PassingScore > 0 {
		fmt.Fprintf(&b, "Passing score: %d\n", in.PassingScore)
	}

	kinds := in.Kinds
	if len(kinds) == 0 {
		kinds = activity.AllKinds()
	}
	b.WriteString("\nAllowed activity types:\n")
	for _, k := range kinds {
		fmt.Fprintf(&b, "- %s: %s\n", k, kindNotes[k])
	}

	b.WriteString(`
Instructions:
1. Use exactly the number of activities requested, drawn only from the allowed types.
2. Give every question an id that is unique within the lesson.
3. Add a short hint to each question that nudges without giving the answer away.
4. Keep wording simple and use plain ASCII text for numbers and symbols.
5. Set schemaVersion to "v1.0.0" and give the lesson a short title.`)

	return b.String()
}

// buildRepairMessage tells the model why its previous lesson was rejected.
// Schema issues are listed one per line with their location in the lesson.
func buildRepairMessage(err error) string {
	var b strings.Builder
	var serr *llm.SchemaError
	if errors.As(err, &serr) {
		b.WriteString("The previous lesson does not match the lesson schema:\n")
		for _, issue := range serr.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	} else {
		fmt.Fprintf(&b, "The previous lesson was rejected: %v\n", err)
	}
	b.WriteString("Return a corrected lesson that follows every instruction.")
	return b.String()
}
