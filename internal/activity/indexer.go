package activity

// MatchingQuestionID identifies the single question of a matching activity.
const MatchingQuestionID = "matching"

// UnknownQuestionID is returned for positions outside the lesson.
const UnknownQuestionID = "unknown"

// QuestionsInActivity returns the number of answerable questions in a.
// A matching activity is always one question regardless of its pair count.
func QuestionsInActivity(a Activity) int {
	switch v := a.(type) {
	case MultipleChoice:
		return len(v.Questions)
	case Counting:
		return len(v.Questions)
	case MatchingPairs:
		return 1
	case SequenceOrder:
		return len(v.Questions)
	case FlashCard:
		return len(v.Cards)
	case FillInBlank:
		return len(v.Questions)
	case NumberBond:
		return len(v.Questions)
	case TenFrame:
		return len(v.Questions)
	case NumberLine:
		return len(v.Questions)
	case Rekenrek:
		return len(v.Questions)
	}
	return 0
}

// CountTotalQuestions sums QuestionsInActivity across activities.
func CountTotalQuestions(activities []Activity) int {
	total := 0
	for _, a := range activities {
		total += QuestionsInActivity(a)
	}
	return total
}

// ResolveQuestionID returns the stable id of the question at the given
// position, or UnknownQuestionID if either index is out of range.
func ResolveQuestionID(activities []Activity, activityIndex, questionIndex int) string {
	if activityIndex < 0 || activityIndex >= len(activities) {
		return UnknownQuestionID
	}
	a := activities[activityIndex]
	if questionIndex < 0 || questionIndex >= QuestionsInActivity(a) {
		return UnknownQuestionID
	}

	switch v := a.(type) {
	case MultipleChoice:
		return v.Questions[questionIndex].ID
	case Counting:
		return v.Questions[questionIndex].ID
	case MatchingPairs:
		return MatchingQuestionID
	case SequenceOrder:
		return v.Questions[questionIndex].ID
	case FlashCard:
		return v.Cards[questionIndex].ID
	case FillInBlank:
		return v.Questions[questionIndex].ID
	case NumberBond:
		return v.Questions[questionIndex].ID
	case TenFrame:
		return v.Questions[questionIndex].ID
	case NumberLine:
		return v.Questions[questionIndex].ID
	case Rekenrek:
		return v.Questions[questionIndex].ID
	}
	return UnknownQuestionID
}
