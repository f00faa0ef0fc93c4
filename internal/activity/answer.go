package activity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Prompt is the text-only rendering of one question.
type Prompt struct {
	Kind    Kind
	Text    string
	Choices []string
	Hint    string
}

// PromptFor describes the question at questionIndex of a. An out-of-range
// index yields an empty Prompt.
func PromptFor(a Activity, questionIndex int) Prompt {
	if questionIndex < 0 || questionIndex >= QuestionsInActivity(a) {
		return Prompt{}
	}
	p := Prompt{Kind: a.Kind()}

	switch v := a.(type) {
	case MultipleChoice:
		q := v.Questions[questionIndex]
		p.Text, p.Choices, p.Hint = q.Prompt, q.Options, q.Hint
	case Counting:
		q := v.Questions[questionIndex]
		p.Text = q.Prompt
		if p.Text == "" {
			p.Text = fmt.Sprintf("How many %ss?", q.Object)
		}
		if q.Count >= 0 && q.Count <= MaxCount {
			p.Text += "\n" + strings.TrimSpace(strings.Repeat(q.Object+" ", q.Count))
		}
		p.Hint = q.Hint
	case MatchingPairs:
		p.Text = v.Prompt
		if p.Text == "" {
			p.Text = "Match each item on the left with one on the right (e.g. a=b, c=d)."
		}
		rights := make([]string, len(v.Pairs))
		for i, pair := range v.Pairs {
			p.Choices = append(p.Choices, pair.Left)
			rights[i] = pair.Right
		}
		sort.Strings(rights)
		p.Text += "\nRight side: " + strings.Join(rights, ", ")
		p.Hint = v.Hint
	case SequenceOrder:
		q := v.Questions[questionIndex]
		p.Text = q.Prompt + "\nItems: " + strings.Join(scramble(q.ID, q.Items), ", ")
		p.Hint = q.Hint
	case FlashCard:
		c := v.Cards[questionIndex]
		p.Text, p.Hint = c.Front, c.Hint
	case FillInBlank:
		q := v.Questions[questionIndex]
		p.Text, p.Hint = q.Text, q.Hint
	case NumberBond:
		q := v.Questions[questionIndex]
		p.Text = fmt.Sprintf("The whole is %d. One part is %d. What is the other part?", q.Whole, q.Part)
		p.Hint = q.Hint
	case TenFrame:
		q := v.Questions[questionIndex]
		p.Text = q.Prompt
		if p.Text == "" {
			p.Text = "How many dots are in the ten frame?"
		}
		p.Text += "\n" + renderTenFrame(q.Filled)
		p.Hint = q.Hint
	case NumberLine:
		q := v.Questions[questionIndex]
		p.Text = fmt.Sprintf("On the number line from %d to %d, which number is marked?\n%s", q.Min, q.Max, renderNumberLine(q))
		p.Hint = q.Hint
	case Rekenrek:
		q := v.Questions[questionIndex]
		p.Text = q.Prompt
		if p.Text == "" {
			p.Text = "How many beads have been pushed to the left?"
		}
		p.Text += "\n" + renderRekenrek(q.Target)
		p.Hint = q.Hint
	}
	return p
}

// CheckAnswer grades the learner's typed answer for the question at
// questionIndex. Comparison trims whitespace and ignores case.
func CheckAnswer(a Activity, questionIndex int, answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" || questionIndex < 0 || questionIndex >= QuestionsInActivity(a) {
		return false
	}

	switch v := a.(type) {
	case MultipleChoice:
		q := v.Questions[questionIndex]
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return false
		}
		// Option text wins over a 1-based index: with options 4, 5, 6 the
		// answer "5" means the option, not the fifth choice.
		for i, opt := range q.Options {
			if strings.EqualFold(answer, strings.TrimSpace(opt)) {
				return i == q.CorrectIndex
			}
		}
		if idx, err := strconv.Atoi(answer); err == nil {
			return idx-1 == q.CorrectIndex
		}
		return false
	case Counting:
		return intEquals(answer, v.Questions[questionIndex].Count)
	case MatchingPairs:
		return checkPairs(answer, v.Pairs)
	case SequenceOrder:
		return checkSequence(answer, v.Questions[questionIndex].Items)
	case FlashCard:
		return textEquals(answer, v.Cards[questionIndex].Back)
	case FillInBlank:
		return textEquals(answer, v.Questions[questionIndex].Answer)
	case NumberBond:
		q := v.Questions[questionIndex]
		return intEquals(answer, q.Whole-q.Part)
	case TenFrame:
		return intEquals(answer, v.Questions[questionIndex].Filled)
	case NumberLine:
		return intEquals(answer, v.Questions[questionIndex].Target)
	case Rekenrek:
		return intEquals(answer, v.Questions[questionIndex].Target)
	}
	return false
}

// textEquals compares case-insensitively, normalising integers so that
// "007" matches "7".
func textEquals(answer, want string) bool {
	want = strings.TrimSpace(want)
	if n, err := strconv.Atoi(want); err == nil {
		return intEquals(answer, n)
	}
	return strings.EqualFold(answer, want)
}

func intEquals(answer string, want int) bool {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	return err == nil && n == want
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// scramble returns items in a fixed order that differs from the answer
// order whenever there are two or more items. The rotation is derived from
// id so different questions do not share one pattern.
func scramble(id string, items []string) []string {
	n := len(items)
	out := make([]string, n)
	if n < 2 {
		copy(out, items)
		return out
	}
	shift := 1 + len(id)%(n-1)
	for i := range items {
		out[i] = items[(i+shift)%n]
	}
	return out
}

// splitList splits an ordered answer on commas and semicolons, and on
// spaces too unless spaced is set.
func splitList(s string, spaced bool) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || (r == ' ' && !spaced)
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func checkSequence(answer string, want []string) bool {
	spaced := false
	for _, w := range want {
		if strings.Contains(strings.TrimSpace(w), " ") {
			spaced = true
		}
	}
	got := splitList(answer, spaced)
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(got[i], strings.TrimSpace(want[i])) {
			return false
		}
	}
	return true
}

// checkPairs accepts "left=right" entries separated by commas, in any order.
// Every pair in the list must be matched by exactly one entry.
func checkPairs(answer string, pairs []MatchingPair) bool {
	entries := strings.Split(answer, ",")
	if len(entries) != len(pairs) {
		return false
	}
	used := make([]bool, len(pairs))
	for _, e := range entries {
		left, right, ok := strings.Cut(e, "=")
		if !ok {
			return false
		}
		left, right = normalize(left), normalize(right)
		matched := false
		for i, p := range pairs {
			if !used[i] && normalize(p.Left) == left && normalize(p.Right) == right {
				used[i], matched = true, true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func renderTenFrame(filled int) string {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		if i == 5 {
			b.WriteString("\n")
		}
		if i < filled {
			b.WriteString("[●]")
		} else {
			b.WriteString("[ ]")
		}
	}
	return b.String()
}

func renderNumberLine(q LineQuestion) string {
	span := q.Max - q.Min
	if span <= 0 || span > 60 {
		return fmt.Sprintf("%d ... ? ... %d", q.Min, q.Max)
	}
	var b strings.Builder
	for n := q.Min; n <= q.Max; n++ {
		if n == q.Target {
			b.WriteString("▼")
		} else {
			b.WriteString("|")
		}
	}
	return fmt.Sprintf("%d %s %d", q.Min, b.String(), q.Max)
}

func renderRekenrek(target int) string {
	rows := [2]int{target, 0}
	if target > 10 {
		rows = [2]int{10, target - 10}
	}
	var b strings.Builder
	for r, left := range rows {
		if r > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat("●", left))
		b.WriteString("   ")
		b.WriteString(strings.Repeat("○", 10-left))
	}
	return b.String()
}
