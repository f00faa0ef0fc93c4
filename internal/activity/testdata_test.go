package activity

// fullLessonJSON exercises every activity kind once.
const fullLessonJSON = `{
	"title": "Numbers to 10",
	"schemaVersion": "v1.2.0",
	"passingScore": 70,
	"estimatedMinutes": 8,
	"activities": [
		{"type": "multiple_choice", "questions": [
			{"id": "mc1", "prompt": "2 + 3 = ?", "options": ["4", "5", "6"], "correctIndex": 1, "hint": "Count on from 2."},
			{"id": "mc2", "prompt": "Which is bigger?", "options": ["7", "9"], "correctIndex": 1}
		]},
		{"type": "counting", "questions": [{"id": "c1", "object": "apple", "count": 4}]},
		{"type": "matching_pairs", "pairs": [
			{"id": "p1", "left": "3", "right": "three"},
			{"id": "p2", "left": "5", "right": "five"},
			{"id": "p3", "left": "8", "right": "eight"}
		]},
		{"type": "sequence_order", "questions": [{"id": "s1", "prompt": "Smallest first", "items": ["1", "4", "9"]}]},
		{"type": "flash_card", "cards": [{"id": "f1", "front": "5 + 5", "back": "10"}]},
		{"type": "fill_in_blank", "questions": [{"id": "b1", "text": "3 + ___ = 5", "answer": "2"}]},
		{"type": "number_bond", "questions": [{"id": "n1", "whole": 10, "part": 4}]},
		{"type": "ten_frame", "questions": [{"id": "t1", "filled": 7}]},
		{"type": "number_line", "questions": [{"id": "l1", "min": 0, "max": 20, "target": 13}]},
		{"type": "rekenrek", "questions": [{"id": "r1", "target": 12}]}
	]
}`

func mustParse(data string) *LessonConfig {
	cfg, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return cfg
}
