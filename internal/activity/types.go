package activity

// Kind is the wire discriminant of an activity variant.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindCounting       Kind = "counting"
	KindMatchingPairs  Kind = "matching_pairs"
	KindSequenceOrder  Kind = "sequence_order"
	KindFlashCard      Kind = "flash_card"
	KindFillInBlank    Kind = "fill_in_blank"
	KindNumberBond     Kind = "number_bond"
	KindTenFrame       Kind = "ten_frame"
	KindNumberLine     Kind = "number_line"
	KindRekenrek       Kind = "rekenrek"
)

// AllKinds lists every known activity kind in declaration order.
func AllKinds() []Kind {
	return []Kind{
		KindMultipleChoice,
		KindCounting,
		KindMatchingPairs,
		KindSequenceOrder,
		KindFlashCard,
		KindFillInBlank,
		KindNumberBond,
		KindTenFrame,
		KindNumberLine,
		KindRekenrek,
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Label returns a short human-readable name for k.
func (k Kind) Label() string {
	switch k {
	case KindMultipleChoice:
		return "Multiple choice"
	case KindCounting:
		return "Counting"
	case KindMatchingPairs:
		return "Matching"
	case KindSequenceOrder:
		return "Put in order"
	case KindFlashCard:
		return "Flash card"
	case KindFillInBlank:
		return "Fill in the blank"
	case KindNumberBond:
		return "Number bond"
	case KindTenFrame:
		return "Ten frame"
	case KindNumberLine:
		return "Number line"
	case KindRekenrek:
		return "Rekenrek"
	}
	return string(k)
}

// Activity is one pedagogical widget instance. The set of implementations
// is closed: only the variant types in this package satisfy it.
type Activity interface {
	Kind() Kind
	sealed()
}

// DefaultPassingScore is applied when a config omits passingScore.
const DefaultPassingScore = 60

// MaxCount bounds the number of objects in a counting question.
const MaxCount = 20

// LessonConfig is a validated, ordered set of activities for one lesson.
type LessonConfig struct {
	Title            string
	SchemaVersion    string
	Activities       []Activity
	PassingScore     int
	EstimatedMinutes float64
}

// LessonKind classifies the lesson a config is attached to.
type LessonKind string

const (
	LessonInteractive LessonKind = "interactive"
	LessonQuiz        LessonKind = "quiz"
	LessonVideo       LessonKind = "video"
	LessonReading     LessonKind = "reading"
)

// MultipleChoiceQuestion offers options with exactly one correct index.
type MultipleChoiceQuestion struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Hint         string   `json:"hint,omitempty"`
}

// MultipleChoice is a block of multiple-choice questions.
type MultipleChoice struct {
	Questions []MultipleChoiceQuestion `json:"questions"`
}

// CountingQuestion asks how many objects are shown.
type CountingQuestion struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt,omitempty"`
	Object string `json:"object"`
	Count  int    `json:"count"`
	Hint   string `json:"hint,omitempty"`
}

// Counting is a block of counting questions.
type Counting struct {
	Questions []CountingQuestion `json:"questions"`
}

// MatchingPair links a left-hand item to its right-hand partner.
type MatchingPair struct {
	ID    string `json:"id"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchingPairs is answered as a whole: all pairs form one question.
type MatchingPairs struct {
	Prompt string         `json:"prompt,omitempty"`
	Pairs  []MatchingPair `json:"pairs"`
	Hint   string         `json:"hint,omitempty"`
}

// SequenceQuestion lists Items in their correct order.
type SequenceQuestion struct {
	ID     string   `json:"id"`
	Prompt string   `json:"prompt"`
	Items  []string `json:"items"`
	Hint   string   `json:"hint,omitempty"`
}

// SequenceOrder is a block of ordering questions.
type SequenceOrder struct {
	Questions []SequenceQuestion `json:"questions"`
}

// Card is one flash card.
type Card struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
	Hint  string `json:"hint,omitempty"`
}

// FlashCard is a deck of flash cards.
type FlashCard struct {
	Cards []Card `json:"cards"`
}

// BlankQuestion is a sentence with one blank to fill in.
type BlankQuestion struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
	Hint   string `json:"hint,omitempty"`
}

// FillInBlank is a block of fill-in-the-blank questions.
type FillInBlank struct {
	Questions []BlankQuestion `json:"questions"`
}

// BondQuestion shows a whole and one part; the learner finds the other part.
type BondQuestion struct {
	ID    string `json:"id"`
	Whole int    `json:"whole"`
	Part  int    `json:"part"`
	Hint  string `json:"hint,omitempty"`
}

// NumberBond is a block of part-part-whole questions.
type NumberBond struct {
	Questions []BondQuestion `json:"questions"`
}

// FrameQuestion shows a ten frame with Filled cells.
type FrameQuestion struct {
	ID     string `json:"id"`
	Filled int    `json:"filled"`
	Prompt string `json:"prompt,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

// TenFrame is a block of ten-frame questions.
type TenFrame struct {
	Questions []FrameQuestion `json:"questions"`
}

// LineQuestion asks for Target on a number line from Min to Max.
type LineQuestion struct {
	ID     string `json:"id"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Target int    `json:"target"`
	Hint   string `json:"hint,omitempty"`
}

// NumberLine is a block of number-line questions.
type NumberLine struct {
	Questions []LineQuestion `json:"questions"`
}

// BeadQuestion asks the learner to show Target beads on a rekenrek.
type BeadQuestion struct {
	ID     string `json:"id"`
	Target int    `json:"target"`
	Prompt string `json:"prompt,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

// Rekenrek is a block of bead-rack questions.
type Rekenrek struct {
	Questions []BeadQuestion `json:"questions"`
}

func (MultipleChoice) Kind() Kind { return KindMultipleChoice }
func (Counting) Kind() Kind       { return KindCounting }
func (MatchingPairs) Kind() Kind  { return KindMatchingPairs }
func (SequenceOrder) Kind() Kind  { return KindSequenceOrder }
func (FlashCard) Kind() Kind      { return KindFlashCard }
func (FillInBlank) Kind() Kind    { return KindFillInBlank }
func (NumberBond) Kind() Kind     { return KindNumberBond }
func (TenFrame) Kind() Kind       { return KindTenFrame }
func (NumberLine) Kind() Kind     { return KindNumberLine }
func (Rekenrek) Kind() Kind       { return KindRekenrek }

func (MultipleChoice) sealed() {}
func (Counting) sealed()       {}
func (MatchingPairs) sealed()  {}
func (SequenceOrder) sealed()  {}
func (FlashCard) sealed()      {}
func (FillInBlank) sealed()    {}
func (NumberBond) sealed()     {}
func (TenFrame) sealed()       {}
func (NumberLine) sealed()     {}
func (Rekenrek) sealed()       {}
