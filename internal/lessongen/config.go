package lessongen

// Config controls lesson generation.
type Config struct {
	// Validators run in order on every parsed config; the first failure
	// rejects the whole lesson.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// DefaultActivities is used when Input.Activities is zero.
	DefaultActivities int

	// MaxActivities caps Input.Activities.
	MaxActivities int

	// MaxRepairs is how many times a rejected draft is sent back for
	// correction before generation fails.
	MaxRepairs int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&ShapeValidator{},
			&AnswerKeyValidator{},
		},
		MaxTokens:         4096,
		Temperature:       0.4,
		DefaultActivities: 4,
		MaxActivities:     10,
		MaxRepairs:        1,
	}
}
