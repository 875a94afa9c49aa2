package domain

import "time"

// Difficulty tags a question with how hard it is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	// AnyFilter matches every category or difficulty when filtering.
	AnyFilter = "Any"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question models an MCQ question with exactly one correct option.
// Questions are built once at load time and never mutated.
type Question struct {
	Prompt       string     `json:"promptText"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Category     string     `json:"category"`
	Difficulty   Difficulty `json:"difficulty"`
}

// QuestionView is a presentation-ready randomized ordering of one question's
// options. It belongs to the session that produced it and is replaced every
// time the session advances.
type QuestionView struct {
	Index        int       `json:"index"` // zero-based position within the session
	Total        int       `json:"total"`
	Prompt       string    `json:"prompt"`
	Options      []string  `json:"options"`
	CorrectIndex int       `json:"-"` // remapped into the shuffled order; never sent to clients
	Deadline     time.Time `json:"-"`
}

// AttemptSummary is the persisted projection of one completed session.
type AttemptSummary struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Category        string    `json:"category"`
	Difficulty      string    `json:"difficulty"`
	Score           int       `json:"score"`
	TotalQuestions  int       `json:"totalQuestions"`
	DurationSeconds int       `json:"durationSeconds"`
}

// Percent returns the score as a whole percentage of the total.
func (a AttemptSummary) Percent() int {
	if a.TotalQuestions == 0 {
		return 0
	}
	return int(float64(a.Score)/float64(a.TotalQuestions)*100 + 0.5)
}
