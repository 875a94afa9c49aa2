package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"flashquiz/internal/domain"
)

// SessionState models the quiz lifecycle. Completed is terminal.
type SessionState int

const (
	StateNotStarted SessionState = iota
	StateInProgress
	StateCompleted
)

func (s SessionState) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateInProgress:
		return "in progress"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Session owns the state of one quiz run: the selected questions, the current
// position, the running score, and the active question's deadline. It is
// driven synchronously by a single presentation loop; the per-question timer
// is advisory and the driver calls Timeout once a deadline has passed.
type Session struct {
	id          string
	state       SessionState
	questions   []domain.Question
	category    string
	difficulty  string
	perQuestion time.Duration
	position    int
	score       int
	startedAt   time.Time
	current     domain.QuestionView
	summary     domain.AttemptSummary
	now         func() time.Time
	rnd         *rand.Rand
}

// SessionOption tweaks a Session at construction time.
type SessionOption func(*Session)

// WithClock substitutes the time source for deterministic tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithRand substitutes the randomness source for deterministic shuffles.
func WithRand(rnd *rand.Rand) SessionOption {
	return func(s *Session) { s.rnd = rnd }
}

// WithFilter records which category/difficulty filter produced the question
// set, so the attempt summary can carry it.
func WithFilter(category, difficulty string) SessionOption {
	return func(s *Session) {
		s.category = category
		s.difficulty = difficulty
	}
}

// NewSession builds a session over the given questions without starting it.
func NewSession(questions []domain.Question, secondsPerQuestion int, opts ...SessionOption) *Session {
	s := &Session{
		id:          uuid.NewString(),
		state:       StateNotStarted,
		questions:   questions,
		category:    domain.AnyFilter,
		difficulty:  domain.AnyFilter,
		perQuestion: time.Duration(secondsPerQuestion) * time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(s.now().UnixNano()))
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Total returns the number of questions in the session.
func (s *Session) Total() int { return len(s.questions) }

// Start transitions the session to InProgress and presents the first
// question. It requires a non-empty question set and a positive time limit.
func (s *Session) Start() (domain.QuestionView, error) {
	if s.state != StateNotStarted {
		return domain.QuestionView{}, fmt.Errorf("%w: start in %s session", domain.ErrInvalidState, s.state)
	}
	if len(s.questions) == 0 {
		return domain.QuestionView{}, domain.ErrNoQuestions
	}
	if s.perQuestion <= 0 {
		return domain.QuestionView{}, errors.New("seconds per question must be positive")
	}
	s.state = StateInProgress
	s.position = 0
	s.score = 0
	s.startedAt = s.now()
	s.present()
	return s.current, nil
}

// Answer submits the selected option index against the current shuffled view.
// It rejects late answers with ErrDeadlinePassed so the driving loop decides
// explicitly whether to call Timeout instead.
func (s *Session) Answer(selected int) (correct bool, done bool, err error) {
	if s.state != StateInProgress {
		return false, false, fmt.Errorf("%w: answer in %s session", domain.ErrInvalidState, s.state)
	}
	if s.now().After(s.current.Deadline) {
		return false, false, domain.ErrDeadlinePassed
	}
	correct = selected == s.current.CorrectIndex
	if correct {
		s.score++
	}
	return correct, s.advance(), nil
}

// Timeout consumes the current question as an incorrect answer.
func (s *Session) Timeout() (done bool, err error) {
	if s.state != StateInProgress {
		return false, fmt.Errorf("%w: timeout in %s session", domain.ErrInvalidState, s.state)
	}
	return s.advance(), nil
}

// CurrentView returns the active shuffled question and the remaining time.
func (s *Session) CurrentView() (domain.QuestionView, time.Duration, error) {
	if s.state != StateInProgress {
		return domain.QuestionView{}, 0, fmt.Errorf("%w: no current question in %s session", domain.ErrInvalidState, s.state)
	}
	remaining := s.current.Deadline.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return s.current, remaining, nil
}

// Summary returns the finalized attempt once the session has completed.
func (s *Session) Summary() (domain.AttemptSummary, error) {
	if s.state != StateCompleted {
		return domain.AttemptSummary{}, fmt.Errorf("%w: summary of %s session", domain.ErrInvalidState, s.state)
	}
	return s.summary, nil
}

// advance moves past the current question, either presenting the next one or
// freezing the session into its summary.
func (s *Session) advance() (done bool) {
	s.position++
	if s.position < len(s.questions) {
		s.present()
		return false
	}
	now := s.now()
	duration := int(now.Sub(s.startedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	s.state = StateCompleted
	s.summary = domain.AttemptSummary{
		ID:              s.id,
		Timestamp:       now,
		Category:        s.category,
		Difficulty:      s.difficulty,
		Score:           s.score,
		TotalQuestions:  len(s.questions),
		DurationSeconds: duration,
	}
	return true
}

// present computes a fresh deadline and a fresh uniform permutation of the
// current question's options. The permutation is never cached: every time a
// question becomes current it is reshuffled.
func (s *Session) present() {
	q := s.questions[s.position]
	perm := s.rnd.Perm(len(q.Options))
	options := make([]string, len(q.Options))
	correct := 0
	for shuffled, original := range perm {
		options[shuffled] = q.Options[original]
		if original == q.CorrectIndex {
			correct = shuffled
		}
	}
	s.current = domain.QuestionView{
		Index:        s.position,
		Total:        len(s.questions),
		Prompt:       q.Prompt,
		Options:      options,
		CorrectIndex: correct,
		Deadline:     s.now().Add(s.perQuestion),
	}
}
