package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"flashquiz/internal/content"
	"flashquiz/internal/domain"
)

// DefaultHistoryLimit caps history listings when the caller passes no limit.
const DefaultHistoryLimit = 20

// QuestionSource loads question content (from a file, cache, etc).
type QuestionSource interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
}

// AttemptRecorder persists completed attempts and lists past ones.
type AttemptRecorder interface {
	Record(ctx context.Context, summary domain.AttemptSummary) error
	History(ctx context.Context, limit int) ([]domain.AttemptSummary, error)
}

// StartOptions selects the question set and pacing for one quiz run.
type StartOptions struct {
	Category           string
	Difficulty         string
	Count              int
	SecondsPerQuestion int
}

// QuizService contains the quiz use cases: starting a session over a filtered
// question sample, recording the finished attempt, and reading history.
type QuizService struct {
	source   QuestionSource
	recorder AttemptRecorder

	mu  sync.Mutex // guards rnd; StartQuiz may be called from concurrent connections
	rnd *rand.Rand
}

func NewQuizService(source QuestionSource, recorder AttemptRecorder) *QuizService {
	return &QuizService{
		source:   source,
		recorder: recorder,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewQuizServiceWithRand is test-only for deterministic sampling.
func NewQuizServiceWithRand(source QuestionSource, recorder AttemptRecorder, rnd *rand.Rand) *QuizService {
	return &QuizService{source: source, recorder: recorder, rnd: rnd}
}

// StartQuiz samples questions matching the options and returns a started
// session along with the first question view.
func (s *QuizService) StartQuiz(ctx context.Context, opts StartOptions) (*Session, domain.QuestionView, error) {
	questions, err := s.source.LoadAll(ctx)
	if err != nil {
		return nil, domain.QuestionView{}, err
	}

	pool := content.Filter(questions, opts.Category, opts.Difficulty)
	if len(pool) == 0 {
		return nil, domain.QuestionView{}, domain.ErrNoQuestions
	}

	count := opts.Count
	if count < 1 {
		count = 1
	}
	if count > len(pool) {
		count = len(pool)
	}
	s.mu.Lock()
	selected := content.Sample(s.rnd, pool, count)
	s.mu.Unlock()

	session := NewSession(selected, opts.SecondsPerQuestion,
		WithFilter(normalizeFilter(opts.Category), normalizeFilter(opts.Difficulty)),
	)
	view, err := session.Start()
	if err != nil {
		return nil, domain.QuestionView{}, err
	}
	return session, view, nil
}

// SaveAttempt persists a completed attempt. A storage failure leaves the
// in-memory summary intact; callers should warn, not abort.
func (s *QuizService) SaveAttempt(ctx context.Context, summary domain.AttemptSummary) error {
	return s.recorder.Record(ctx, summary)
}

// History lists recent attempts, newest first.
func (s *QuizService) History(ctx context.Context, limit int) ([]domain.AttemptSummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.recorder.History(ctx, limit)
}

// Categories lists the distinct categories available in the question source.
func (s *QuizService) Categories(ctx context.Context) ([]string, error) {
	questions, err := s.source.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return content.Categories(questions), nil
}

func normalizeFilter(value string) string {
	if value == "" {
		return domain.AnyFilter
	}
	return value
}
