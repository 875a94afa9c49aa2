package app_test

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"flashquiz/internal/app"
	"flashquiz/internal/domain"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sampleQuestions(n int) []domain.Question {
	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, domain.Question{
			Prompt:       fmt.Sprintf("question %d", i),
			Options:      []string{"a" + fmt.Sprint(i), "b" + fmt.Sprint(i), "c" + fmt.Sprint(i), "d" + fmt.Sprint(i)},
			CorrectIndex: i % 4,
			Category:     "test",
			Difficulty:   domain.DifficultyEasy,
		})
	}
	return questions
}

func newTestSession(t *testing.T, n, seconds int, clock *fakeClock) *app.Session {
	t.Helper()
	return app.NewSession(sampleQuestions(n), seconds,
		app.WithClock(clock.Now),
		app.WithRand(rand.New(rand.NewSource(42))),
	)
}

func TestSessionCompletesAfterAllQuestions(t *testing.T) {
	clock := newFakeClock()
	session := newTestSession(t, 4, 10, clock)

	if _, err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 4; i++ {
		if session.State() != app.StateInProgress {
			t.Fatalf("expected in progress before question %d", i)
		}
		view, _, err := session.CurrentView()
		if err != nil {
			t.Fatalf("current view: %v", err)
		}
		if _, _, err := session.Answer(view.CorrectIndex); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}

	if session.State() != app.StateCompleted {
		t.Fatalf("expected completed, got %s", session.State())
	}
	summary, err := session.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalQuestions != 4 || summary.Score != 4 {
		t.Fatalf("expected 4/4, got %d/%d", summary.Score, summary.TotalQuestions)
	}
}

func TestScoreMatchesCorrectAnswersAndTimeouts(t *testing.T) {
	// 5 questions, 10s each; correct on 1, 3, 5; timeout on 2 and 4.
	clock := newFakeClock()
	session := newTestSession(t, 5, 10, clock)
	if _, err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 5; i++ {
		clock.Advance(3 * time.Second)
		if i%2 == 1 {
			if _, err := session.Timeout(); err != nil {
				t.Fatalf("timeout %d: %v", i, err)
			}
			continue
		}
		view, _, err := session.CurrentView()
		if err != nil {
			t.Fatalf("current view: %v", err)
		}
		correct, _, err := session.Answer(view.CorrectIndex)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if !correct {
			t.Fatalf("expected answer %d to score", i)
		}
	}

	summary, err := session.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Score != 3 || summary.TotalQuestions != 5 {
		t.Fatalf("expected 3/5, got %d/%d", summary.Score, summary.TotalQuestions)
	}
	if summary.DurationSeconds != 15 {
		t.Fatalf("expected 15s duration, got %d", summary.DurationSeconds)
	}
}

func TestShuffleIsAPermutation(t *testing.T) {
	questions := sampleQuestions(6)
	byPrompt := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byPrompt[q.Prompt] = q
	}

	clock := newFakeClock()
	session := app.NewSession(questions, 10,
		app.WithClock(clock.Now),
		app.WithRand(rand.New(rand.NewSource(7))),
	)
	if _, err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	for {
		view, _, err := session.CurrentView()
		if err != nil {
			break
		}
		original, ok := byPrompt[view.Prompt]
		if !ok {
			t.Fatalf("view for unknown question %q", view.Prompt)
		}
		if view.Options[view.CorrectIndex] != original.Options[original.CorrectIndex] {
			t.Fatalf("remapped correct index points at %q, want %q",
				view.Options[view.CorrectIndex], original.Options[original.CorrectIndex])
		}
		got := append([]string(nil), view.Options...)
		want := append([]string(nil), original.Options...)
		sort.Strings(got)
		sort.Strings(want)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("shuffle lost options: got %v want %v", view.Options, original.Options)
			}
		}
		if _, done, err := session.Answer(view.CorrectIndex); err != nil {
			t.Fatalf("answer: %v", err)
		} else if done {
			break
		}
	}
}

func TestAnswerAfterDeadlineIsRejected(t *testing.T) {
	clock := newFakeClock()
	session := newTestSession(t, 2, 10, clock)
	view, err := session.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	clock.Advance(11 * time.Second)
	if _, _, err := session.Answer(view.CorrectIndex); !errors.Is(err, domain.ErrDeadlinePassed) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if session.Score() != 0 {
		t.Fatalf("late answer must not score")
	}

	// The driving loop decides: it calls Timeout explicitly.
	if _, err := session.Timeout(); err != nil {
		t.Fatalf("timeout after deadline: %v", err)
	}
	if _, _, err := session.CurrentView(); err != nil {
		t.Fatalf("expected next question presented: %v", err)
	}
}

func TestDeadlineRecomputedPerQuestion(t *testing.T) {
	clock := newFakeClock()
	session := newTestSession(t, 2, 10, clock)
	view, err := session.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	clock.Advance(4 * time.Second)
	if _, remaining, _ := session.CurrentView(); remaining != 6*time.Second {
		t.Fatalf("expected 6s remaining, got %v", remaining)
	}

	if _, _, err := session.Answer(view.CorrectIndex); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, remaining, _ := session.CurrentView(); remaining != 10*time.Second {
		t.Fatalf("expected fresh 10s deadline, got %v", remaining)
	}
}

func TestOperationsOutsideInProgressFail(t *testing.T) {
	clock := newFakeClock()
	session := newTestSession(t, 1, 10, clock)

	if _, _, err := session.Answer(0); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("answer before start: expected invalid state, got %v", err)
	}
	if _, err := session.Timeout(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("timeout before start: expected invalid state, got %v", err)
	}
	if _, err := session.Summary(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("summary before completion: expected invalid state, got %v", err)
	}

	view, err := session.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := session.Answer(view.CorrectIndex); err != nil {
		t.Fatalf("answer: %v", err)
	}

	// Completed is terminal: further transitions fail and state is frozen.
	before, _ := session.Summary()
	if _, _, err := session.Answer(0); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("answer after completion: expected invalid state, got %v", err)
	}
	if _, err := session.Start(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("restart: expected invalid state, got %v", err)
	}
	after, _ := session.Summary()
	if before != after {
		t.Fatalf("summary changed after completion: %+v vs %+v", before, after)
	}
}

func TestStartPreconditions(t *testing.T) {
	clock := newFakeClock()

	empty := app.NewSession(nil, 10, app.WithClock(clock.Now))
	if _, err := empty.Start(); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected no-questions error, got %v", err)
	}

	zeroTime := app.NewSession(sampleQuestions(1), 0, app.WithClock(clock.Now))
	if _, err := zeroTime.Start(); err == nil {
		t.Fatalf("expected error for zero seconds per question")
	}
}
