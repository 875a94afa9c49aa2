package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"flashquiz/internal/domain"
)

// Source loads question content from a backing store (file, cache, etc).
type Source interface {
	LoadAll(ctx context.Context) ([]domain.Question, error)
}

// FileSource reads questions from a JSON file on disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) LoadAll(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrContent, s.path, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrContent, s.path, err)
	}
	for i := range questions {
		if questions[i].Difficulty == "" {
			questions[i].Difficulty = domain.DifficultyEasy
		}
		if err := Validate(questions[i]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return questions, nil
}

// Validate checks the Question invariants: a non-empty prompt, 3..5 distinct
// options, an in-range correct index, and a known difficulty.
func Validate(q domain.Question) error {
	if q.Prompt == "" {
		return fmt.Errorf("%w: empty prompt", domain.ErrContent)
	}
	if len(q.Options) < 3 || len(q.Options) > 5 {
		return fmt.Errorf("%w: %d options, want 3..5", domain.ErrContent, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, ok := seen[opt]; ok {
			return fmt.Errorf("%w: duplicate option %q", domain.ErrContent, opt)
		}
		seen[opt] = struct{}{}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: correct index %d out of range", domain.ErrContent, q.CorrectIndex)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", domain.ErrContent, q.Difficulty)
	}
	return nil
}

// Categories returns the distinct category tags in source order.
func Categories(questions []domain.Question) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, q := range questions {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	return out
}
