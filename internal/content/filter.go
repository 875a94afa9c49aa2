package content

import (
	"math/rand"

	"flashquiz/internal/domain"
)

// Filter returns the questions matching the category and difficulty,
// preserving source order. An empty value or domain.AnyFilter matches all.
func Filter(questions []domain.Question, category, difficulty string) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if !matches(category, q.Category) {
			continue
		}
		if !matches(difficulty, string(q.Difficulty)) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func matches(filter, value string) bool {
	return filter == "" || filter == domain.AnyFilter || filter == value
}

// Sample picks at most n questions from the pool in a uniformly random order.
// When fewer than n match it returns all of them; never an error.
func Sample(rnd *rand.Rand, pool []domain.Question, n int) []domain.Question {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	out := make([]domain.Question, 0, n)
	for _, i := range rnd.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}
