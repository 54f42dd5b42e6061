// Package progress tracks per-question performance and confidence, and
// derives the Smart Boost question set from them.
package progress

import (
	"sort"
	"time"

	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
)

// Confidence ratings are bounded integers nudged by recent correctness.
const (
	MinConfidence     = 0
	MaxConfidence     = 5
	DefaultConfidence = 3
)

// Stats is the append-only per-question performance aggregate. It is only
// ever incremented, never recomputed from the attempts log.
type Stats struct {
	TotalAttempts     int       `json:"totalAttempts"`
	CorrectAttempts   int       `json:"correctAttempts"`
	IncorrectAttempts int       `json:"incorrectAttempts"`
	LastAttempt       time.Time `json:"lastAttempt"`
}

// RecordAnswer updates the performance aggregate and confidence rating for
// one answered question. Both maps are mutated in place.
func RecordAnswer(stats map[string]Stats, ratings map[string]int, questionID string, correct bool, now time.Time) {
	s := stats[questionID]
	s.TotalAttempts++
	if correct {
		s.CorrectAttempts++
	} else {
		s.IncorrectAttempts++
	}
	s.LastAttempt = now
	stats[questionID] = s

	ratings[questionID] = adjust(ConfidenceOf(ratings, questionID), correct)
}

// ConfidenceOf returns the rating for a question, defaulting when unset.
func ConfidenceOf(ratings map[string]int, questionID string) int {
	r, ok := ratings[questionID]
	if !ok {
		return DefaultConfidence
	}
	return clamp(r)
}

func adjust(rating int, correct bool) int {
	if correct {
		return clamp(rating + 1)
	}
	return clamp(rating - 1)
}

func clamp(r int) int {
	if r < MinConfidence {
		return MinConfidence
	}
	if r > MaxConfidence {
		return MaxConfidence
	}
	return r
}

// SelectWeak returns the Smart Boost question set: questions with at least
// one recorded incorrect attempt, most recently attempted first. Questions
// never answered wrong are excluded, so the result may be empty.
func SelectWeak(questions []question.Question, stats map[string]Stats) []question.Question {
	var weak []question.Question
	for _, q := range questions {
		if stats[q.ID].IncorrectAttempts > 0 {
			weak = append(weak, q)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return stats[weak[i].ID].LastAttempt.After(stats[weak[j].ID].LastAttempt)
	})
	return weak
}
