package store

import (
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/progress"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/streak"
)

// SchemaVersion is the current document schema version. Version 1 is the
// legacy unversioned document whose streak state lived under "lastActive".
const SchemaVersion = 2

// Settings holds display and interaction toggles plus the selected course.
type Settings struct {
	DarkMode        bool   `json:"darkMode"`
	HardMode        bool   `json:"hardMode"`
	Reminders       bool   `json:"reminders"`
	LastVisitedWeek int    `json:"lastVisitedWeek"`
	CurrentCourseID string `json:"currentCourseId,omitempty"`
}

// Document is the aggregate root for all locally persisted state. Exactly
// one instance exists per device; it is loaded lazily and saved eagerly
// after every mutation.
type Document struct {
	SchemaVersion       int                       `json:"schemaVersion"`
	Attempts            []question.QuizAttempt    `json:"attempts"`
	Bookmarks           []string                  `json:"bookmarks"`
	Settings            Settings                  `json:"settings"`
	ConfidenceRatings   map[string]int            `json:"confidenceRatings"`
	Streaks             streak.State              `json:"streaks"`
	CustomQuizzes       []question.CustomQuiz     `json:"customQuizzes"`
	QuestionPerformance map[string]progress.Stats `json:"questionPerformance"`
}

// Defaults returns a fresh document for a device with no recorded state.
func Defaults() Document {
	return Document{
		SchemaVersion: SchemaVersion,
		Attempts:      []question.QuizAttempt{},
		Bookmarks:     []string{},
		Settings: Settings{
			LastVisitedWeek: 1,
		},
		ConfidenceRatings:   map[string]int{},
		Streaks:             streak.State{},
		CustomQuizzes:       []question.CustomQuiz{},
		QuestionPerformance: map[string]progress.Stats{},
	}
}
