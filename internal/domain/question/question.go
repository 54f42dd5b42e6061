// Package question holds the core quiz content and attempt types.
package question

import "time"

// QuizMode selects how a session's question set is acquired.
type QuizMode string

const (
	ModeWeekly   QuizMode = "weekly"
	ModeFull     QuizMode = "full"
	ModeBookmark QuizMode = "bookmark"
	ModeSmart    QuizMode = "smart"
	ModeCustom   QuizMode = "custom"
)

// Course groups questions by subject.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Question is a single multiple-choice question. CorrectIndex is always a
// valid index into Options.
type Question struct {
	ID           string   `json:"id"`
	CourseID     string   `json:"courseId"`
	Week         int      `json:"week"`
	WeekTitle    string   `json:"weekTitle,omitempty"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Tags         []string `json:"tags,omitempty"`
}

// Answer records one answered question. SelectedOptionText is captured at
// selection time so it survives any later reordering of the options.
type Answer struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	SelectedOptionText  string `json:"selectedOptionText"`
	Correct             bool   `json:"correct"`
	TimeTaken           int64  `json:"timeTaken"` // milliseconds
}

// QuizAttempt is a completed quiz run. Immutable once created; appended to
// the attempts log.
type QuizAttempt struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Mode           QuizMode  `json:"mode"`
	CourseID       string    `json:"courseId,omitempty"`
	Week           int       `json:"week,omitempty"`
	Answers        []Answer  `json:"answers"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
}

// CustomQuiz is a user-authored named subset of question ids, independent
// of course and week boundaries.
type CustomQuiz struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
	QuestionIDs []string  `json:"questionIds"`
	CourseID    string    `json:"courseId,omitempty"`
}

// FilterByCourse returns the questions belonging to the given course.
func FilterByCourse(questions []Question, courseID string) []Question {
	var out []Question
	for _, q := range questions {
		if q.CourseID == courseID {
			out = append(out, q)
		}
	}
	return out
}

// FilterByWeek returns the questions for a given course and week.
func FilterByWeek(questions []Question, courseID string, week int) []Question {
	var out []Question
	for _, q := range questions {
		if q.CourseID == courseID && q.Week == week {
			out = append(out, q)
		}
	}
	return out
}
