// Package session drives a single quiz run from question set to results.
package session

import (
	"errors"
	"time"

	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
	"github.com/JYunth/quizzine-mobile-mastery/internal/id"
)

// State is the session's position in its lifecycle. Question set
// acquisition (the loading phase) happens before New; an empty set lands
// the session directly in StateEmpty.
type State string

const (
	StateEmpty      State = "empty"
	StateInProgress State = "in_progress"
	StateResults    State = "results"
	StateReviewing  State = "reviewing"
	StateFinished   State = "finished"
)

var (
	ErrNotInProgress = errors.New("session is not in progress")
	ErrNotAtResults  = errors.New("session is not at results")
	ErrNotReviewing  = errors.New("session is not reviewing")
	ErrNoIncorrect   = errors.New("no incorrect answers to retry")
	ErrInvalidOption = errors.New("selected option out of range")
)

// Options configures a new session.
type Options struct {
	Mode     question.QuizMode
	CourseID string
	Week     int
	HardMode bool // shuffle each question's options once per session entry
}

// Session is the quiz state machine. It is purely in-memory; callers
// persist the finalized attempt. Abandoning a session mid-run discards it.
type Session struct {
	opts      Options
	state     State
	questions []question.Question
	views     []*View // lazily built, aligned with questions
	shownAt   []time.Time
	index     int
	answers   []question.Answer
	attempt   question.QuizAttempt

	now func() time.Time
}

// New builds a session over an already-acquired question set. An empty set
// yields a terminal StateEmpty session.
func New(questions []question.Question, opts Options) *Session {
	s := &Session{
		opts:      opts,
		questions: questions,
		views:     make([]*View, len(questions)),
		shownAt:   make([]time.Time, len(questions)),
		now:       time.Now,
	}
	if len(questions) == 0 {
		s.state = StateEmpty
	} else {
		s.state = StateInProgress
	}
	return s
}

func (s *Session) State() State { return s.state }

func (s *Session) Mode() question.QuizMode { return s.opts.Mode }

func (s *Session) Index() int { return s.index }

func (s *Session) Len() int { return len(s.questions) }

func (s *Session) Answers() []question.Answer { return s.answers }

func (s *Session) Questions() []question.Question { return s.questions }

// Current returns the view for the question at the cursor, creating it on
// first show. Valid while in progress or reviewing.
func (s *Session) Current() (*View, bool) {
	if s.state != StateInProgress && s.state != StateReviewing {
		return nil, false
	}
	return s.viewAt(s.index), true
}

func (s *Session) viewAt(i int) *View {
	if s.views[i] == nil {
		s.views[i] = newView(s.questions[i], s.opts.HardMode)
		s.shownAt[i] = s.now()
	}
	return s.views[i]
}

// Answer records the selection for the current question and advances the
// cursor. On the last question it finalizes the attempt and moves to
// results. Correctness is evaluated against the variant shown to the user.
func (s *Session) Answer(selected int) (question.Answer, error) {
	if s.state != StateInProgress {
		return question.Answer{}, ErrNotInProgress
	}
	view := s.viewAt(s.index)
	if selected < 0 || selected >= len(view.Options()) {
		return question.Answer{}, ErrInvalidOption
	}

	ans := question.Answer{
		QuestionID:          view.Question.ID,
		SelectedOptionIndex: selected,
		SelectedOptionText:  view.OptionText(selected),
		Correct:             view.IsCorrect(selected),
		TimeTaken:           s.now().Sub(s.shownAt[s.index]).Milliseconds(),
	}
	s.answers = append(s.answers, ans)

	if s.index < len(s.questions)-1 {
		s.index++
	} else {
		s.finalize()
	}
	return ans, nil
}

func (s *Session) finalize() {
	score := 0
	for _, a := range s.answers {
		if a.Correct {
			score++
		}
	}
	s.attempt = question.QuizAttempt{
		ID:             id.New(),
		Timestamp:      s.now(),
		Mode:           s.opts.Mode,
		CourseID:       s.opts.CourseID,
		Week:           s.opts.Week,
		Answers:        append([]question.Answer(nil), s.answers...),
		Score:          score,
		TotalQuestions: len(s.questions),
	}
	s.state = StateResults
}

// Attempt returns the finalized attempt once the session has reached
// results.
func (s *Session) Attempt() (question.QuizAttempt, bool) {
	if s.state != StateResults && s.state != StateReviewing && s.state != StateFinished {
		return question.QuizAttempt{}, false
	}
	return s.attempt, true
}

// Review enters read-only navigation over the answered questions.
func (s *Session) Review() error {
	if s.state != StateResults {
		return ErrNotAtResults
	}
	s.state = StateReviewing
	s.index = 0
	return nil
}

// BackToResults leaves review mode.
func (s *Session) BackToResults() error {
	if s.state != StateReviewing {
		return ErrNotReviewing
	}
	s.state = StateResults
	return nil
}

// ReviewNext moves the review cursor forward; it stops at the last
// question rather than wrapping.
func (s *Session) ReviewNext() error {
	if s.state != StateReviewing {
		return ErrNotReviewing
	}
	if s.index < len(s.questions)-1 {
		s.index++
	}
	return nil
}

// ReviewPrev moves the review cursor backward, stopping at the first
// question.
func (s *Session) ReviewPrev() error {
	if s.state != StateReviewing {
		return ErrNotReviewing
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// AnswerFor returns the recorded answer for the question at the given
// position, if any. Used while reviewing.
func (s *Session) AnswerFor(i int) (question.Answer, bool) {
	if i < 0 || i >= len(s.answers) {
		return question.Answer{}, false
	}
	return s.answers[i], true
}

// RetryIncorrect re-enters the quiz scoped to the previously incorrect
// questions, with answers and cursor reset. The views are rebuilt, so hard
// mode reshuffles; the completed attempt is untouched and the retry
// produces its own attempt when it finishes.
func (s *Session) RetryIncorrect() error {
	if s.state != StateResults {
		return ErrNotAtResults
	}
	incorrect := map[string]bool{}
	for _, a := range s.answers {
		if !a.Correct {
			incorrect[a.QuestionID] = true
		}
	}
	if len(incorrect) == 0 {
		return ErrNoIncorrect
	}

	var retry []question.Question
	for _, q := range s.questions {
		if incorrect[q.ID] {
			retry = append(retry, q)
		}
	}
	s.questions = retry
	s.views = make([]*View, len(retry))
	s.shownAt = make([]time.Time, len(retry))
	s.index = 0
	s.answers = nil
	s.attempt = question.QuizAttempt{}
	s.state = StateInProgress
	return nil
}

// Finish terminates the session after results.
func (s *Session) Finish() error {
	if s.state != StateResults {
		return ErrNotAtResults
	}
	s.state = StateFinished
	return nil
}
