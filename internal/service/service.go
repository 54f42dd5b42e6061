// Package service orchestrates the quiz core: bookmarks, custom quizzes,
// settings, session lifecycle, and the writes that fan out from answers.
package service

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/JYunth/quizzine-mobile-mastery/internal/bank"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/progress"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/session"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/streak"
	"github.com/JYunth/quizzine-mobile-mastery/internal/id"
	"github.com/JYunth/quizzine-mobile-mastery/internal/store"
)

type Service struct {
	store  store.Store
	repo   *bank.Repository
	logger *slog.Logger
}

func New(st store.Store, repo *bank.Repository, logger *slog.Logger) *Service {
	return &Service{store: st, repo: repo, logger: logger}
}

// ── Bookmarks ───────────────────────────────────────────────────────────

// ToggleBookmark flips the bookmark for a question and reports whether it
// is now bookmarked. Toggling twice restores the original state.
func (s *Service) ToggleBookmark(questionID string) bool {
	doc := s.store.Load()
	for i, b := range doc.Bookmarks {
		if b == questionID {
			doc.Bookmarks = append(doc.Bookmarks[:i], doc.Bookmarks[i+1:]...)
			s.save(doc)
			return false
		}
	}
	doc.Bookmarks = append(doc.Bookmarks, questionID)
	s.save(doc)
	return true
}

func (s *Service) IsBookmarked(questionID string) bool {
	for _, b := range s.store.Load().Bookmarks {
		if b == questionID {
			return true
		}
	}
	return false
}

// BookmarkedQuestions resolves the bookmark set against the question bank.
func (s *Service) BookmarkedQuestions(ctx context.Context) []question.Question {
	doc := s.store.Load()
	bookmarked := map[string]bool{}
	for _, b := range doc.Bookmarks {
		bookmarked[b] = true
	}
	var out []question.Question
	for _, q := range s.repo.GetAll(ctx).Questions {
		if bookmarked[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// ── Custom quizzes ──────────────────────────────────────────────────────

func (s *Service) CustomQuizzes() []question.CustomQuiz {
	return s.store.Load().CustomQuizzes
}

func (s *Service) SaveCustomQuiz(name string, questionIDs []string, courseID string) question.CustomQuiz {
	quiz := question.CustomQuiz{
		ID:          id.New(),
		Name:        name,
		Timestamp:   time.Now(),
		QuestionIDs: questionIDs,
		CourseID:    courseID,
	}
	doc := s.store.Load()
	doc.CustomQuizzes = append(doc.CustomQuizzes, quiz)
	s.save(doc)
	return quiz
}

func (s *Service) UpdateCustomQuiz(quizID, name string, questionIDs []string) error {
	doc := s.store.Load()
	for i, quiz := range doc.CustomQuizzes {
		if quiz.ID == quizID {
			doc.CustomQuizzes[i].Name = name
			doc.CustomQuizzes[i].QuestionIDs = questionIDs
			s.save(doc)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Service) DeleteCustomQuiz(quizID string) error {
	doc := s.store.Load()
	for i, quiz := range doc.CustomQuizzes {
		if quiz.ID == quizID {
			doc.CustomQuizzes = append(doc.CustomQuizzes[:i], doc.CustomQuizzes[i+1:]...)
			s.save(doc)
			return nil
		}
	}
	return store.ErrNotFound
}

// QuestionsForCustomQuiz resolves a custom quiz's question ids against the
// bank's id index. Ids that no longer resolve are skipped, so a quiz may
// shrink as the bank changes.
func (s *Service) QuestionsForCustomQuiz(ctx context.Context, quizID string) ([]question.Question, error) {
	var found *question.CustomQuiz
	for _, quiz := range s.store.Load().CustomQuizzes {
		if quiz.ID == quizID {
			found = &quiz
			break
		}
	}
	if found == nil {
		return nil, store.ErrNotFound
	}

	index := s.repo.GetAll(ctx).ByID
	var out []question.Question
	for _, qid := range found.QuestionIDs {
		if q, ok := index[qid]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// ── Settings & confidence ───────────────────────────────────────────────

func (s *Service) Settings() store.Settings {
	return s.store.Load().Settings
}

// UpdateSettings applies a partial settings mutation and persists it.
func (s *Service) UpdateSettings(mutate func(*store.Settings)) {
	doc := s.store.Load()
	mutate(&doc.Settings)
	s.save(doc)
}

func (s *Service) ConfidenceRating(questionID string) int {
	return progress.ConfidenceOf(s.store.Load().ConfidenceRatings, questionID)
}

func (s *Service) SaveConfidenceRating(questionID string, rating int) {
	if rating < progress.MinConfidence {
		rating = progress.MinConfidence
	}
	if rating > progress.MaxConfidence {
		rating = progress.MaxConfidence
	}
	doc := s.store.Load()
	doc.ConfidenceRatings[questionID] = rating
	s.save(doc)
}

// ── Streak & history ────────────────────────────────────────────────────

func (s *Service) Streak() streak.State {
	return s.store.Load().Streaks
}

// TouchStreak advances the streak for today's activity. Run once per load
// of the consuming surface; repeat same-day calls are no-ops.
func (s *Service) TouchStreak() streak.State {
	doc := s.store.Load()
	advanced := streak.Advance(doc.Streaks, time.Now())
	if advanced != doc.Streaks {
		doc.Streaks = advanced
		s.save(doc)
	}
	return advanced
}

func (s *Service) Attempts() []question.QuizAttempt {
	return s.store.Load().Attempts
}

// ── Session lifecycle ───────────────────────────────────────────────────

// SessionRequest names the question set a session should run over. The
// course comes from settings; Week applies to weekly mode and CustomQuizID
// to custom mode.
type SessionRequest struct {
	Mode         question.QuizMode
	Week         int
	CustomQuizID string
}

// StartSession acquires the question set for the requested mode and opens
// a session over it. Any acquisition failure, including an invalid
// precondition like weekly mode without a week, degrades to an empty
// session rather than an error.
func (s *Service) StartSession(ctx context.Context, req SessionRequest) *session.Session {
	doc := s.store.Load()
	data := s.repo.GetAll(ctx)

	courseID := doc.Settings.CurrentCourseID
	if courseID == "" && len(data.Courses) > 0 {
		courseID = data.Courses[0].ID
	}

	var questions []question.Question
	switch req.Mode {
	case question.ModeWeekly:
		if req.Week > 0 {
			questions = question.FilterByWeek(data.Questions, courseID, req.Week)
		}
	case question.ModeFull:
		questions = question.FilterByCourse(data.Questions, courseID)
	case question.ModeBookmark:
		questions = s.BookmarkedQuestions(ctx)
	case question.ModeSmart:
		questions = progress.SelectWeak(
			question.FilterByCourse(data.Questions, courseID),
			doc.QuestionPerformance,
		)
	case question.ModeCustom:
		if req.CustomQuizID != "" {
			resolved, err := s.QuestionsForCustomQuiz(ctx, req.CustomQuizID)
			if err != nil {
				s.logger.Warn("custom quiz not found", "quizId", req.CustomQuizID)
			} else {
				questions = resolved
			}
		}
	}

	// Smart mode keeps the selector's recency order; every other mode
	// gets a fresh question order per session.
	if req.Mode != question.ModeSmart {
		questions = shuffled(questions)
	}

	return session.New(questions, session.Options{
		Mode:     req.Mode,
		CourseID: courseID,
		Week:     req.Week,
		HardMode: doc.Settings.HardMode,
	})
}

// SubmitAnswer records the selection on the session and writes the answer
// through the performance tracker. When the answer completes the quiz, the
// finalized attempt is appended to the log and the streak advances.
func (s *Service) SubmitAnswer(sess *session.Session, selected int) (question.Answer, error) {
	ans, err := sess.Answer(selected)
	if err != nil {
		return question.Answer{}, err
	}

	doc := s.store.Load()
	progress.RecordAnswer(doc.QuestionPerformance, doc.ConfidenceRatings, ans.QuestionID, ans.Correct, time.Now())
	if sess.State() == session.StateResults {
		if attempt, ok := sess.Attempt(); ok {
			doc.Attempts = append(doc.Attempts, attempt)
			doc.Streaks = streak.Advance(doc.Streaks, time.Now())
		}
	}
	s.save(doc)
	return ans, nil
}

func (s *Service) save(doc store.Document) {
	if err := s.store.Save(doc); err != nil {
		s.logger.Error("failed to save document", "error", err)
	}
}

func shuffled(questions []question.Question) []question.Question {
	out := make([]question.Question, len(questions))
	copy(out, questions)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
