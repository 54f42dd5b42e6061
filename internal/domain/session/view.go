package session

import (
	"math/rand"

	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
)

// View is how one question is presented within a session. When hard mode
// shuffles the options, the permutation is fixed the first time the
// question is shown and reused for its whole lifetime in the session, so
// correctness checks stay consistent with what the user saw.
type View struct {
	Question question.Question
	perm     []int // perm[display] = original option index; nil = identity
}

func newView(q question.Question, shuffled bool) *View {
	v := &View{Question: q}
	if shuffled && len(q.Options) > 1 {
		v.perm = rand.Perm(len(q.Options))
	}
	return v
}

// newViewWithPerm builds a view with a fixed permutation.
func newViewWithPerm(q question.Question, perm []int) *View {
	return &View{Question: q, perm: perm}
}

// Options returns the option texts in display order.
func (v *View) Options() []string {
	if v.perm == nil {
		return v.Question.Options
	}
	out := make([]string, len(v.perm))
	for display, original := range v.perm {
		out[display] = v.Question.Options[original]
	}
	return out
}

// CorrectIndex returns the display position of the correct option.
func (v *View) CorrectIndex() int {
	if v.perm == nil {
		return v.Question.CorrectIndex
	}
	for display, original := range v.perm {
		if original == v.Question.CorrectIndex {
			return display
		}
	}
	return v.Question.CorrectIndex
}

// OptionText returns the displayed text at the given position.
func (v *View) OptionText(display int) string {
	return v.Options()[display]
}

// IsCorrect reports whether selecting the given display position answers
// the question correctly.
func (v *View) IsCorrect(display int) bool {
	return display == v.CorrectIndex()
}
