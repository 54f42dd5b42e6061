package session

import (
	"testing"

	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
)

func TestView_PermutationRemapsCorrectIndex(t *testing.T) {
	q := question.Question{
		ID:           "q1",
		Prompt:       "pick b",
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 1,
	}
	// Display order: d, c, b, a — "b" lands at display position 2.
	v := newViewWithPerm(q, []int{3, 2, 1, 0})

	if got := v.CorrectIndex(); got != 2 {
		t.Errorf("expected remapped correct index 2, got %d", got)
	}
	if got := v.OptionText(v.CorrectIndex()); got != "b" {
		t.Errorf("expected correct option text %q, got %q", "b", got)
	}
	if !v.IsCorrect(2) || v.IsCorrect(1) {
		t.Error("correctness must follow the displayed positions")
	}
}

func TestView_IdentityWithoutShuffle(t *testing.T) {
	q := question.Question{
		Options:      []string{"a", "b"},
		CorrectIndex: 0,
	}
	v := newView(q, false)

	if v.CorrectIndex() != 0 {
		t.Errorf("expected correct index 0, got %d", v.CorrectIndex())
	}
	for i, opt := range v.Options() {
		if opt != q.Options[i] {
			t.Errorf("expected option order preserved, got %v", v.Options())
		}
	}
}

func TestView_ShuffledPreservesCorrectOptionText(t *testing.T) {
	q := question.Question{
		Options:      []string{"alpha", "beta", "gamma", "delta", "epsilon"},
		CorrectIndex: 3,
	}
	for i := 0; i < 50; i++ {
		v := newView(q, true)
		if got := v.OptionText(v.CorrectIndex()); got != "delta" {
			t.Fatalf("shuffle changed the correct option: got %q", got)
		}
	}
}
