package bank_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JYunth/quizzine-mobile-mastery/internal/bank"
)

const bankJSON = `{
	"courses": [
		{
			"id": "c1",
			"name": "Networks",
			"questions": [
				{"id": "q1", "week": 1, "weekTitle": "Basics", "question": "p1", "options": ["a", "b"], "correctIndex": 0},
				{"id": "q2", "week": 1, "question": "p2", "options": ["a", "b"], "correctIndex": 1},
				{"id": "q3", "week": 2, "question": "p3", "options": ["a", "b"], "correctIndex": 0}
			]
		},
		{
			"id": "c2",
			"name": "Databases",
			"questions": [
				{"id": "q4", "courseId": "stale", "week": 1, "question": "p4", "options": ["x", "y"], "correctIndex": 1}
			]
		}
	]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetAll_NormalizesBank(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, bankJSON)
	}))
	defer srv.Close()

	repo := bank.New(srv.URL, time.Second, discardLogger())
	data := repo.GetAll(context.Background())

	if len(data.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(data.Courses))
	}
	if len(data.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(data.Questions))
	}

	// Course id is stamped from the owning course, overriding stale values.
	if got := data.ByID["q4"].CourseID; got != "c2" {
		t.Errorf("expected courseId stamped to c2, got %q", got)
	}

	// Missing week titles are backfilled from siblings in the same week.
	if got := data.ByID["q2"].WeekTitle; got != "Basics" {
		t.Errorf("expected backfilled week title %q, got %q", "Basics", got)
	}
	if got := data.ByID["q3"].WeekTitle; got != "" {
		t.Errorf("expected no week title for week 2, got %q", got)
	}
}

func TestGetAll_FetchesAtMostOnce(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		io.WriteString(w, bankJSON)
	}))
	defer srv.Close()

	repo := bank.New(srv.URL, time.Second, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data := repo.GetAll(context.Background())
			if len(data.Questions) != 4 {
				t.Errorf("expected 4 questions, got %d", len(data.Questions))
			}
		}()
	}
	wg.Wait()

	if n := fetches.Load(); n != 1 {
		t.Errorf("expected exactly 1 fetch, got %d", n)
	}
}

func TestGetAll_FailureYieldsEmptyAndAllowsRetry(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, bankJSON)
	}))
	defer srv.Close()

	repo := bank.New(srv.URL, time.Second, discardLogger())

	data := repo.GetAll(context.Background())
	if len(data.Questions) != 0 || len(data.Courses) != 0 {
		t.Fatalf("expected empty result on fetch failure, got %d questions", len(data.Questions))
	}

	// The failure cleared the in-flight marker, so a later call retries.
	healthy.Store(true)
	data = repo.GetAll(context.Background())
	if len(data.Questions) != 4 {
		t.Errorf("expected retry to succeed, got %d questions", len(data.Questions))
	}
}

func TestGetAll_MalformedBodyYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"courses": [`)
	}))
	defer srv.Close()

	repo := bank.New(srv.URL, time.Second, discardLogger())
	data := repo.GetAll(context.Background())
	if len(data.Questions) != 0 {
		t.Errorf("expected empty result for malformed bank, got %d questions", len(data.Questions))
	}
	if data.ByID == nil {
		t.Error("expected an initialized id index even when empty")
	}
}

func TestGetAll_TimeoutIsBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	repo := bank.New(srv.URL, 50*time.Millisecond, discardLogger())

	start := time.Now()
	data := repo.GetAll(context.Background())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch was not bounded by the timeout, took %v", elapsed)
	}
	if len(data.Questions) != 0 {
		t.Errorf("expected empty result on timeout, got %d questions", len(data.Questions))
	}
}
