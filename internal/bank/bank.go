// Package bank fetches and caches the static question bank.
package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
)

// Data is the processed question bank: courses, the flat question list
// with course ids stamped and week titles backfilled, and an id index for
// point lookups.
type Data struct {
	Courses   []question.Course
	Questions []question.Question
	ByID      map[string]question.Question
}

type cacheState int

const (
	stateUnloaded cacheState = iota
	stateLoading
	stateLoaded
	stateFailed
)

// Repository loads the question bank at most once per process lifetime.
// Concurrent callers before the first fetch resolves share the in-flight
// request; a failed fetch clears the marker so a later call retries.
type Repository struct {
	url     string
	timeout time.Duration
	client  *http.Client // reused across calls
	logger  *slog.Logger

	mu      sync.Mutex
	state   cacheState
	pending chan struct{} // closed when the in-flight fetch settles
	data    Data
}

func New(url string, timeout time.Duration, logger *slog.Logger) *Repository {
	return &Repository{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetAll returns the cached bank, fetching it first if needed. Failures
// degrade to an empty result set; they are logged, never returned.
func (r *Repository) GetAll(ctx context.Context) Data {
	for {
		r.mu.Lock()
		switch r.state {
		case stateLoaded:
			data := r.data
			r.mu.Unlock()
			return data

		case stateLoading:
			pending := r.pending
			r.mu.Unlock()
			select {
			case <-pending:
				// Re-check: the fetch either loaded or failed.
			case <-ctx.Done():
				return emptyData()
			}

		default: // Unloaded or Failed: this caller runs the fetch.
			r.state = stateLoading
			r.pending = make(chan struct{})
			pending := r.pending
			r.mu.Unlock()

			data, err := r.fetch(ctx)

			r.mu.Lock()
			if err != nil {
				r.state = stateFailed
				r.logger.Warn("question bank fetch failed", "url", r.url, "error", err)
			} else {
				r.state = stateLoaded
				r.data = data
			}
			close(pending)
			r.mu.Unlock()

			if err != nil {
				return emptyData()
			}
			return data
		}
	}
}

type rawCourse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Questions   []question.Question `json:"questions"`
}

type rawBank struct {
	Courses []rawCourse `json:"courses"`
}

func (r *Repository) fetch(ctx context.Context) (Data, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return Data{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return Data{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Data{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var raw rawBank
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Data{}, fmt.Errorf("decode question bank: %w", err)
	}

	data := normalize(raw)
	r.logger.Info("question bank loaded",
		"courses", len(data.Courses), "questions", len(data.Questions))
	return data, nil
}

// normalize stamps each question with its owning course id, backfills
// missing week titles from sibling questions in the same course and week,
// and builds the id index.
func normalize(raw rawBank) Data {
	data := emptyData()
	for _, rc := range raw.Courses {
		data.Courses = append(data.Courses, question.Course{
			ID:          rc.ID,
			Name:        rc.Name,
			Description: rc.Description,
		})
		for _, q := range rc.Questions {
			q.CourseID = rc.ID
			if q.WeekTitle == "" {
				q.WeekTitle = weekTitleFor(rc.Questions, q.Week)
			}
			data.Questions = append(data.Questions, q)
			data.ByID[q.ID] = q
		}
	}
	return data
}

func weekTitleFor(siblings []question.Question, week int) string {
	for _, q := range siblings {
		if q.Week == week && q.WeekTitle != "" {
			return q.WeekTitle
		}
	}
	return ""
}

func emptyData() Data {
	return Data{ByID: map[string]question.Question{}}
}
