package store

import (
	"encoding/json"
	"time"

	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/progress"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/question"
	"github.com/JYunth/quizzine-mobile-mastery/internal/domain/streak"
)

// rawDocument is a partially decoded document: top-level sections are kept
// raw so one invalid section can be reset without discarding the rest.
type rawDocument map[string]json.RawMessage

// migrations rewrites a document in place from the given version to the
// next one. Applied in sequence inside decode until SchemaVersion.
var migrations = map[int]func(rawDocument){
	1: migrateLegacyStreaks,
}

// migrateLegacyStreaks rewrites the v1 streak shape, where the last
// activity lived under "lastActive" as either a YYYY-MM-DD string or an
// epoch-milliseconds number, into {lastActivityDate, currentStreak}.
func migrateLegacyStreaks(doc rawDocument) {
	raw, ok := doc["streaks"]
	if !ok {
		return
	}
	var legacy map[string]json.RawMessage
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return
	}

	state := streak.State{}
	if v, ok := legacy["currentStreak"]; ok {
		_ = json.Unmarshal(v, &state.CurrentStreak)
	}
	if v, ok := legacy["lastActivityDate"]; ok {
		_ = json.Unmarshal(v, &state.LastActivityDate)
	} else if v, ok := legacy["lastActive"]; ok {
		var s string
		var ms int64
		switch {
		case json.Unmarshal(v, &s) == nil:
			state.LastActivityDate = s
		case json.Unmarshal(v, &ms) == nil:
			state.LastActivityDate = time.UnixMilli(ms).Local().Format(streak.DateLayout)
		}
	}

	out, err := json.Marshal(state)
	if err != nil {
		return
	}
	doc["streaks"] = out
}

// decode parses and migrates a raw stored blob into a Document. It never
// fails: an unparseable blob yields the defaults, and any structurally
// invalid section is reset to its default. The second return reports
// whether the blob decoded cleanly at the current version; callers persist
// the repaired document when it did not.
func decode(raw []byte) (Document, bool) {
	var sections rawDocument
	if err := json.Unmarshal(raw, &sections); err != nil || sections == nil {
		return Defaults(), false
	}

	version := 1
	if v, ok := sections["schemaVersion"]; ok {
		if err := json.Unmarshal(v, &version); err != nil || version < 1 {
			version = 1
		}
	}
	migrated := version < SchemaVersion
	for ; version < SchemaVersion; version++ {
		if m, ok := migrations[version]; ok {
			m(sections)
		}
	}

	doc := Defaults()
	clean := !migrated
	clean = decodeSection(sections, "attempts", &doc.Attempts) && clean
	clean = decodeSection(sections, "bookmarks", &doc.Bookmarks) && clean
	clean = decodeSection(sections, "settings", &doc.Settings) && clean
	clean = decodeSection(sections, "confidenceRatings", &doc.ConfidenceRatings) && clean
	clean = decodeSection(sections, "streaks", &doc.Streaks) && clean
	clean = decodeSection(sections, "customQuizzes", &doc.CustomQuizzes) && clean
	clean = decodeSection(sections, "questionPerformance", &doc.QuestionPerformance) && clean

	// Re-establish defaults for sections that decoded to nil.
	if doc.Attempts == nil {
		doc.Attempts = []question.QuizAttempt{}
	}
	if doc.Bookmarks == nil {
		doc.Bookmarks = []string{}
	}
	if doc.ConfidenceRatings == nil {
		doc.ConfidenceRatings = map[string]int{}
	}
	if doc.CustomQuizzes == nil {
		doc.CustomQuizzes = []question.CustomQuiz{}
	}
	if doc.QuestionPerformance == nil {
		doc.QuestionPerformance = map[string]progress.Stats{}
	}
	return doc, clean
}

// decodeSection decodes one named section into dst, leaving the default in
// place when the section is absent or has the wrong shape. Absence is
// clean; a decode failure is not.
func decodeSection[T any](sections rawDocument, name string, dst *T) bool {
	raw, ok := sections[name]
	if !ok {
		return true
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}
