package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReviewState is the in-flight fan-in record for one session's three
// parallel reviews. It lives in a non-durable keyed store; losing it
// stalls aggregation until reviewers re-report, it never corrupts the
// persisted session.
type ReviewState struct {
	SessionId uuid.UUID `json:"session_id"`

	// Results keyed by review kind; a duplicate kind overwrites the
	// earlier arrival (last-write-wins, no ordering assumed).
	Results map[string]ReviewResult `json:"results"`

	// Suggestions concatenated across kinds, duplicates retained.
	Suggestions []string `json:"suggestions"`

	// FullReviews keeps each kind's raw payload for the on-demand
	// detail report.
	FullReviews map[string]json.RawMessage `json:"full_reviews"`

	DraftTitle string    `json:"draft_title"`
	StartedAt  time.Time `json:"started_at"`
}

// NewReviewState returns an empty join record for a session.
func NewReviewState(sessionID uuid.UUID, draftTitle string, now time.Time) *ReviewState {
	return &ReviewState{
		SessionId:   sessionID,
		Results:     make(map[string]ReviewResult),
		FullReviews: make(map[string]json.RawMessage),
		DraftTitle:  draftTitle,
		StartedAt:   now,
	}
}

// Record stores one reviewer's outcome, overwriting any earlier arrival
// of the same kind.
func (rs *ReviewState) Record(kind string, result ReviewResult, suggestions []string, full json.RawMessage) {
	if rs.Results == nil {
		rs.Results = make(map[string]ReviewResult)
	}
	if rs.FullReviews == nil {
		rs.FullReviews = make(map[string]json.RawMessage)
	}
	rs.Results[kind] = result
	rs.Suggestions = append(rs.Suggestions, suggestions...)
	rs.FullReviews[kind] = full
}

// DistinctKinds is the number of reviewer kinds heard from so far.
func (rs *ReviewState) DistinctKinds() int {
	return len(rs.Results)
}

// AverageScore is the arithmetic mean of the non-zero scores recorded
// so far. Zero scores are treated as missing, matching the settled
// summary computation.
func (rs *ReviewState) AverageScore() float64 {
	var sum float64
	var n int
	for _, r := range rs.Results {
		if r.Score > 0 {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
