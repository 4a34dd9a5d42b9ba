package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReviewStateRecordAndJoin(t *testing.T) {
	rs := NewReviewState(uuid.New(), "Draft Title", time.Now())

	rs.Record("sensitive", ReviewResult{Score: 9, Verdict: "pass"}, []string{"s1"}, json.RawMessage(`{"k":"sensitive"}`))
	if rs.DistinctKinds() != 1 {
		t.Fatalf("DistinctKinds = %d, want 1", rs.DistinctKinds())
	}

	rs.Record("ai_flavor", ReviewResult{Score: 7, Verdict: "meh"}, []string{"s2", "s3"}, nil)
	rs.Record("public_opinion", ReviewResult{Score: 5, Verdict: "mixed"}, nil, nil)

	if rs.DistinctKinds() != 3 {
		t.Fatalf("DistinctKinds = %d, want 3", rs.DistinctKinds())
	}
	if got := rs.AverageScore(); got != 7.0 {
		t.Errorf("AverageScore = %v, want 7.0", got)
	}
	if len(rs.Suggestions) != 3 {
		t.Errorf("Suggestions len = %d, want 3", len(rs.Suggestions))
	}
}

func TestReviewStateDuplicateKindLastWriteWins(t *testing.T) {
	rs := NewReviewState(uuid.New(), "", time.Now())

	rs.Record("sensitive", ReviewResult{Score: 3, Verdict: "first"}, []string{"a"}, nil)
	rs.Record("sensitive", ReviewResult{Score: 8, Verdict: "second"}, []string{"b"}, nil)

	if rs.DistinctKinds() != 1 {
		t.Fatalf("DistinctKinds = %d, want 1", rs.DistinctKinds())
	}
	if rs.Results["sensitive"].Verdict != "second" {
		t.Errorf("Verdict = %q, want the later arrival", rs.Results["sensitive"].Verdict)
	}
	// Suggestions are concatenated, deliberately not deduplicated.
	if len(rs.Suggestions) != 2 {
		t.Errorf("Suggestions len = %d, want 2", len(rs.Suggestions))
	}
}

func TestReviewStateAverageIgnoresZeroScores(t *testing.T) {
	rs := NewReviewState(uuid.New(), "", time.Now())
	rs.Record("sensitive", ReviewResult{Score: 0, Verdict: "no score"}, nil, nil)
	rs.Record("ai_flavor", ReviewResult{Score: 6, Verdict: "ok"}, nil, nil)

	if got := rs.AverageScore(); got != 6.0 {
		t.Errorf("AverageScore = %v, want 6.0", got)
	}

	empty := NewReviewState(uuid.New(), "", time.Now())
	if got := empty.AverageScore(); got != 0 {
		t.Errorf("AverageScore of empty state = %v, want 0", got)
	}
}

func TestSessionActiveAndClearWork(t *testing.T) {
	now := time.Now()
	s := &CreationSession{
		Id:        uuid.New(),
		Stage:     "writing",
		Topic:     "city birds",
		DraftId:   "d1",
		ExpiresAt: now.Add(time.Hour),
	}

	if !s.Active(now) {
		t.Error("session within expiry should be active")
	}
	if s.Active(now.Add(2 * time.Hour)) {
		t.Error("session past expiry should be inactive")
	}

	s.ClearWork()
	if s.Topic != "" || s.DraftId != "" {
		t.Error("ClearWork must drop in-progress fields")
	}
	if string(s.Stage) != "idle" {
		t.Errorf("Stage after ClearWork = %s, want idle", s.Stage)
	}

	s.Stage = "completed"
	if s.Active(now) {
		t.Error("completed session should be inactive regardless of expiry")
	}
}
