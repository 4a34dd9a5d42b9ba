package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestDecodeReviewCompleted(t *testing.T) {
	id := uuid.New()
	raw, _ := json.Marshal(&ReviewCompleted{
		SessionId:    id,
		ReviewType:   ReviewKindAIFlavor,
		OverallScore: 6.5,
		Verdict:      "reads synthetic",
		Suggestions:  []string{"vary sentence length"},
	})

	payload, err := Decode(KindReviewCompleted, raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rc, ok := payload.(*ReviewCompleted)
	if !ok {
		t.Fatalf("Decode returned %T, want *ReviewCompleted", payload)
	}
	if rc.SessionId != id || rc.OverallScore != 6.5 {
		t.Errorf("decoded payload mismatch: %+v", rc)
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	if _, err := Decode("not_a_kind", []byte(`{}`)); err == nil {
		t.Error("Decode of unknown kind must fail")
	}
}

func TestDecodeRejectsInvalidPayload(t *testing.T) {
	// Valid JSON, but missing the session id.
	if _, err := Decode(KindDraftReady, []byte(`{"draft_id":"d1"}`)); err == nil {
		t.Error("Decode must reject a payload failing validation")
	}
}

func TestValidateEdges(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		payload Payload
		wantErr bool
	}{
		{"search without topic", &SearchMaterials{SessionId: id}, true},
		{"search ok", &SearchMaterials{SessionId: id, Topic: "t"}, false},
		{"zero session id", &SearchMaterials{Topic: "t"}, true},
		{"outlines ready empty ids", &OutlinesReady{SessionId: id}, true},
		{"review bad kind", &ReviewCompleted{SessionId: id, ReviewType: "grammar"}, true},
		{"review ok", &ReviewCompleted{SessionId: id, ReviewType: ReviewKindSensitive}, false},
		{"progress bad status", &WritingProgress{SessionId: id, Status: "midway"}, true},
		{"progress ok", &WritingProgress{SessionId: id, Status: WritingStatusCompleted}, false},
		{"materials found empty list ok", &MaterialsFound{SessionId: id}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidReviewKind(t *testing.T) {
	for _, k := range ReviewKinds {
		if !ValidReviewKind(k) {
			t.Errorf("ValidReviewKind(%q) = false", k)
		}
	}
	if ValidReviewKind("grammar") {
		t.Error("ValidReviewKind must reject unknown kinds")
	}
}
