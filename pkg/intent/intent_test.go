package intent

import (
	"context"
	"testing"

	"creation-workshop-be/internal/workflow"
	"creation-workshop-be/pkg/llm"
)

func TestFieldsNumberCoercion(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		def    int
		want   int
	}{
		{"missing", Fields{}, 1, 1},
		{"float", Fields{"number": 2.0}, 1, 2},
		{"int", Fields{"number": 3}, 1, 3},
		{"numeric string", Fields{"number": "2"}, 1, 2},
		{"padded string", Fields{"number": " 3 "}, 1, 3},
		{"garbage string defaults", Fields{"number": "two"}, 1, 1},
		{"wrong type defaults", Fields{"number": []string{"2"}}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fields.Number(tt.def); got != tt.want {
				t.Errorf("Number(%d) = %d, want %d", tt.def, got, tt.want)
			}
		})
	}
}

func TestFieldsText(t *testing.T) {
	f := Fields{"topic": "urban gardening", "blank": "  "}
	if got := f.Text("topic", "x"); got != "urban gardening" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Text("blank", "fallback"); got != "fallback" {
		t.Errorf("Text on blank = %q, want fallback", got)
	}
	if got := f.Text("missing", "fallback"); got != "fallback" {
		t.Errorf("Text on missing = %q, want fallback", got)
	}
}

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func TestLLMClassifierParsesReply(t *testing.T) {
	c := NewLLMClassifier(&stubProvider{
		reply: "```json\n{\"intent\":\"select_outline\",\"confidence\":0.92,\"fields\":{\"number\":\"2\"},\"reasoning\":\"picked option two\"}\n```",
	})

	res, err := c.Classify(context.Background(), "the second one", workflow.StageWaitingSelection, Context{OutlineCount: 3})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Intent != workflow.IntentSelectOutline {
		t.Errorf("Intent = %s", res.Intent)
	}
	if res.Confidence != 0.92 {
		t.Errorf("Confidence = %v", res.Confidence)
	}
	if got := res.Fields.Number(1); got != 2 {
		t.Errorf("Number = %d, want 2", got)
	}
}

func TestLLMClassifierOutOfSetIntentMapsToUnknown(t *testing.T) {
	c := NewLLMClassifier(&stubProvider{
		reply: `{"intent":"order_pizza","confidence":1.4,"fields":{}}`,
	})

	res, err := c.Classify(context.Background(), "hi", workflow.StageIdle, Context{})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Intent != workflow.IntentUnknown {
		t.Errorf("Intent = %s, want unknown", res.Intent)
	}
	if res.Confidence != 1 {
		t.Errorf("Confidence = %v, want clamped to 1", res.Confidence)
	}
}

func TestLLMClassifierMalformedReply(t *testing.T) {
	c := NewLLMClassifier(&stubProvider{reply: "sorry, I can't help with that"})
	if _, err := c.Classify(context.Background(), "hi", workflow.StageIdle, Context{}); err == nil {
		t.Error("malformed reply must surface an error for the unknown fallback")
	}
}
