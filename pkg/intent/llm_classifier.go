package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"creation-workshop-be/internal/workflow"
	"creation-workshop-be/pkg/llm"
)

// LLMClassifier implements Classifier on top of an llm.LLMProvider.
// The model is asked to answer with a single JSON object; anything it
// gets wrong degrades to IntentUnknown at the call site.
type LLMClassifier struct {
	provider llm.LLMProvider
}

var _ Classifier = &LLMClassifier{}

func NewLLMClassifier(provider llm.LLMProvider) *LLMClassifier {
	return &LLMClassifier{provider: provider}
}

const systemPrompt = `You are the intent classifier for a content creation workshop assistant.
Classify the user's message into exactly one intent from the allowed list.
Respond with a single JSON object and nothing else:
{"intent": "<intent>", "confidence": <0.0-1.0>, "fields": {...}, "reasoning": "<one sentence>"}

Allowed intents:
- new_topic: the user names a subject they want content created about (fields.topic = the subject)
- confirm_yes: agreement, approval, "yes", "looks good"
- confirm_no: refusal, "no", "not these"
- select_outline: the user picks a numbered option as-is (fields.number = the number)
- modify_outline: the user wants to edit a numbered option before using it (fields.number)
- edit_instruction: a concrete change to apply to the outline being edited (fields.instruction)
- finish_editing: the user says editing is finished
- continue_writing: the user wants the next section written
- rewrite_section: the user wants the current section redone (fields.instruction = how)
- stop_writing: the user wants writing to stop for now
- request_optimize: the user wants the draft improved per review feedback
- finish_creation: the user accepts the result as final
- view_detail_report: the user asks for the detailed review report
- cancel: the user abandons the whole session
- unknown: none of the above fits

Rules:
- Pick select_outline/modify_outline only when the message references an option number or a clear choice.
- A bare topic with no other cue is new_topic.
- When in doubt, answer unknown with low confidence.`

type classifierReply struct {
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Fields     map[string]any `json:"fields"`
	Reasoning  string         `json:"reasoning"`
}

func (c *LLMClassifier) Classify(ctx context.Context, text string, stage workflow.Stage, sctx Context) (Result, error) {
	user := buildUserPrompt(text, stage, sctx)

	raw, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}, llm.WithTemperature(0.1), llm.WithMaxTokens(300))
	if err != nil {
		return Result{}, fmt.Errorf("classifier chat: %w", err)
	}

	var reply classifierReply
	if err := json.Unmarshal([]byte(extractJSON(raw)), &reply); err != nil {
		return Result{}, fmt.Errorf("classifier returned malformed JSON: %w", err)
	}

	parsed := workflow.ParseIntent(reply.Intent)
	fields := Fields(reply.Fields)
	if fields == nil {
		fields = Fields{}
	}
	return Result{
		Intent:     parsed,
		Confidence: clamp01(reply.Confidence),
		Fields:     fields,
		Reasoning:  reply.Reasoning,
	}, nil
}

func buildUserPrompt(text string, stage workflow.Stage, sctx Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current workflow stage: %s (%s)\n", stage, stage.DisplayName())
	if sctx.Topic != "" {
		fmt.Fprintf(&b, "Session topic: %s\n", sctx.Topic)
	}
	if sctx.OutlineCount > 0 {
		fmt.Fprintf(&b, "Options on offer: %d\n", sctx.OutlineCount)
	}
	fmt.Fprintf(&b, "User message: %s", text)
	return b.String()
}

// extractJSON strips markdown code fences and any prose around the
// first JSON object. Small local models are chatty despite instructions.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
