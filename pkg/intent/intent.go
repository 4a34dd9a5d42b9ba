// Package intent is the boundary to the natural-language intent
// service. The classifier is a black box; the workflow only consumes
// the structured Result.
package intent

import (
	"context"
	"strconv"
	"strings"

	"creation-workshop-be/internal/workflow"
)

// Context carries read-only session excerpts the classifier may need
// for disambiguation.
type Context struct {
	Topic        string `json:"topic,omitempty"`
	OutlineCount int    `json:"outline_count,omitempty"`
}

// Fields is the opaque extracted-data payload returned alongside an
// intent (selected option number, edit instruction, topic text).
type Fields map[string]any

// Number coerces the "number" field to an int. The classifier may
// return it as a string or a float; any parse failure yields def.
// Callers pass 1 — defaulting to the first option is deliberate policy,
// not a fallback bug.
func (f Fields) Number(def int) int {
	v, ok := f["number"]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return def
		}
		return parsed
	}
	return def
}

// Text returns the named string field, or fallback when absent/empty.
func (f Fields) Text(key, fallback string) string {
	if v, ok := f[key]; ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fallback
}

// Result is one classification outcome.
type Result struct {
	Intent     workflow.Intent
	Confidence float64
	Fields     Fields
	Reasoning  string
}

// Unknown is the defined degradation when classification fails: never
// block or crash the session over a classifier outage.
func Unknown(reason string) Result {
	return Result{
		Intent:     workflow.IntentUnknown,
		Confidence: 0,
		Fields:     Fields{},
		Reasoning:  reason,
	}
}

// Classifier resolves free text against the current stage into one of
// the closed intent set.
type Classifier interface {
	Classify(ctx context.Context, text string, stage workflow.Stage, sctx Context) (Result, error)
}
