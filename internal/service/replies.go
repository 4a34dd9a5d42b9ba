package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"creation-workshop-be/internal/entity"
	"creation-workshop-be/internal/workflow"
	"creation-workshop-be/pkg/events"
)

// Chat reply templates. Kept together so the conversational surface can
// be reviewed (and localized) in one place.

func replyReset() string {
	return "Session cancelled. Send me a topic whenever you want to start a new piece."
}

func replyBusy(session *entity.CreationSession) string {
	return fmt.Sprintf("Still working (%s). I'll post here the moment there is progress.", session.ProgressInfo())
}

func replySearchStarted(topic string) string {
	return fmt.Sprintf("Got it — new piece about %q. Searching the knowledge base for related materials...", topic)
}

func replyImplicitRestart(topic string) string {
	return fmt.Sprintf("Dropping the previous session and starting over with %q. Searching for related materials...", topic)
}

func replyMaterialsFound(materials []events.Material) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d related material(s):\n", len(materials))
	for i, m := range materials {
		fmt.Fprintf(&b, "%d. %s", i+1, m.Title)
		if m.Summary != "" {
			fmt.Fprintf(&b, " — %s", m.Summary)
		}
		b.WriteString("\n")
	}
	b.WriteString("Use these as source material? (yes / no)")
	return b.String()
}

func replyNoMaterials() string {
	return "No related materials in the knowledge base — going straight to outline generation."
}

func replyGeneratingOutlines(withMaterials bool) string {
	if withMaterials {
		return "Materials locked in. Generating outline options..."
	}
	return "Understood, writing from scratch. Generating outline options..."
}

func replyOutlinesReady(count int) string {
	return fmt.Sprintf(
		"%d outline option(s) are ready. Reply with a number (1-%d) to pick one, or say you want to edit one first.",
		count, count)
}

func replySelectionOutOfRange(count int) string {
	return fmt.Sprintf("That option doesn't exist — pick a number between 1 and %d.", count)
}

func replyOutlineSelected(n int) string {
	return fmt.Sprintf("Outline %d selected. Start writing? (yes / no to reselect)", n)
}

func replyEnterEditing(n int) string {
	return fmt.Sprintf("Editing outline %d. Tell me what to change, or say you're done editing.", n)
}

func replyModifyRequested() string {
	return "Sending that change to the outline generator..."
}

func replyOutlineModified() string {
	return "Outline updated. More changes, or done editing?"
}

func replyFinishEditing() string {
	return "Editing finished. Start writing with this outline? (yes / no to reselect)"
}

func replyReselect() string {
	return "Alright — pick a different outline by number, or say you want to edit one."
}

func replyStartWriting() string {
	return "Starting the draft now. I'll report progress section by section."
}

func replyWritingProgress(ev *events.WritingProgress) string {
	switch ev.Status {
	case events.WritingStatusStarted:
		return fmt.Sprintf("Writing section %d/%d: %s", ev.SectionIndex, ev.TotalSections, ev.SectionTitle)
	default:
		return fmt.Sprintf("Section %d/%d done: %s", ev.SectionIndex, ev.TotalSections, ev.SectionTitle)
	}
}

func replyPaused(ev *events.WritingProgress) string {
	return fmt.Sprintf(
		"Section %d/%d done: %s\nContinue with the next section, rewrite this one, or stop here?",
		ev.SectionIndex, ev.TotalSections, ev.SectionTitle)
}

func replyContinueWriting(next int) string {
	return fmt.Sprintf("Continuing with section %d...", next)
}

func replyRewriteRequested() string {
	return "Rewriting the current section..."
}

func replyStopped() string {
	return "Stopping here. The draft so far is saved — send a new topic anytime."
}

func replyDraftReady(draft events.Draft) string {
	return fmt.Sprintf(
		"Draft complete: %q (%d words). Sending it to the three reviewers (sensitivity, AI-flavor, public opinion)...",
		draft.Title, draft.WordCount)
}

func replyReviewSummary(outcome *ReviewOutcome, optimizationCount int) string {
	var b strings.Builder
	if outcome.Complete {
		b.WriteString("All reviews are in.\n")
	} else {
		b.WriteString("Review round closed (not every reviewer reported in time).\n")
	}
	for _, kind := range events.ReviewKinds {
		r, ok := outcome.Results[kind]
		if !ok {
			fmt.Fprintf(&b, "- %s: no report\n", kind)
			continue
		}
		fmt.Fprintf(&b, "- %s: %.1f — %s\n", kind, r.Score, r.Verdict)
	}
	fmt.Fprintf(&b, "Average score: %.1f\n", outcome.AverageScore)
	if len(outcome.Suggestions) > 0 {
		b.WriteString("Suggestions:\n")
		for i, s := range outcome.Suggestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}
	if optimizationCount > 0 {
		fmt.Fprintf(&b, "(Optimization round %d.)\n", optimizationCount)
	}
	b.WriteString("Optimize the draft per these suggestions, finish as-is, or view the detailed report?")
	return b.String()
}

func replyOptimizeStarted(round int) string {
	return fmt.Sprintf("Running optimization round %d against the review suggestions...", round)
}

func replyOptimizationDone(improvements []string) string {
	var b strings.Builder
	b.WriteString("Optimization done. Changes applied:\n")
	for i, imp := range improvements {
		fmt.Fprintf(&b, "%d. %s\n", i+1, imp)
	}
	b.WriteString("The revised draft is final. Send a new topic anytime.")
	return b.String()
}

func replyFinished(session *entity.CreationSession) string {
	return fmt.Sprintf("Done — %q is final (average review score %.1f). Send a new topic anytime.",
		session.Topic, session.AverageScore)
}

func replyNoDetailReport() string {
	return "No detailed review payloads are stored for this session."
}

func replyDetailReportSection(kind string, raw json.RawMessage) string {
	return fmt.Sprintf("--- %s report ---\n%s", kind, string(raw))
}

func replyDetailReportPrompt() string {
	return "Optimize the draft, finish as-is, or start a new topic?"
}

func replyWorkerFailed(reason string) string {
	if reason == "" {
		reason = "unknown error"
	}
	return fmt.Sprintf("A background worker reported a failure (%s). You can retry your last request or cancel the session.", reason)
}

func replyForcedReset() string {
	return "Your session was in an unrecoverable state and has been reset. Send me a topic to start over."
}

func replyInternalError() string {
	return "Something went wrong handling that — the session is unchanged, please try again."
}

// replyReprompt restates what the current stage is waiting for. Every
// unmatched intent lands here.
func replyReprompt(stage workflow.Stage) string {
	switch stage {
	case workflow.StageIdle:
		return "Tell me a topic and I'll start a new piece for you."
	case workflow.StageConfirmingMaterials:
		return "Should I use the materials I found? (yes / no)"
	case workflow.StageWaitingSelection:
		return "Pick an outline by number, or say you want to edit one."
	case workflow.StageEditingOutline:
		return "Tell me a concrete change for the outline, or say you're done editing."
	case workflow.StageConfirmingStart:
		return "Start writing with the selected outline? (yes / no to reselect)"
	case workflow.StagePausedWriting:
		return "Continue, rewrite the current section, or stop?"
	case workflow.StageWaitingOptimization:
		return "Optimize, finish, or view the detailed report?"
	case workflow.StageCompleted:
		return "This piece is finished. Send a new topic to start another."
	default:
		return "I didn't catch that — could you rephrase?"
	}
}
