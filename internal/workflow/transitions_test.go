package workflow

import (
	"testing"
)

func TestResolveTransitions(t *testing.T) {
	tests := []struct {
		name         string
		stage        Stage
		intent       Intent
		selection    int
		outlineCount int
		wantNext     Stage
		wantAction   Action
		wantChanged  bool
	}{
		{
			name:       "new topic from idle starts search",
			stage:      StageIdle,
			intent:     IntentNewTopic,
			wantNext:   StageConfirmingMaterials,
			wantAction: ActionSearchMaterials, wantChanged: true,
		},
		{
			name:       "new topic from completed starts search",
			stage:      StageCompleted,
			intent:     IntentNewTopic,
			wantNext:   StageConfirmingMaterials,
			wantAction: ActionSearchMaterials, wantChanged: true,
		},
		{
			name:       "new topic mid-flow restarts implicitly",
			stage:      StageWaitingSelection,
			intent:     IntentNewTopic,
			wantNext:   StageConfirmingMaterials,
			wantAction: ActionImplicitRestart, wantChanged: true,
		},
		{
			name:       "new topic during outline generation restarts implicitly",
			stage:      StageGeneratingOutlines,
			intent:     IntentNewTopic,
			wantNext:   StageConfirmingMaterials,
			wantAction: ActionImplicitRestart, wantChanged: true,
		},
		{
			name:       "new topic while writing is a busy notice",
			stage:      StageWriting,
			intent:     IntentNewTopic,
			wantNext:   StageWriting,
			wantAction: ActionBusyNotice,
		},
		{
			name:       "new topic while reviewing is a busy notice",
			stage:      StageReviewing,
			intent:     IntentNewTopic,
			wantNext:   StageReviewing,
			wantAction: ActionBusyNotice,
		},
		{
			name:       "new topic while optimizing is a busy notice",
			stage:      StageOptimizing,
			intent:     IntentNewTopic,
			wantNext:   StageOptimizing,
			wantAction: ActionBusyNotice,
		},
		{
			name:       "confirm materials",
			stage:      StageConfirmingMaterials,
			intent:     IntentConfirmYes,
			wantNext:   StageGeneratingOutlines,
			wantAction: ActionConfirmMaterials, wantChanged: true,
		},
		{
			name:       "decline materials still generates outlines",
			stage:      StageConfirmingMaterials,
			intent:     IntentConfirmNo,
			wantNext:   StageGeneratingOutlines,
			wantAction: ActionDeclineMaterials, wantChanged: true,
		},
		{
			name:      "valid outline selection",
			stage:     StageWaitingSelection,
			intent:    IntentSelectOutline,
			selection: 2, outlineCount: 3,
			wantNext:   StageConfirmingStart,
			wantAction: ActionSelectOutline, wantChanged: true,
		},
		{
			name:      "selection above range stays put",
			stage:     StageWaitingSelection,
			intent:    IntentSelectOutline,
			selection: 4, outlineCount: 3,
			wantNext:   StageWaitingSelection,
			wantAction: ActionSelectionOutOfRange,
		},
		{
			name:      "selection zero stays put",
			stage:     StageWaitingSelection,
			intent:    IntentSelectOutline,
			selection: 0, outlineCount: 3,
			wantNext:   StageWaitingSelection,
			wantAction: ActionSelectionOutOfRange,
		},
		{
			name:      "modify with invalid number defaults to first outline",
			stage:     StageWaitingSelection,
			intent:    IntentModifyOutline,
			selection: 9, outlineCount: 3,
			wantNext:   StageEditingOutline,
			wantAction: ActionEnterEditing, wantChanged: true,
		},
		{
			name:       "edit instruction keeps stage",
			stage:      StageEditingOutline,
			intent:     IntentEditInstruction,
			wantNext:   StageEditingOutline,
			wantAction: ActionEmitModify,
		},
		{
			name:       "finish editing moves to confirming start",
			stage:      StageEditingOutline,
			intent:     IntentFinishEditing,
			wantNext:   StageConfirmingStart,
			wantAction: ActionFinishEditing, wantChanged: true,
		},
		{
			name:       "confirm start begins writing",
			stage:      StageConfirmingStart,
			intent:     IntentConfirmYes,
			wantNext:   StageWriting,
			wantAction: ActionStartWriting, wantChanged: true,
		},
		{
			name:       "decline start returns to selection",
			stage:      StageConfirmingStart,
			intent:     IntentConfirmNo,
			wantNext:   StageWaitingSelection,
			wantAction: ActionReselect, wantChanged: true,
		},
		{
			name:       "modify at confirming start returns to selection",
			stage:      StageConfirmingStart,
			intent:     IntentModifyOutline,
			wantNext:   StageWaitingSelection,
			wantAction: ActionReselect, wantChanged: true,
		},
		{
			name:       "continue from pause resumes writing",
			stage:      StagePausedWriting,
			intent:     IntentContinueWriting,
			wantNext:   StageWriting,
			wantAction: ActionContinueWriting, wantChanged: true,
		},
		{
			name:       "rewrite keeps the pause",
			stage:      StagePausedWriting,
			intent:     IntentRewriteSection,
			wantNext:   StagePausedWriting,
			wantAction: ActionRewriteSection,
		},
		{
			name:       "stop writing completes the session",
			stage:      StagePausedWriting,
			intent:     IntentStopWriting,
			wantNext:   StageCompleted,
			wantAction: ActionStopWriting, wantChanged: true,
		},
		{
			name:       "optimize request enters optimizing",
			stage:      StageWaitingOptimization,
			intent:     IntentRequestOptimize,
			wantNext:   StageOptimizing,
			wantAction: ActionOptimize, wantChanged: true,
		},
		{
			name:       "finish creation completes",
			stage:      StageWaitingOptimization,
			intent:     IntentFinishCreation,
			wantNext:   StageCompleted,
			wantAction: ActionFinishCreation, wantChanged: true,
		},
		{
			name:       "detail report keeps stage",
			stage:      StageWaitingOptimization,
			intent:     IntentViewDetailReport,
			wantNext:   StageWaitingOptimization,
			wantAction: ActionDetailReport,
		},
		{
			name:       "unmatched intent reprompts",
			stage:      StageConfirmingStart,
			intent:     IntentRequestOptimize,
			wantNext:   StageConfirmingStart,
			wantAction: ActionReprompt,
		},
		{
			name:       "unknown intent in idle reprompts",
			stage:      StageIdle,
			intent:     IntentUnknown,
			wantNext:   StageIdle,
			wantAction: ActionReprompt,
		},
		{
			name:       "busy stage swallows selection intents",
			stage:     StageReviewing,
			intent:    IntentSelectOutline,
			selection: 1, outlineCount: 3,
			wantNext:   StageReviewing,
			wantAction: ActionBusyNotice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.stage, tt.intent, tt.selection, tt.outlineCount)
			if got.Next != tt.wantNext {
				t.Errorf("Next = %s, want %s", got.Next, tt.wantNext)
			}
			if got.Action != tt.wantAction {
				t.Errorf("Action = %s, want %s", got.Action, tt.wantAction)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

// Cancel must reset from every single stage.
func TestResolveCancelIsTotal(t *testing.T) {
	for _, stage := range AllStages {
		got := Resolve(stage, IntentCancel, 0, 0)
		if got.Next != StageIdle || got.Action != ActionReset {
			t.Errorf("Cancel from %s = (%s, %s), want (idle, reset)", stage, got.Next, got.Action)
		}
	}
}

// Every (stage, intent) pair must resolve to a valid stage; nothing may
// fall through to an undefined state.
func TestResolveTotality(t *testing.T) {
	for _, stage := range AllStages {
		for _, in := range AllIntents {
			for _, sel := range []int{0, 1, 3, 99} {
				got := Resolve(stage, in, sel, 3)
				if !got.Next.IsValid() {
					t.Fatalf("Resolve(%s, %s, %d) produced invalid stage %q", stage, in, sel, got.Next)
				}
				if got.Action == "" {
					t.Fatalf("Resolve(%s, %s, %d) produced empty action", stage, in, sel)
				}
				if !got.Changed && got.Next != stage {
					t.Fatalf("Resolve(%s, %s, %d) moved to %s without Changed", stage, in, sel, got.Next)
				}
			}
		}
	}
}

func TestParseIntentFallsBackToUnknown(t *testing.T) {
	if got := ParseIntent("definitely_not_an_intent"); got != IntentUnknown {
		t.Errorf("ParseIntent = %s, want unknown", got)
	}
	if got := ParseIntent("select_outline"); got != IntentSelectOutline {
		t.Errorf("ParseIntent = %s, want select_outline", got)
	}
}
