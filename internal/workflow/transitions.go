package workflow

// Action is the side effect the coordinator must perform after a
// transition resolves. Actions are symbolic; the workflow package never
// touches transports or storage.
type Action string

const (
	// ActionReprompt covers every (stage, intent) pair without an explicit
	// entry in the table: repeat the stage's prompt, change nothing.
	ActionReprompt Action = "reprompt"

	ActionReset           Action = "reset"
	ActionSearchMaterials Action = "search_materials"
	ActionImplicitRestart Action = "implicit_restart"
	ActionBusyNotice      Action = "busy_notice"

	ActionConfirmMaterials Action = "confirm_materials"
	ActionDeclineMaterials Action = "decline_materials"

	ActionSelectOutline       Action = "select_outline"
	ActionSelectionOutOfRange Action = "selection_out_of_range"
	ActionEnterEditing        Action = "enter_editing"
	ActionEmitModify          Action = "emit_modify"
	ActionFinishEditing       Action = "finish_editing"

	ActionStartWriting    Action = "start_writing"
	ActionReselect        Action = "reselect"
	ActionContinueWriting Action = "continue_writing"
	ActionRewriteSection  Action = "rewrite_section"
	ActionStopWriting     Action = "stop_writing"

	ActionOptimize       Action = "optimize"
	ActionFinishCreation Action = "finish_creation"
	ActionDetailReport   Action = "detail_report"
)

// Decision is the outcome of resolving one user intent against the
// current stage.
type Decision struct {
	Next    Stage
	Action  Action
	Changed bool

	// Selection carries the resolved 1-based outline choice for
	// ActionSelectOutline and ActionEnterEditing.
	Selection int
}

func stay(s Stage, a Action) Decision {
	return Decision{Next: s, Action: a}
}

func move(next Stage, a Action) Decision {
	return Decision{Next: next, Action: a, Changed: true}
}

// Resolve maps (stage, intent) to the next stage and the action to
// perform. selection is the classifier-extracted option number (already
// coerced, default 1) and outlineCount bounds it for outline selection.
//
// Cancel is matched from every stage. A new topic restarts the flow from
// any stage except Writing, Reviewing and Optimizing, where the work in
// flight is too far along to silently discard; outline generation is
// cheap enough that a new topic restarts over it.
func Resolve(stage Stage, intent Intent, selection, outlineCount int) Decision {
	if intent == IntentCancel {
		return move(StageIdle, ActionReset)
	}

	if intent == IntentNewTopic {
		switch stage {
		case StageIdle, StageCompleted:
			return move(StageConfirmingMaterials, ActionSearchMaterials)
		case StageWriting, StageReviewing, StageOptimizing:
			return stay(stage, ActionBusyNotice)
		default:
			return move(StageConfirmingMaterials, ActionImplicitRestart)
		}
	}

	if stage.IsBusy() {
		return stay(stage, ActionBusyNotice)
	}

	switch stage {
	case StageConfirmingMaterials:
		switch intent {
		case IntentConfirmYes:
			return move(StageGeneratingOutlines, ActionConfirmMaterials)
		case IntentConfirmNo:
			return move(StageGeneratingOutlines, ActionDeclineMaterials)
		}

	case StageWaitingSelection:
		switch intent {
		case IntentSelectOutline:
			if selection < 1 || selection > outlineCount {
				return stay(stage, ActionSelectionOutOfRange)
			}
			d := move(StageConfirmingStart, ActionSelectOutline)
			d.Selection = selection
			return d
		case IntentModifyOutline:
			if selection < 1 || selection > outlineCount {
				selection = 1
			}
			d := move(StageEditingOutline, ActionEnterEditing)
			d.Selection = selection
			return d
		}

	case StageEditingOutline:
		switch intent {
		case IntentEditInstruction:
			// Stage unchanged; the modified outline arrives asynchronously.
			return stay(stage, ActionEmitModify)
		case IntentFinishEditing:
			return move(StageConfirmingStart, ActionFinishEditing)
		}

	case StageConfirmingStart:
		switch intent {
		case IntentConfirmYes:
			return move(StageWriting, ActionStartWriting)
		case IntentConfirmNo, IntentModifyOutline:
			return move(StageWaitingSelection, ActionReselect)
		}

	case StagePausedWriting:
		switch intent {
		case IntentContinueWriting:
			return move(StageWriting, ActionContinueWriting)
		case IntentRewriteSection:
			return stay(stage, ActionRewriteSection)
		case IntentStopWriting:
			return move(StageCompleted, ActionStopWriting)
		}

	case StageWaitingOptimization:
		switch intent {
		case IntentRequestOptimize:
			return move(StageOptimizing, ActionOptimize)
		case IntentFinishCreation:
			return move(StageCompleted, ActionFinishCreation)
		case IntentViewDetailReport:
			return stay(stage, ActionDetailReport)
		}
	}

	return stay(stage, ActionReprompt)
}
