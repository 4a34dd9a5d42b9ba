package workflow

// Stage is the position of a creation session inside the workshop flow.
type Stage string

const (
	StageIdle                Stage = "idle"
	StageConfirmingMaterials Stage = "confirming_materials"
	StageGeneratingOutlines  Stage = "generating_outlines"
	StageWaitingSelection    Stage = "waiting_selection"
	StageEditingOutline      Stage = "editing_outline"
	StageConfirmingStart     Stage = "confirming_start"
	StageWriting             Stage = "writing"
	StagePausedWriting       Stage = "paused_writing"
	StageReviewing           Stage = "reviewing"
	StageWaitingOptimization Stage = "waiting_optimization"
	StageOptimizing          Stage = "optimizing"
	StageCompleted           Stage = "completed"
	StageError               Stage = "error"
)

// AllStages lists every stage, in flow order, Error last.
var AllStages = []Stage{
	StageIdle,
	StageConfirmingMaterials,
	StageGeneratingOutlines,
	StageWaitingSelection,
	StageEditingOutline,
	StageConfirmingStart,
	StageWriting,
	StagePausedWriting,
	StageReviewing,
	StageWaitingOptimization,
	StageOptimizing,
	StageCompleted,
	StageError,
}

var stageNames = map[Stage]string{
	StageIdle:                "idle",
	StageConfirmingMaterials: "confirming materials",
	StageGeneratingOutlines:  "generating outlines",
	StageWaitingSelection:    "waiting for outline selection",
	StageEditingOutline:      "editing outline",
	StageConfirmingStart:     "confirming start of writing",
	StageWriting:             "writing",
	StagePausedWriting:       "writing paused",
	StageReviewing:           "under review",
	StageWaitingOptimization: "waiting for optimization decision",
	StageOptimizing:          "optimizing",
	StageCompleted:           "completed",
	StageError:               "error",
}

// IsValid reports whether s is one of the enumerated stages.
func (s Stage) IsValid() bool {
	_, ok := stageNames[s]
	return ok
}

// DisplayName returns a human-readable stage label for channel messages.
func (s Stage) DisplayName() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return string(s)
}

// IsTerminal reports whether the session no longer accepts workflow input.
// Terminal sessions are excluded from the active-session lookup.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageError
}

// IsBusy reports whether the stage advances only on worker-completion
// events. User input other than Cancel gets a progress reply.
func (s Stage) IsBusy() bool {
	switch s {
	case StageGeneratingOutlines, StageWriting, StageReviewing, StageOptimizing:
		return true
	}
	return false
}
