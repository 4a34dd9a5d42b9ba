package workflow

// Intent is the classified meaning of one user message. Classification
// itself is external; the workflow only routes on the closed set below.
type Intent string

const (
	IntentNewTopic         Intent = "new_topic"
	IntentConfirmYes       Intent = "confirm_yes"
	IntentConfirmNo        Intent = "confirm_no"
	IntentSelectOutline    Intent = "select_outline"
	IntentModifyOutline    Intent = "modify_outline"
	IntentEditInstruction  Intent = "edit_instruction"
	IntentFinishEditing    Intent = "finish_editing"
	IntentContinueWriting  Intent = "continue_writing"
	IntentRewriteSection   Intent = "rewrite_section"
	IntentStopWriting      Intent = "stop_writing"
	IntentRequestOptimize  Intent = "request_optimize"
	IntentFinishCreation   Intent = "finish_creation"
	IntentViewDetailReport Intent = "view_detail_report"
	IntentCancel           Intent = "cancel"
	IntentUnknown          Intent = "unknown"
)

// AllIntents lists the closed intent set.
var AllIntents = []Intent{
	IntentNewTopic,
	IntentConfirmYes,
	IntentConfirmNo,
	IntentSelectOutline,
	IntentModifyOutline,
	IntentEditInstruction,
	IntentFinishEditing,
	IntentContinueWriting,
	IntentRewriteSection,
	IntentStopWriting,
	IntentRequestOptimize,
	IntentFinishCreation,
	IntentViewDetailReport,
	IntentCancel,
	IntentUnknown,
}

// ParseIntent maps a classifier string to an Intent, falling back to
// IntentUnknown for anything outside the closed set.
func ParseIntent(s string) Intent {
	for _, in := range AllIntents {
		if string(in) == s {
			return in
		}
	}
	return IntentUnknown
}
