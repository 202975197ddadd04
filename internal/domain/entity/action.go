package entity

// ActionKind names a user action guarded against duplicate submission
type ActionKind string

const (
	ActionFetch  ActionKind = "fetch"
	ActionUpload ActionKind = "upload"
	ActionSign   ActionKind = "sign"
	ActionVerify ActionKind = "verify"
	ActionDelete ActionKind = "delete"
)

// ActionPhase is the tag of ActionState
type ActionPhase string

const (
	PhaseIdle     ActionPhase = "idle"
	PhaseInFlight ActionPhase = "in_flight"
	PhaseDone     ActionPhase = "done"
	PhaseFailed   ActionPhase = "failed"
)

// ActionState is Idle | InFlight | Done(Result) | Failed(Error)
type ActionState struct {
	Phase  ActionPhase `json:"phase"`
	Result any         `json:"result,omitempty"`
	Err    error       `json:"-"`
}

// ErrorMessage exposes the failure for serialization
func (s ActionState) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	_, msg := Classify(s.Err)
	return msg
}
