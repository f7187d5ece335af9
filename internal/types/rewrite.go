package types

// RewriteAction identifies a text-transform intent for a selection rewrite.
type RewriteAction string

// The closed set of rewrite actions.
const (
	ActionRewrite RewriteAction = "rewrite"
	ActionExpand  RewriteAction = "expand"
	ActionShorten RewriteAction = "shorten"
	ActionCustom  RewriteAction = "custom"
)

// IsValid reports whether the action is one of the supported kinds.
func (a RewriteAction) IsValid() bool {
	switch a {
	case ActionRewrite, ActionExpand, ActionShorten, ActionCustom:
		return true
	}
	return false
}

// RequiresInstruction reports whether the action needs a free-text
// instruction before a rewrite can start.
func (a RewriteAction) RequiresInstruction() bool {
	return a == ActionCustom
}

// OffsetRange is a half-open [Start, End) character interval into a backing
// string. Offsets are rune-based, computed against the plain-text projection
// of the edited content.
type OffsetRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered by the range.
func (r OffsetRange) Len() int {
	return r.End - r.Start
}

// RewriteRequest carries everything the rewrite service needs for one call.
type RewriteRequest struct {
	Text        string        `json:"text" validate:"required"`
	Action      RewriteAction `json:"action" validate:"required"`
	Context     string        `json:"context,omitempty"`
	Instruction string        `json:"instruction,omitempty"`
	Language    string        `json:"language,omitempty"`
}
