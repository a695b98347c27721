package update

import (
	"github.com/goliatone/go-formedit/pkg/fieldpath"
	"github.com/goliatone/go-formedit/pkg/formspec"
)

// SubmissionKind distinguishes a field save from the out-of-band array
// control actions. Array actions arrive on a side channel, never as field
// names.
type SubmissionKind string

const (
	SubmissionSave   SubmissionKind = "save"
	SubmissionAppend SubmissionKind = "append"
	SubmissionRemove SubmissionKind = "remove"
)

// User-visible outcome messages, one per outcome type. Upstream failures
// surface their own text verbatim.
const (
	MsgSaved       = "Saved successfully"
	MsgItemAdded   = "Item added successfully"
	MsgItemRemoved = "Item removed successfully"
)

// Submission is one client interaction against a form specification.
type Submission struct {
	Kind   SubmissionKind
	Edits  EditSet        // SubmissionSave
	Target fieldpath.Path // array path for SubmissionAppend / SubmissionRemove
	Index  int            // element index for SubmissionRemove
}

// Outcome is the result handed to the notification layer.
type Outcome struct {
	OK      bool
	Message string
}

// Apply runs one submission against an entity snapshot under the given
// specification and returns the next entity state plus the outcome to
// surface. Saves never fail as a whole: disallowed or undescribed fields
// are dropped individually. Array mutations fail loudly since their
// errors indicate a stale or broken client view.
func Apply(entity any, spec *formspec.Spec, sub Submission) (any, Outcome) {
	switch sub.Kind {
	case SubmissionAppend:
		next, err := AppendDefault(entity, spec.Schema(), sub.Target)
		if err != nil {
			return entity, Outcome{Message: err.Error()}
		}
		return next, Outcome{OK: true, Message: MsgItemAdded}
	case SubmissionRemove:
		next, err := RemoveAt(entity, sub.Target, sub.Index)
		if err != nil {
			return entity, Outcome{Message: err.Error()}
		}
		return next, Outcome{OK: true, Message: MsgItemRemoved}
	default:
		next := ApplyEdits(entity, spec.Schema(), spec.Allow(), sub.Edits)
		return next, Outcome{OK: true, Message: MsgSaved}
	}
}
