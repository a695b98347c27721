// Package formedit wires the form-edit pipeline together: building form
// specifications from schema documents and applying client submissions to
// entity snapshots. The heavy lifting lives in pkg/schema, pkg/formspec,
// and pkg/update; this package is the convenience surface.
package formedit

import (
	"github.com/goliatone/go-formedit/pkg/formspec"
	"github.com/goliatone/go-formedit/pkg/schema"
	"github.com/goliatone/go-formedit/pkg/update"
)

// Action aliases the formspec action descriptor for callers that only
// import the root package.
type Action = formspec.Action

// Spec aliases the immutable form specification.
type Spec = formspec.Spec

// Option aliases the specification construction options.
type Option = formspec.Option

// Submission aliases one client interaction against a specification.
type Submission = update.Submission

// Outcome aliases the result handed to the notification layer.
type Outcome = update.Outcome

// Submission kinds, re-exported for root-package callers.
const (
	SubmissionSave   = update.SubmissionSave
	SubmissionAppend = update.SubmissionAppend
	SubmissionRemove = update.SubmissionRemove
)

// Specification options, re-exported for root-package callers.
var (
	WithDeleteAction = formspec.WithDeleteAction
	WithAllowFields  = formspec.WithAllowFields
)

// BuildSpec parses the full entity schema document, optionally derives the
// allow-list from an update schema document, and assembles the form
// specification. Documents may be JSON or YAML. A nil update document
// leaves the allow-list empty, making every field editable.
func BuildSpec(title string, full, updateDoc []byte, action Action, options ...formspec.Option) (*Spec, error) {
	entity, err := schema.ParseBytes(full)
	if err != nil {
		return nil, err
	}
	if len(updateDoc) > 0 {
		updateSchema, err := schema.ParseBytes(updateDoc)
		if err != nil {
			return nil, err
		}
		options = append([]formspec.Option{formspec.WithUpdateSchema(updateSchema)}, options...)
	}
	return formspec.New(title, entity, action, options...)
}

// HandleSubmission applies one submission against an entity snapshot and
// returns the next entity state plus the outcome to surface.
func HandleSubmission(entity any, spec *Spec, sub Submission) (any, Outcome) {
	return update.Apply(entity, spec, sub)
}
