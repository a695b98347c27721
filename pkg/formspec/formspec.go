// Package formspec defines the form specification transmitted from the
// backend to the renderer: a title, the entity's JSON Schema, an
// allow-list of editable schema paths, and the action descriptors the
// client submits against.
package formspec

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formedit/pkg/fieldpath"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Action describes an HTTP endpoint the client calls for an operation.
type Action struct {
	Method string
	URL    string
}

func (a Action) validate(kinds ...string) error {
	method := strings.ToUpper(strings.TrimSpace(a.Method))
	allowed := false
	for _, kind := range kinds {
		if method == kind {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("formspec: method %q is not allowed (want one of %s)", a.Method, strings.Join(kinds, ", "))
	}
	if strings.TrimSpace(a.URL) == "" {
		return errors.New("formspec: action url is required")
	}
	return nil
}

// Spec is the immutable form specification. Construct it with New; the
// zero value is not usable.
type Spec struct {
	title        string
	entity       schema.Schema
	allowFields  []fieldpath.Path
	allow        schema.AllowSet
	updateAction Action
	deleteAction *Action
}

// Option configures spec construction.
type Option func(*specOptions) error

type specOptions struct {
	allowFields  []fieldpath.Path
	deleteAction *Action
}

// WithDeleteAction attaches an optional delete descriptor.
func WithDeleteAction(action Action) Option {
	return func(opts *specOptions) error {
		if err := action.validate(http.MethodDelete); err != nil {
			return err
		}
		opts.deleteAction = &action
		return nil
	}
}

// WithAllowFields pins the allow-list to an explicit set of schema paths.
func WithAllowFields(paths ...fieldpath.Path) Option {
	return func(opts *specOptions) error {
		opts.allowFields = append([]fieldpath.Path(nil), paths...)
		return nil
	}
}

// WithUpdateSchema derives the allow-list from an update schema describing
// the editable subset of the entity. The schema must be an object; callers
// with no update document simply omit the option, leaving the allow-list
// empty so every field stays editable.
func WithUpdateSchema(update schema.Schema) Option {
	return func(opts *specOptions) error {
		paths, err := schema.AllowFields(update)
		if err != nil {
			return err
		}
		opts.allowFields = paths
		return nil
	}
}

// New builds a form specification. Human-readable text destined for the
// wire (the title and any schema titles/descriptions) is sanitized before
// it leaves this constructor.
func New(title string, entity schema.Schema, updateAction Action, options ...Option) (*Spec, error) {
	if err := updateAction.validate(http.MethodPost, http.MethodPut, http.MethodPatch); err != nil {
		return nil, err
	}

	opts := specOptions{}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(&opts); err != nil {
			return nil, err
		}
	}

	for _, path := range opts.allowFields {
		if _, err := schema.Resolve(entity, path.SchemaPath()); err != nil {
			return nil, fmt.Errorf("formspec: allow field %q: %w", path, err)
		}
	}

	return &Spec{
		title:        sanitizeText(title),
		entity:       sanitizeSchemaText(entity),
		allowFields:  opts.allowFields,
		allow:        schema.NewAllowSet(opts.allowFields...),
		updateAction: normalizeAction(updateAction),
		deleteAction: normalizeActionPtr(opts.deleteAction),
	}, nil
}

func normalizeAction(action Action) Action {
	return Action{
		Method: strings.ToUpper(strings.TrimSpace(action.Method)),
		URL:    strings.TrimSpace(action.URL),
	}
}

func normalizeActionPtr(action *Action) *Action {
	if action == nil {
		return nil
	}
	normalized := normalizeAction(*action)
	return &normalized
}

// Title returns the sanitized display title.
func (s *Spec) Title() string {
	return s.title
}

// Schema returns the full entity schema.
func (s *Spec) Schema() schema.Schema {
	return s.entity
}

// AllowFields returns the allow-listed schema paths in derivation order.
func (s *Spec) AllowFields() []fieldpath.Path {
	return append([]fieldpath.Path(nil), s.allowFields...)
}

// Allow returns the membership set for pipeline filtering. The empty set
// marks the permissive spec where every field is editable.
func (s *Spec) Allow() schema.AllowSet {
	return s.allow
}

// UpdateAction returns the submit descriptor.
func (s *Spec) UpdateAction() Action {
	return s.updateAction
}

// DeleteAction returns the optional delete descriptor.
func (s *Spec) DeleteAction() (Action, bool) {
	if s.deleteAction == nil {
		return Action{}, false
	}
	return *s.deleteAction, true
}
