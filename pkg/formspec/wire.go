package formspec

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formedit/pkg/fieldpath"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// wireSpec is the JSON shape of the specification:
//
//	{ "title": ..., "schema": ...,
//	  "updateAction": {"method","url","allowFields":[...]},
//	  "deleteAction": {"method","url"} }
//
// allowFields entries use schema-path syntax rooted at "$"; an empty list
// means every field is editable.
type wireSpec struct {
	Title        string        `json:"title"`
	Schema       schema.Schema `json:"schema"`
	UpdateAction wireUpdate    `json:"updateAction"`
	DeleteAction *wireAction   `json:"deleteAction,omitempty"`
}

type wireAction struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

type wireUpdate struct {
	Method      string   `json:"method"`
	URL         string   `json:"url"`
	AllowFields []string `json:"allowFields"`
}

// MarshalJSON emits the wire contract for the specification.
func (s *Spec) MarshalJSON() ([]byte, error) {
	allow := make([]string, 0, len(s.allowFields))
	for _, path := range s.allowFields {
		allow = append(allow, "$."+path.SchemaPath().String())
	}
	wire := wireSpec{
		Title:  s.title,
		Schema: s.entity,
		UpdateAction: wireUpdate{
			Method:      s.updateAction.Method,
			URL:         s.updateAction.URL,
			AllowFields: allow,
		},
	}
	if s.deleteAction != nil {
		wire.DeleteAction = &wireAction{Method: s.deleteAction.Method, URL: s.deleteAction.URL}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON reconstructs a specification from its wire form.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var wire wireSpec
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("formspec: decode specification: %w", err)
	}

	paths := make([]fieldpath.Path, 0, len(wire.UpdateAction.AllowFields))
	for _, entry := range wire.UpdateAction.AllowFields {
		path, err := fieldpath.Parse(entry)
		if err != nil {
			return err
		}
		paths = append(paths, path.SchemaPath())
	}

	options := []Option{WithAllowFields(paths...)}
	if wire.DeleteAction != nil {
		options = append(options, WithDeleteAction(Action{
			Method: wire.DeleteAction.Method,
			URL:    wire.DeleteAction.URL,
		}))
	}
	spec, err := New(
		wire.Title,
		wire.Schema,
		Action{Method: wire.UpdateAction.Method, URL: wire.UpdateAction.URL},
		options...,
	)
	if err != nil {
		return err
	}
	*s = *spec
	return nil
}
