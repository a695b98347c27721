// Package openapi derives form material from OpenAPI 3 documents: the
// entity schema comes from a named component schema and the update schema
// from the request body of the operation that edits it, so the allow-list
// mirrors what the API actually accepts.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formedit/pkg/formspec"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// maxConvertDepth bounds schema conversion; resolved OpenAPI documents can
// contain reference cycles.
const maxConvertDepth = 64

// ExtractOptions selects which parts of the document feed the form.
type ExtractOptions struct {
	// SchemaName names the components.schemas entry describing the entity.
	SchemaName string
	// UpdatePath pins the path item holding the update operation; when
	// empty the first path carrying a PATCH, PUT, or POST wins.
	UpdatePath string
}

// EntityForm is the extracted material, ready for formspec.New.
type EntityForm struct {
	Title        string
	Entity       schema.Schema
	Update       *schema.Schema
	UpdateAction formspec.Action
	DeleteAction *formspec.Action
}

// Spec assembles a form specification from the extracted material.
func (f EntityForm) Spec() (*formspec.Spec, error) {
	options := []formspec.Option{}
	if f.Update != nil {
		options = append(options, formspec.WithUpdateSchema(*f.Update))
	}
	if f.DeleteAction != nil {
		options = append(options, formspec.WithDeleteAction(*f.DeleteAction))
	}
	return formspec.New(f.Title, f.Entity, f.UpdateAction, options...)
}

// ExtractEntityForm loads an OpenAPI 3 payload and derives the entity
// schema, the update schema, and the action descriptors.
func ExtractEntityForm(ctx context.Context, raw []byte, opts ExtractOptions) (EntityForm, error) {
	if len(raw) == 0 {
		return EntityForm{}, errors.New("openapi: document payload is empty")
	}
	name := strings.TrimSpace(opts.SchemaName)
	if name == "" {
		return EntityForm{}, errors.New("openapi: schema name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return EntityForm{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return EntityForm{}, fmt.Errorf("openapi: validate document: %w", err)
	}

	if doc.Components == nil || doc.Components.Schemas == nil {
		return EntityForm{}, errors.New("openapi: document has no component schemas")
	}
	componentRef, ok := doc.Components.Schemas[name]
	if !ok {
		return EntityForm{}, fmt.Errorf("openapi: component schema %q not found", name)
	}
	entity, err := convertSchema(componentRef, 0)
	if err != nil {
		return EntityForm{}, err
	}
	if entity.Title == "" {
		entity.Title = name
	}

	form := EntityForm{Title: entity.Title, Entity: entity}
	if err := collectActions(doc, opts, &form); err != nil {
		return EntityForm{}, err
	}
	if form.UpdateAction.URL == "" {
		return EntityForm{}, errors.New("openapi: no update operation found")
	}
	return form, nil
}

func collectActions(doc *openapi3.T, opts ExtractOptions, form *EntityForm) error {
	if doc.Paths == nil {
		return errors.New("openapi: document has no paths")
	}
	items := doc.Paths.Map()
	paths := make([]string, 0, len(items))
	for path := range items {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		item := items[path]
		if item == nil {
			continue
		}
		if opts.UpdatePath != "" && path != opts.UpdatePath {
			continue
		}
		candidates := []struct {
			method    string
			operation *openapi3.Operation
		}{
			{http.MethodPatch, item.Patch},
			{http.MethodPut, item.Put},
			{http.MethodPost, item.Post},
		}
		for _, candidate := range candidates {
			if candidate.operation == nil || form.UpdateAction.URL != "" {
				continue
			}
			update, err := requestSchema(candidate.operation.RequestBody)
			if err != nil {
				return err
			}
			form.Update = update
			form.UpdateAction = formspec.Action{Method: candidate.method, URL: path}
			if summary := strings.TrimSpace(candidate.operation.Summary); summary != "" {
				form.Title = summary
			}
		}
		if item.Delete != nil && form.UpdateAction.URL == path {
			form.DeleteAction = &formspec.Action{Method: http.MethodDelete, URL: path}
		}
	}
	return nil
}

// requestSchema pulls the JSON request body schema, when one is declared.
func requestSchema(body *openapi3.RequestBodyRef) (*schema.Schema, error) {
	if body == nil || body.Value == nil {
		return nil, nil
	}
	media, ok := body.Value.Content["application/json"]
	if !ok || media.Schema == nil {
		return nil, nil
	}
	converted, err := convertSchema(media.Schema, 0)
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

func convertSchema(ref *openapi3.SchemaRef, depth int) (schema.Schema, error) {
	if depth >= maxConvertDepth {
		return schema.Schema{}, errors.New("openapi: schema nesting exceeds conversion depth")
	}
	if ref == nil || ref.Value == nil {
		return schema.Schema{}, errors.New("openapi: schema reference is unresolved")
	}
	src := ref.Value

	out := schema.Schema{
		Title:       src.Title,
		Description: src.Description,
		Format:      src.Format,
		Default:     src.Default,
		Pattern:     src.Pattern,
	}
	kind, err := kindFromTypes(src.Type)
	if err != nil {
		return schema.Schema{}, err
	}
	out.Kind = kind

	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}

	if len(src.Properties) > 0 {
		out.Properties = make(map[string]schema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			converted, err := convertSchema(property, depth+1)
			if err != nil {
				return schema.Schema{}, err
			}
			out.Properties[name] = converted
		}
	}
	if src.Items != nil {
		converted, err := convertSchema(src.Items, depth+1)
		if err != nil {
			return schema.Schema{}, err
		}
		out.Items = &converted
	}
	for _, group := range []struct {
		refs   openapi3.SchemaRefs
		target *[]schema.Schema
	}{
		{src.AnyOf, &out.AnyOf},
		{src.OneOf, &out.OneOf},
		{src.AllOf, &out.AllOf},
	} {
		for _, branchRef := range group.refs {
			converted, err := convertSchema(branchRef, depth+1)
			if err != nil {
				return schema.Schema{}, err
			}
			*group.target = append(*group.target, converted)
		}
	}

	return out, nil
}

func kindFromTypes(types *openapi3.Types) (schema.Kind, error) {
	if types == nil {
		return "", nil
	}
	values := types.Slice()
	var first schema.Kind
	for _, value := range values {
		kind := schema.Kind(value)
		switch kind {
		case schema.KindString, schema.KindNumber, schema.KindInteger,
			schema.KindBoolean, schema.KindObject, schema.KindArray, schema.KindNull:
		default:
			return "", fmt.Errorf("openapi: unsupported schema type %q", value)
		}
		if kind != schema.KindNull && first == "" {
			first = kind
		}
	}
	if first == "" && len(values) > 0 {
		return schema.KindNull, nil
	}
	return first, nil
}
