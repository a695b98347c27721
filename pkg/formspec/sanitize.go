package formspec

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formedit/pkg/schema"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips markup from human-readable text before it enters a
// wire payload. Schema documents come from backend authors, but the
// specification travels to browsers, so titles and descriptions are treated
// as untrusted.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(policy().Sanitize(trimmed))
}

func policy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// sanitizeSchemaText walks the schema tree and scrubs every title and
// description in place on a copy.
func sanitizeSchemaText(node schema.Schema) schema.Schema {
	node.Title = sanitizeText(node.Title)
	node.Description = sanitizeText(node.Description)

	if len(node.Properties) > 0 {
		props := make(map[string]schema.Schema, len(node.Properties))
		for name, child := range node.Properties {
			props[name] = sanitizeSchemaText(child)
		}
		node.Properties = props
	}
	if len(node.Defs) > 0 {
		defs := make(map[string]schema.Schema, len(node.Defs))
		for name, child := range node.Defs {
			defs[name] = sanitizeSchemaText(child)
		}
		node.Defs = defs
	}
	if node.Items != nil {
		items := sanitizeSchemaText(*node.Items)
		node.Items = &items
	}
	node.AnyOf = sanitizeBranches(node.AnyOf)
	node.OneOf = sanitizeBranches(node.OneOf)
	node.AllOf = sanitizeBranches(node.AllOf)
	return node
}

func sanitizeBranches(branches []schema.Schema) []schema.Schema {
	if len(branches) == 0 {
		return branches
	}
	out := make([]schema.Schema, len(branches))
	for i, branch := range branches {
		out[i] = sanitizeSchemaText(branch)
	}
	return out
}
