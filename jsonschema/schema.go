// Package jsonschema holds a minimal JSON Schema (draft 2020-12)
// representation used for export. Keep this struct small and extend it only
// when the exported rule set needs a keyword.
package jsonschema

// Schema is marshaled with struct field order, so emission is deterministic.
type Schema struct {
	// Document metadata (root only)
	Dialect string `json:"$schema,omitempty"`
	ID      string `json:"$id,omitempty"`
	Title   string `json:"title,omitempty"`

	// Annotation
	Description string `json:"description,omitempty"`

	// Core
	Type    string `json:"type,omitempty"`
	Const   any    `json:"const,omitempty"`
	Default any    `json:"default,omitempty"`

	// String
	Pattern   string `json:"pattern,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PatternProperties    map[string]*Schema `json:"patternProperties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	// Composition
	AnyOf []*Schema `json:"anyOf,omitempty"`

	// Reuse
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// Int returns a pointer for the optional integer keywords.
func Int(v int) *int { return &v }
