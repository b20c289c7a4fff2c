// Package schema is the registry of typed metadata shapes and prompt
// templates, one pair per document type. Shapes are static lookup data,
// defined at process start and never mutated.
package schema

import "encoding/json"

// Kind is the semantic type of a metadata field.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindStringList
	KindObject
	KindObjectList
)

// Field describes one metadata field. Object kinds carry nested fields.
type Field struct {
	Name        string
	Kind        Kind
	Description string
	Fields      []Field
}

// Shape is the typed metadata shape for one document type.
type Shape struct {
	Name   string
	Fields []Field
}

// Empty returns the shape-conformant empty mapping: empty string for
// string fields, empty list for list fields, empty object for object
// fields. This is the terminal fallback when decoding fails outright.
func (s Shape) Empty() map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		switch f.Kind {
		case KindString:
			out[f.Name] = ""
		case KindStringList, KindObjectList:
			out[f.Name] = []any{}
		case KindObject:
			out[f.Name] = map[string]any{}
		}
	}
	return out
}

// JSONSchema returns the shape as a JSON-Schema style generic map, the
// form substituted into prompt templates and shown to the model.
func (s Shape) JSONSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": fieldProperties(s.Fields),
	}
}

// Render returns the indented JSON text of the schema.
func (s Shape) Render() string {
	b, err := json.MarshalIndent(s.JSONSchema(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func fieldProperties(fields []Field) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.Name] = f.schema()
	}
	return props
}

func (f Field) schema() map[string]any {
	var m map[string]any
	switch f.Kind {
	case KindBool:
		m = map[string]any{"type": "boolean"}
	case KindStringList:
		m = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case KindObject:
		m = map[string]any{"type": "object", "properties": fieldProperties(f.Fields)}
	case KindObjectList:
		m = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"properties": fieldProperties(f.Fields),
			},
		}
	default:
		m = map[string]any{"type": "string"}
	}
	if f.Description != "" {
		m["description"] = f.Description
	}
	return m
}
