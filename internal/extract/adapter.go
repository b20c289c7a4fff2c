package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/llm"
	"github.com/agenthands/refinery/internal/schema"
)

// maxPromptChars caps the document text included in a prompt. Cost and
// context-window control, applied before prompt construction.
const maxPromptChars = 8000

type EntityRecord struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type RelationshipRecord struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type GraphResult struct {
	Entities      []EntityRecord       `json:"entities"`
	Relationships []RelationshipRecord `json:"relationships"`
}

type ImageDescription struct {
	Description     string   `json:"description"`
	DetectedObjects []string `json:"detected_objects"`
	OCRText         string   `json:"ocr_text"`
	ImageType       string   `json:"image_type"`
}

// Adapter is the document-level extraction capability. All provider
// families satisfy this same contract; they differ only in the injected
// completion client.
type Adapter interface {
	ExtractMetadata(ctx context.Context, text string, docType string, shape schema.Shape, promptTemplate string) map[string]any
	ExtractEntities(ctx context.Context, text string) GraphResult
	DescribeImage(ctx context.Context, imageBase64 string, contextHint string) ImageDescription
	IsAvailable(ctx context.Context) bool
}

const entitiesPrompt = `Extract entities and relationships from this text.

Text:
%s

For each entity, provide:
- name: entity name
- type: entity type (person, class, concept, project, org, etc.)
- description: brief description

For each relationship:
- source: source entity name
- target: target entity name
- type: relationship type (uses, depends-on, discusses, implements, etc.)
- description: brief description`

const imageDescPrompt = `Describe this image in detail. Provide:
- description: A detailed description of the image
- detected_objects: List of main objects/entities visible
- ocr_text: Any text visible in the image
- image_type: Classification (photo, diagram, screenshot, chart)

%s

Respond in JSON format.`

// graphSchemaJSON is the fixed validation schema for entity/relationship
// output. Item requirements match the emission rules: an entity needs a
// name, a relationship needs both endpoints.
const graphSchemaJSON = `{
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string"},
          "description": {"type": "string"}
        },
        "required": ["name"]
      }
    },
    "relationships": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string"},
          "target": {"type": "string"},
          "type": {"type": "string"},
          "description": {"type": "string"}
        },
        "required": ["source", "target"]
      }
    }
  },
  "required": ["entities", "relationships"]
}`

var graphShape = schema.Shape{
	Name: "EntityGraph",
	Fields: []schema.Field{
		{Name: "entities", Kind: schema.KindObjectList, Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString},
			{Name: "type", Kind: schema.KindString},
			{Name: "description", Kind: schema.KindString},
		}},
		{Name: "relationships", Kind: schema.KindObjectList, Fields: []schema.Field{
			{Name: "source", Kind: schema.KindString},
			{Name: "target", Kind: schema.KindString},
			{Name: "type", Kind: schema.KindString},
			{Name: "description", Kind: schema.KindString},
		}},
	},
}

var imageDescShape = schema.Shape{
	Name: "ImageDescription",
	Fields: []schema.Field{
		{Name: "description", Kind: schema.KindString},
		{Name: "detected_objects", Kind: schema.KindStringList},
		{Name: "ocr_text", Kind: schema.KindString},
		{Name: "image_type", Kind: schema.KindString},
	},
}

// LLMAdapter implements Adapter over a StructuredExtractor.
type LLMAdapter struct {
	structured  *StructuredExtractor
	client      llm.CompletionClient
	graphSchema *jsonschema.Schema
	logger      *zap.Logger
}

func NewLLMAdapter(client llm.CompletionClient, maxTokens int, logger *zap.Logger) *LLMAdapter {
	return &LLMAdapter{
		structured:  NewStructuredExtractor(client, maxTokens, logger),
		client:      client,
		graphSchema: jsonschema.MustCompileString("graph.json", graphSchemaJSON),
		logger:      logger,
	}
}

func (a *LLMAdapter) ExtractMetadata(ctx context.Context, text string, docType string, shape schema.Shape, promptTemplate string) map[string]any {
	rid := uuid.New().String()
	excerpt := truncate(text, maxPromptChars)

	var prompt string
	if promptTemplate != "" {
		prompt = strings.ReplaceAll(promptTemplate, "{text}", excerpt)
		prompt = strings.ReplaceAll(prompt, "{schema}", shape.Render())
	} else {
		prompt = fmt.Sprintf(
			"Analyze this %s document and extract metadata according to the schema.\n\n"+
				"Text:\n%s\n\nSchema:\n%s\n\nExtract the metadata as JSON.",
			docType, excerpt, shape.Render())
	}

	a.logger.Info("extract.metadata.start",
		zap.String("req_id", rid),
		zap.String("doc_type", docType),
		zap.Int("text_len", len(text)))

	result := a.structured.Extract(ctx, prompt, shape, llm.TierFast)

	a.logger.Info("extract.metadata.done",
		zap.String("req_id", rid),
		zap.Int("fields", len(result)))
	return result
}

func (a *LLMAdapter) ExtractEntities(ctx context.Context, text string) GraphResult {
	rid := uuid.New().String()
	prompt := fmt.Sprintf(entitiesPrompt, truncate(text, maxPromptChars))

	obj := a.structured.Extract(ctx, prompt, graphShape, llm.TierCapable)
	if err := a.graphSchema.Validate(obj); err != nil {
		// Keep whatever records are individually usable; one malformed
		// entity must not zero out the rest of the graph.
		a.logger.Warn("extract.entities.schema_invalid",
			zap.String("req_id", rid),
			zap.Error(err))
		obj = salvageGraph(obj)
	}

	var result GraphResult
	if err := roundTrip(obj, &result); err != nil {
		a.logger.Warn("extract.entities.shape_mismatch",
			zap.String("req_id", rid),
			zap.Error(err))
		return GraphResult{}
	}

	a.logger.Info("extract.entities.done",
		zap.String("req_id", rid),
		zap.Int("entities", len(result.Entities)),
		zap.Int("relationships", len(result.Relationships)))
	return result
}

func (a *LLMAdapter) DescribeImage(ctx context.Context, imageBase64 string, contextHint string) ImageDescription {
	ctxLine := ""
	if contextHint != "" {
		ctxLine = "Context: " + contextHint
	}
	prompt := fmt.Sprintf(imageDescPrompt, ctxLine)

	obj := a.structured.ExtractWithImage(ctx, prompt, imageBase64, imageDescShape, llm.TierVision)

	var desc ImageDescription
	if err := roundTrip(obj, &desc); err != nil {
		a.logger.Warn("extract.image.shape_mismatch", zap.Error(err))
		return ImageDescription{}
	}
	return desc
}

// IsAvailable probes the provider with one minimal low-token completion.
func (a *LLMAdapter) IsAvailable(ctx context.Context) bool {
	_, err := a.client.Complete(ctx, llm.Request{
		Tier:      llm.TierFast,
		Prompt:    "test",
		MaxTokens: 5,
	})
	if err != nil {
		a.logger.Warn("extract.availability_check_failed", zap.Error(err))
		return false
	}
	return true
}

// salvageGraph rebuilds a graph mapping from the individually valid
// records in obj: entities need a string name, relationships both string
// endpoints. Wrong-typed or incomplete records are dropped.
func salvageGraph(obj map[string]any) map[string]any {
	entities := []any{}
	if list, ok := obj["entities"].([]any); ok {
		for _, item := range list {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, _ := rec["name"].(string)
			if name == "" {
				continue
			}
			typ, _ := rec["type"].(string)
			desc, _ := rec["description"].(string)
			entities = append(entities, map[string]any{
				"name": name, "type": typ, "description": desc,
			})
		}
	}

	relationships := []any{}
	if list, ok := obj["relationships"].([]any); ok {
		for _, item := range list {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			source, _ := rec["source"].(string)
			target, _ := rec["target"].(string)
			if source == "" || target == "" {
				continue
			}
			typ, _ := rec["type"].(string)
			desc, _ := rec["description"].(string)
			relationships = append(relationships, map[string]any{
				"source": source, "target": target, "type": typ, "description": desc,
			})
		}
	}

	return map[string]any{"entities": entities, "relationships": relationships}
}

// truncate caps s at max characters, never splitting a multibyte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// roundTrip re-marshals a decoded mapping into a typed value.
func roundTrip(obj map[string]any, dst any) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
