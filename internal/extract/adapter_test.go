package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/schema"
)

func TestExtractMetadataUsesTemplate(t *testing.T) {
	mock := &MockClient{Responses: []string{`{"summary_short":"ok"}`}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())
	reg := schema.NewRegistry()
	shape, tmpl := reg.Lookup(schema.DocTypeText)

	result := a.ExtractMetadata(context.Background(), "the document body", schema.DocTypeText, shape, tmpl)

	assert.Equal(t, "ok", result["summary_short"])
	require.Len(t, mock.Requests, 1)
	prompt := mock.Requests[0].Prompt
	assert.Contains(t, prompt, "the document body")
	assert.Contains(t, prompt, `"summary_short"`)
	assert.NotContains(t, prompt, "{text}")
	assert.NotContains(t, prompt, "{schema}")
}

func TestExtractMetadataGenericPromptWithoutTemplate(t *testing.T) {
	mock := &MockClient{Responses: []string{`{}`}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())
	reg := schema.NewRegistry()
	shape, _ := reg.Lookup(schema.DocTypeCode)

	a.ExtractMetadata(context.Background(), "func main() {}", schema.DocTypeCode, shape, "")

	require.Len(t, mock.Requests, 1)
	assert.Contains(t, mock.Requests[0].Prompt, "Analyze this code document")
	assert.Contains(t, mock.Requests[0].Prompt, "func main() {}")
}

func TestExtractMetadataTruncatesText(t *testing.T) {
	mock := &MockClient{Responses: []string{`{}`}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())
	reg := schema.NewRegistry()
	shape, tmpl := reg.Lookup(schema.DocTypeText)

	long := strings.Repeat("x", maxPromptChars+500) + "TAIL"
	a.ExtractMetadata(context.Background(), long, schema.DocTypeText, shape, tmpl)

	require.Len(t, mock.Requests, 1)
	assert.NotContains(t, mock.Requests[0].Prompt, "TAIL")
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("ü", maxPromptChars+100)

	out := truncate(long, maxPromptChars)

	assert.Equal(t, maxPromptChars, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))

	// Short multibyte text passes through untouched.
	assert.Equal(t, "héllo", truncate("héllo", maxPromptChars))
}

func TestExtractEntities(t *testing.T) {
	mock := &MockClient{Responses: []string{`{
		"entities": [
			{"name": "Alice", "type": "person", "description": "engineer"},
			{"name": "refinery", "type": "project", "description": ""}
		],
		"relationships": [
			{"source": "Alice", "target": "refinery", "type": "maintains", "description": "primary maintainer"}
		]
	}`}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())

	result := a.ExtractEntities(context.Background(), "Alice maintains refinery.")

	require.Len(t, result.Entities, 2)
	assert.Equal(t, "Alice", result.Entities[0].Name)
	assert.Equal(t, "person", result.Entities[0].Type)
	require.Len(t, result.Relationships, 1)
	assert.Equal(t, "maintains", result.Relationships[0].Type)
}

func TestExtractEntitiesSalvagesValidRecords(t *testing.T) {
	// One malformed record must not discard the rest of the graph.
	mock := &MockClient{Responses: []string{`{
		"entities": [
			{"type": "person"},
			{"name": 42, "type": "number"},
			{"name": "Alice", "type": "person", "description": "engineer"}
		],
		"relationships": [
			{"source": "Alice"},
			{"source": "Alice", "target": "Bob", "type": "knows", "description": ""}
		]
	}`}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())

	result := a.ExtractEntities(context.Background(), "text")

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "Alice", result.Entities[0].Name)
	require.Len(t, result.Relationships, 1)
	assert.Equal(t, "knows", result.Relationships[0].Type)
}

func TestExtractEntitiesMissingRelationshipsKeepsEntities(t *testing.T) {
	mock := &MockClient{Responses: []string{`{
		"entities": [{"name": "Acme", "type": "org", "description": ""}]
	}`}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())

	result := a.ExtractEntities(context.Background(), "text")

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "Acme", result.Entities[0].Name)
	assert.Empty(t, result.Relationships)
}

func TestExtractEntitiesTotalFailureIsEmptyGraph(t *testing.T) {
	mock := &MockClient{
		Errs: []error{errors.New("down"), errors.New("down")},
	}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())

	result := a.ExtractEntities(context.Background(), "text")

	// Structured fallback yields the empty graph shape, which validates.
	assert.Empty(t, result.Entities)
	assert.Empty(t, result.Relationships)
}

func TestDescribeImage(t *testing.T) {
	mock := &MockClient{Responses: []string{`{
		"description": "a whiteboard",
		"detected_objects": ["whiteboard", "marker"],
		"ocr_text": "Q3 roadmap",
		"image_type": "photo"
	}`}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())

	desc := a.DescribeImage(context.Background(), "aW1n", "meeting room photo")

	assert.Equal(t, "a whiteboard", desc.Description)
	assert.Equal(t, []string{"whiteboard", "marker"}, desc.DetectedObjects)
	assert.Equal(t, "Q3 roadmap", desc.OCRText)
	assert.Equal(t, "photo", desc.ImageType)
	require.Len(t, mock.Requests, 1)
	assert.Contains(t, mock.Requests[0].Prompt, "Context: meeting room photo")
	assert.Equal(t, "aW1n", mock.Requests[0].ImageBase64)
}

func TestDescribeImageFailureReturnsEmptyRecord(t *testing.T) {
	mock := &MockClient{
		Errs: []error{errors.New("no vision"), errors.New("no vision")},
	}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())

	desc := a.DescribeImage(context.Background(), "aW1n", "")

	// The shape-conformant fallback carries empty values, not absent ones.
	assert.Equal(t, "", desc.Description)
	assert.Equal(t, []string{}, desc.DetectedObjects)
	assert.Equal(t, "", desc.OCRText)
	assert.Equal(t, "", desc.ImageType)
}

func TestIsAvailable(t *testing.T) {
	mock := &MockClient{Responses: []string{"pong"}}
	a := NewLLMAdapter(mock, 1024, zap.NewNop())

	assert.True(t, a.IsAvailable(context.Background()))
	require.Len(t, mock.Requests, 1)
	assert.Equal(t, 5, mock.Requests[0].MaxTokens)
	assert.False(t, mock.Requests[0].JSONMode)

	down := &MockClient{Errs: []error{errors.New("unreachable")}}
	a = NewLLMAdapter(down, 1024, zap.NewNop())
	assert.False(t, a.IsAvailable(context.Background()))
}
