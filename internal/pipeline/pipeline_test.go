package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/api"
	"github.com/agenthands/refinery/internal/extract"
	"github.com/agenthands/refinery/internal/schema"
	"github.com/agenthands/refinery/internal/tier2"
)

type fakeAdapter struct {
	metadata     map[string]any
	graph        extract.GraphResult
	metadataText string
	entitiesText string
	metadataDoc  string
}

func (f *fakeAdapter) ExtractMetadata(ctx context.Context, text, docType string, shape schema.Shape, template string) map[string]any {
	f.metadataText = text
	f.metadataDoc = docType
	if f.metadata == nil {
		return shape.Empty()
	}
	return f.metadata
}

func (f *fakeAdapter) ExtractEntities(ctx context.Context, text string) extract.GraphResult {
	f.entitiesText = text
	return f.graph
}

func (f *fakeAdapter) DescribeImage(ctx context.Context, imageBase64, contextHint string) extract.ImageDescription {
	return extract.ImageDescription{}
}

func (f *fakeAdapter) IsAvailable(ctx context.Context) bool { return true }

type fakeSubmitter struct {
	results []api.EnrichmentResult
	err     error
}

func (f *fakeSubmitter) SubmitResult(ctx context.Context, result api.EnrichmentResult) error {
	f.results = append(f.results, result)
	return f.err
}

func newTestPipeline(adapter extract.Adapter, submitter Submitter) *Pipeline {
	runner := tier2.NewRunner(nil, nil, zap.NewNop())
	return New(adapter, schema.NewRegistry(), runner, submitter, zap.NewNop())
}

func TestProcessMiddleChunkSkipsDocumentExtraction(t *testing.T) {
	adapter := &fakeAdapter{}
	submitter := &fakeSubmitter{}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{
		TaskID:      "t1",
		BaseID:      "doc-1",
		DocType:     "text",
		Text:        "middle of the document",
		ChunkIndex:  1,
		TotalChunks: 3,
		Collection:  "default",
	}
	require.NoError(t, p.Process(context.Background(), task))

	require.Len(t, submitter.results, 1)
	res := submitter.results[0]
	assert.Equal(t, "doc-1:1", res.ChunkID)
	assert.Nil(t, res.Tier3)
	assert.Nil(t, res.Entities)
	assert.Nil(t, res.Relationships)
	assert.Nil(t, res.Summary)
	assert.NotNil(t, res.Tier2.Entities)
	assert.Empty(t, adapter.metadataText)
}

func TestProcessLastChunkReassemblesFullText(t *testing.T) {
	adapter := &fakeAdapter{metadata: map[string]any{"summary": "All three chunks."}}
	submitter := &fakeSubmitter{}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{
		TaskID:      "t2",
		BaseID:      "doc-2",
		DocType:     "text",
		Text:        "part three",
		ChunkIndex:  2,
		TotalChunks: 3,
		AllChunks:   []string{"part one", "part two", "part three"},
	}
	require.NoError(t, p.Process(context.Background(), task))

	assert.Equal(t, "part one\n\npart two\n\npart three", adapter.metadataText)
	assert.Equal(t, adapter.metadataText, adapter.entitiesText)

	require.Len(t, submitter.results, 1)
	res := submitter.results[0]
	assert.NotNil(t, res.Tier3)
	assert.NotNil(t, res.Entities)
	assert.NotNil(t, res.Relationships)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "All three chunks.", *res.Summary)
}

func TestProcessLastChunkWithoutAllChunksUsesOwnText(t *testing.T) {
	adapter := &fakeAdapter{}
	submitter := &fakeSubmitter{}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{
		TaskID:      "t3",
		BaseID:      "doc-3",
		DocType:     "email",
		Text:        "only the last chunk",
		ChunkIndex:  4,
		TotalChunks: 5,
	}
	require.NoError(t, p.Process(context.Background(), task))

	assert.Equal(t, "only the last chunk", adapter.metadataText)
	assert.Equal(t, "email", adapter.metadataDoc)
	require.Len(t, submitter.results, 1)
	assert.NotNil(t, submitter.results[0].Tier3)
}

func TestProcessSingleChunkDocument(t *testing.T) {
	adapter := &fakeAdapter{metadata: map[string]any{"summary_medium": "One and done."}}
	submitter := &fakeSubmitter{}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{
		TaskID:      "t4",
		BaseID:      "doc-4",
		DocType:     "text",
		Text:        "whole document",
		ChunkIndex:  0,
		TotalChunks: 1,
	}
	require.NoError(t, p.Process(context.Background(), task))

	require.Len(t, submitter.results, 1)
	require.NotNil(t, submitter.results[0].Summary)
	assert.Equal(t, "One and done.", *submitter.results[0].Summary)
}

func TestProcessFiltersUnusableGraphRecords(t *testing.T) {
	adapter := &fakeAdapter{
		graph: extract.GraphResult{
			Entities: []extract.EntityRecord{
				{Name: "Acme", Type: "org"},
				{Name: "", Type: "mystery"},
			},
			Relationships: []extract.RelationshipRecord{
				{Source: "Acme", Target: "Bob", Type: "employs"},
				{Source: "", Target: "Bob"},
				{Source: "Acme", Target: ""},
			},
		},
	}
	submitter := &fakeSubmitter{}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{TaskID: "t5", BaseID: "doc-5", DocType: "text", Text: "x", ChunkIndex: 0, TotalChunks: 1}
	require.NoError(t, p.Process(context.Background(), task))

	res := submitter.results[0]
	require.Len(t, res.Entities, 1)
	assert.Equal(t, "Acme", res.Entities[0].Name)
	require.Len(t, res.Relationships, 1)
	assert.Equal(t, "employs", res.Relationships[0].Type)
}

func TestProcessNormalizesMetadataBeforeSubmission(t *testing.T) {
	adapter := &fakeAdapter{metadata: map[string]any{
		"summary": "An invoice.",
		"invoice": map[string]any{
			"is_invoice":     true,
			"invoice_number": "INV-9",
		},
	}}
	submitter := &fakeSubmitter{}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{TaskID: "t6", BaseID: "doc-6", DocType: "pdf", Text: "x", ChunkIndex: 0, TotalChunks: 1}
	require.NoError(t, p.Process(context.Background(), task))

	tier3 := submitter.results[0].Tier3
	invoice := tier3["invoice"].(map[string]any)
	assert.Equal(t, "INV-9", invoice["invoice_identifier"])
	assert.Contains(t, tier3["summary_medium"], "Invoice identifier: INV-9")
}

func TestProcessSubmissionErrorPropagates(t *testing.T) {
	adapter := &fakeAdapter{}
	submitter := &fakeSubmitter{err: errors.New("upstream down")}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{TaskID: "t7", BaseID: "doc-7", DocType: "text", Text: "x", ChunkIndex: 0, TotalChunks: 1}
	err := p.Process(context.Background(), task)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Len(t, submitter.results, 1)
}

func TestProcessUnknownDocTypeFallsBackToText(t *testing.T) {
	adapter := &fakeAdapter{}
	submitter := &fakeSubmitter{}
	p := newTestPipeline(adapter, submitter)

	task := api.Task{TaskID: "t8", BaseID: "doc-8", DocType: "parchment", Text: "x", ChunkIndex: 0, TotalChunks: 1}
	require.NoError(t, p.Process(context.Background(), task))

	assert.Equal(t, "parchment", adapter.metadataDoc)
	assert.NotNil(t, submitter.results[0].Tier3)
}
