// Package pipeline drives one enrichment task end to end: per-chunk
// statistical extraction, document-level LLM extraction on a document's
// final chunk, and a single result submission.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/api"
	"github.com/agenthands/refinery/internal/extract"
	"github.com/agenthands/refinery/internal/schema"
	"github.com/agenthands/refinery/internal/tier2"
)

// Submitter delivers one finished result upstream.
type Submitter interface {
	SubmitResult(ctx context.Context, result api.EnrichmentResult) error
}

type Pipeline struct {
	adapter   extract.Adapter
	registry  *schema.Registry
	tier2     *tier2.Runner
	submitter Submitter
	logger    *zap.Logger
}

func New(adapter extract.Adapter, registry *schema.Registry, runner *tier2.Runner, submitter Submitter, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		adapter:   adapter,
		registry:  registry,
		tier2:     runner,
		submitter: submitter,
		logger:    logger,
	}
}

// documentResult is what document-level extraction yields for the last
// chunk of a document.
type documentResult struct {
	tier3         map[string]any
	entities      []extract.EntityRecord
	relationships []extract.RelationshipRecord
	summary       string
}

// Process runs the full pipeline for one task. Tier-2 always runs;
// document-level extraction runs only when this is the document's last
// chunk. Exactly one submission happens per call, and a submission
// failure is returned to the caller so the owning queue can retry.
func (p *Pipeline) Process(ctx context.Context, task api.Task) error {
	p.logger.Info("task.start",
		zap.String("base_id", task.BaseID),
		zap.String("doc_type", task.DocType),
		zap.Int("chunk", task.ChunkIndex),
		zap.Int("total_chunks", task.TotalChunks))

	tier2Data := p.tier2.Run(task.Text)

	result := api.EnrichmentResult{
		TaskID:     task.TaskID,
		ChunkID:    task.ChunkID(),
		Collection: task.Collection,
		Tier2:      tier2Data,
	}

	if task.ChunkIndex == task.TotalChunks-1 {
		doc := p.runDocumentExtraction(ctx, task)
		result.Tier3 = doc.tier3
		result.Entities = doc.entities
		result.Relationships = doc.relationships
		result.Summary = &doc.summary
	}

	if err := p.submitter.SubmitResult(ctx, result); err != nil {
		return fmt.Errorf("process %s: %w", task.ChunkID(), err)
	}

	p.logger.Info("task.done", zap.String("chunk_id", task.ChunkID()))
	return nil
}

func (p *Pipeline) runDocumentExtraction(ctx context.Context, task api.Task) documentResult {
	fullText := task.Text
	if len(task.AllChunks) > 0 {
		fullText = strings.Join(task.AllChunks, "\n\n")
	} else if task.TotalChunks > 1 {
		p.logger.Warn("extract.degraded_context",
			zap.String("base_id", task.BaseID),
			zap.Int("total_chunks", task.TotalChunks),
			zap.String("reason", "allChunks missing, using last chunk only"))
	}

	shape, template := p.registry.Lookup(task.DocType)
	meta := p.adapter.ExtractMetadata(ctx, fullText, task.DocType, shape, template)
	meta = normalizeTier3(meta)

	graph := p.adapter.ExtractEntities(ctx, fullText)

	summary := cleanString(meta["summary_medium"])
	if summary == "" {
		summary = cleanString(meta["summary"])
	}

	entities := []extract.EntityRecord{}
	for _, e := range graph.Entities {
		if e.Name != "" {
			entities = append(entities, e)
		}
	}
	relationships := []extract.RelationshipRecord{}
	for _, r := range graph.Relationships {
		if r.Source != "" && r.Target != "" {
			relationships = append(relationships, r)
		}
	}

	p.logger.Info("extract.document.done",
		zap.String("base_id", task.BaseID),
		zap.Int("entities", len(entities)),
		zap.Int("relationships", len(relationships)))

	return documentResult{
		tier3:         meta,
		entities:      entities,
		relationships: relationships,
		summary:       summary,
	}
}
