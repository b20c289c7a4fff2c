// Package api talks to the upstream enrichment service: claiming queued
// tasks and submitting finished results.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/extract"
	"github.com/agenthands/refinery/internal/tier2"
)

// Task is one inbound document fragment to enrich. All chunks of a
// document share BaseID; ChunkIndex orders them.
type Task struct {
	TaskID      string   `json:"taskId"`
	BaseID      string   `json:"baseId"`
	DocType     string   `json:"docType"`
	Text        string   `json:"text"`
	ChunkIndex  int      `json:"chunkIndex"`
	TotalChunks int      `json:"totalChunks"`
	Source      string   `json:"source,omitempty"`
	Collection  string   `json:"collection,omitempty"`
	AllChunks   []string `json:"allChunks,omitempty"`
}

// ChunkID is the stable per-chunk identifier used on submission.
func (t Task) ChunkID() string {
	return fmt.Sprintf("%s:%d", t.BaseID, t.ChunkIndex)
}

// EnrichmentResult is the single outbound record per task. Tier3,
// Entities, Relationships and Summary are all nil for non-terminal
// chunks and all populated for the last chunk of a document.
type EnrichmentResult struct {
	TaskID        string                       `json:"taskId"`
	ChunkID       string                       `json:"chunkId"`
	Collection    string                       `json:"collection"`
	Tier2         tier2.Result                 `json:"tier2"`
	Tier3         map[string]any               `json:"tier3"`
	Entities      []extract.EntityRecord       `json:"entities"`
	Relationships []extract.RelationshipRecord `json:"relationships"`
	Summary       *string                      `json:"summary"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// ClaimTasks asks the upstream service for up to max pending tasks from
// queue. An empty slice means nothing is pending.
func (c *Client) ClaimTasks(ctx context.Context, queue string, max int) ([]Task, error) {
	body := map[string]any{"queue": queue, "max": max}

	raw, err := c.post(ctx, c.baseURL+"/api/enrichment/claim", body)
	if err != nil {
		return nil, fmt.Errorf("claim tasks: %w", err)
	}

	var out struct {
		Tasks []Task `json:"tasks"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode claim response: %w", err)
	}
	return out.Tasks, nil
}

// SubmitResult reports one finished task back to the upstream service.
func (c *Client) SubmitResult(ctx context.Context, result EnrichmentResult) error {
	c.logger.Debug("api.submit",
		zap.String("task_id", result.TaskID),
		zap.String("chunk_id", result.ChunkID),
		zap.Bool("has_tier3", result.Tier3 != nil))

	if _, err := c.post(ctx, c.baseURL+"/api/enrichment/result", result); err != nil {
		return fmt.Errorf("submit result %s: %w", result.ChunkID, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := string(raw)
		if len(excerpt) > 512 {
			excerpt = excerpt[:512]
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, excerpt)
	}
	return raw, nil
}
