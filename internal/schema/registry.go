package schema

import "strings"

// Supported document types.
const (
	DocTypeText    = "text"
	DocTypeCode    = "code"
	DocTypeEmail   = "email"
	DocTypeMeeting = "meeting"
	DocTypePDF     = "pdf"
	DocTypeSlack   = "slack"
	DocTypeImage   = "image"
	DocTypeArticle = "article"
)

type entry struct {
	shape  Shape
	prompt string
}

// Registry maps a document type to its metadata shape and prompt
// template. Built once at startup, read-only thereafter.
type Registry struct {
	entries  map[string]entry
	fallback entry
}

func NewRegistry() *Registry {
	text := entry{shape: textShape, prompt: textPrompt}
	return &Registry{
		entries: map[string]entry{
			DocTypeText:    text,
			DocTypeCode:    {shape: codeShape, prompt: codePrompt},
			DocTypeEmail:   {shape: emailShape, prompt: emailPrompt},
			DocTypeMeeting: {shape: meetingShape, prompt: meetingPrompt},
			DocTypePDF:     {shape: pdfShape, prompt: pdfPrompt},
			DocTypeSlack:   {shape: slackShape, prompt: slackPrompt},
			DocTypeImage:   {shape: imageShape, prompt: imagePrompt},
			DocTypeArticle: {shape: articleShape, prompt: articlePrompt},
		},
		fallback: text,
	}
}

// Lookup returns the shape and prompt template for docType. Unknown
// types fall back to the generic text shape.
func (r *Registry) Lookup(docType string) (Shape, string) {
	if e, ok := r.entries[strings.ToLower(strings.TrimSpace(docType))]; ok {
		return e.shape, e.prompt
	}
	return r.fallback.shape, r.fallback.prompt
}

// summaryFields are the multi-granularity summary and keyword fields
// shared by every document type.
func summaryFields() []Field {
	return []Field{
		{Name: "summary_short", Kind: KindString, Description: "A one-sentence summary"},
		{Name: "summary_medium", Kind: KindString, Description: "A 2-3 sentence summary"},
		{Name: "summary_long", Kind: KindString, Description: "A detailed paragraph summary"},
		{Name: "summary", Kind: KindString, Description: "Same content as summary_medium for backward compatibility"},
		{Name: "keywords", Kind: KindStringList, Description: "Important keywords for quick scan/search"},
	}
}

func withSummaryFields(fields ...Field) []Field {
	return append(summaryFields(), fields...)
}
