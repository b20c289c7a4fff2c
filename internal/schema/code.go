package schema

var codeShape = Shape{
	Name: "CodeMetadata",
	Fields: withSummaryFields(
		Field{Name: "purpose", Kind: KindString, Description: "The purpose of this code in the broader system"},
		Field{Name: "complexity", Kind: KindString, Description: "Complexity rating: low, medium, or high"},
	),
}

const codePrompt = `Analyze this code and extract metadata.

Provide:
- summary_short: A one-sentence summary of what this code does
- summary_medium: A 2-3 sentence summary of what this code does
- summary_long: A detailed paragraph summary of what this code does
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords (APIs, modules, patterns)
- purpose: The purpose of this code in the broader system
- complexity: Rate the complexity as "low", "medium", or "high"

Code:
{text}

Respond with valid JSON matching this schema: {schema}`
