package schema

var textShape = Shape{
	Name: "TextMetadata",
	Fields: withSummaryFields(
		Field{Name: "key_entities", Kind: KindStringList, Description: "Key entities, names, or concepts mentioned"},
	),
}

const textPrompt = `Analyze this text and extract metadata.

Provide:
- summary_short: A one-sentence summary of the text
- summary_medium: A 2-3 sentence summary of the text
- summary_long: A detailed paragraph summary of the text
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords for quick search/display
- key_entities: List of key entities, names, or concepts mentioned

Text:
{text}

Respond with valid JSON matching this schema: {schema}`
