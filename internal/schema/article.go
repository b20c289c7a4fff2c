package schema

var articleShape = Shape{
	Name: "ArticleMetadata",
	Fields: withSummaryFields(
		Field{Name: "takeaways", Kind: KindStringList, Description: "Key takeaways or main points"},
		Field{Name: "tags", Kind: KindStringList, Description: "Relevant tags or topics"},
		Field{Name: "target_audience", Kind: KindString, Description: "Description of the intended audience"},
	),
}

const articlePrompt = `Analyze this article and extract metadata.

Provide:
- summary_short: A one-sentence summary of the article
- summary_medium: A 2-3 sentence summary of the article
- summary_long: A detailed paragraph summary of the article
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords for the article
- takeaways: List of key takeaways or main points
- tags: List of relevant tags or topics
- target_audience: Description of the intended audience

Article:
{text}

Respond with valid JSON matching this schema: {schema}`
