package schema

var slackShape = Shape{
	Name: "SlackMetadata",
	Fields: withSummaryFields(
		Field{Name: "decisions", Kind: KindStringList, Description: "Decisions made in the conversation"},
		Field{Name: "action_items", Kind: KindObjectList, Description: "Action items from the conversation", Fields: []Field{
			{Name: "task", Kind: KindString},
			{Name: "assignee", Kind: KindString},
		}},
		Field{Name: "sentiment", Kind: KindString, Description: "Overall sentiment: positive, neutral, or negative"},
	),
}

const slackPrompt = `Analyze this Slack conversation and extract metadata.

Provide:
- summary_short: A one-sentence summary of the conversation
- summary_medium: A 2-3 sentence summary of the conversation
- summary_long: A detailed paragraph summary of the conversation
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords for the conversation
- decisions: List of decisions made in the conversation
- action_items: List of action items with task and assignee (if mentioned)
- sentiment: Overall sentiment of the conversation (positive, neutral, or negative)

Slack conversation:
{text}

Respond with valid JSON matching this schema: {schema}`
