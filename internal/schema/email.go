package schema

var emailShape = Shape{
	Name: "EmailMetadata",
	Fields: withSummaryFields(
		Field{Name: "urgency", Kind: KindString, Description: "Urgency level: low, normal, high, or critical"},
		Field{Name: "intent", Kind: KindString, Description: "Main intent: request, fyi, approval, or escalation"},
		Field{Name: "action_items", Kind: KindObjectList, Description: "Action items mentioned in the email", Fields: []Field{
			{Name: "task", Kind: KindString},
			{Name: "assignee", Kind: KindString},
		}},
	),
}

const emailPrompt = `Analyze this email and extract metadata.

Provide:
- urgency: Urgency level (low, normal, high, or critical)
- intent: Main intent (request, fyi, approval, or escalation)
- action_items: List of action items mentioned with task and assignee if specified
- summary_short: A one-sentence summary of the email
- summary_medium: A 2-3 sentence summary of the email
- summary_long: A detailed paragraph summary of the email
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords (people, projects, requests, deadlines)

Email:
{text}

Respond with valid JSON matching this schema: {schema}`
