package schema

var meetingShape = Shape{
	Name: "MeetingMetadata",
	Fields: withSummaryFields(
		Field{Name: "decisions", Kind: KindStringList, Description: "Decisions made in the meeting"},
		Field{Name: "action_items", Kind: KindObjectList, Description: "Action items from the meeting", Fields: []Field{
			{Name: "task", Kind: KindString},
			{Name: "assignee", Kind: KindString},
			{Name: "deadline", Kind: KindString},
		}},
		Field{Name: "topic_segments", Kind: KindObjectList, Description: "Topics discussed with a summary for each", Fields: []Field{
			{Name: "topic", Kind: KindString},
			{Name: "summary", Kind: KindString},
		}},
	),
}

const meetingPrompt = `Analyze these meeting notes and extract metadata.

Provide:
- summary_short: A one-sentence summary of the meeting
- summary_medium: A 2-3 sentence summary of the meeting
- summary_long: A detailed paragraph summary of the meeting
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords from the meeting
- decisions: List of decisions made in the meeting
- action_items: List of action items with task, assignee, and deadline (if mentioned)
- topic_segments: List of topics discussed with a summary for each

Meeting notes:
{text}

Respond with valid JSON matching this schema: {schema}`
