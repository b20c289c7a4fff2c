package schema

var imageShape = Shape{
	Name: "ImageMetadata",
	Fields: withSummaryFields(
		Field{Name: "description", Kind: KindString, Description: "A detailed description of the image"},
		Field{Name: "detected_objects", Kind: KindStringList, Description: "Main objects/entities visible in the image"},
		Field{Name: "ocr_text", Kind: KindString, Description: "Any readable text visible in the image"},
		Field{Name: "image_type", Kind: KindString, Description: "Classification: photo, diagram, screenshot, or chart"},
	),
}

const imagePrompt = `Describe this image in detail.

Provide:
- summary_short: A one-sentence summary of the image content
- summary_medium: A 2-3 sentence summary of the image content
- summary_long: A detailed paragraph summary of the image content
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords from visual and OCR content
- description: A detailed description of the image
- detected_objects: List of main objects/entities visible in the image
- ocr_text: Any readable text visible in the image
- image_type: Classification (photo, diagram, screenshot, or chart)

{context}

Respond with valid JSON matching this schema: {schema}`
