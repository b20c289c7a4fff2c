package schema

var pdfShape = Shape{
	Name: "PDFMetadata",
	Fields: withSummaryFields(
		Field{Name: "key_entities", Kind: KindStringList, Description: "Key entities, names, or concepts mentioned"},
		Field{Name: "sections", Kind: KindObjectList, Description: "Major sections with title and summary", Fields: []Field{
			{Name: "title", Kind: KindString},
			{Name: "summary", Kind: KindString},
		}},
		Field{Name: "invoice", Kind: KindObject, Description: "Structured invoice details when the document is an invoice/bill/receipt", Fields: []Field{
			{Name: "is_invoice", Kind: KindBool},
			{Name: "sender", Kind: KindString},
			{Name: "receiver", Kind: KindString},
			{Name: "invoice_identifier", Kind: KindString, Description: "Invoice number, bill number, or reference ID"},
			{Name: "invoice_number", Kind: KindString},
			{Name: "invoice_date", Kind: KindString},
			{Name: "due_date", Kind: KindString},
			{Name: "currency", Kind: KindString},
			{Name: "subtotal", Kind: KindString},
			{Name: "vat_amount", Kind: KindString},
			{Name: "total_amount", Kind: KindString},
			{Name: "line_items", Kind: KindObjectList, Fields: []Field{
				{Name: "description", Kind: KindString},
				{Name: "quantity", Kind: KindString},
				{Name: "unit_price", Kind: KindString},
				{Name: "amount", Kind: KindString},
				{Name: "vat_rate", Kind: KindString},
			}},
		}},
	),
}

const pdfPrompt = `Analyze this PDF document and extract metadata.

Provide:
- summary_short: A one-sentence summary of the document
- summary_medium: A 2-3 sentence summary of the document
- summary_long: A detailed paragraph summary of the document
- summary: Same content as summary_medium for backward compatibility
- keywords: List of important keywords for quick scan/search
- key_entities: List of key entities, names, or concepts mentioned
- sections: List of major sections with title and summary
- invoice: Structured invoice details when the document is an invoice/bill/receipt

Invoice-specific requirements:
- If the PDF is an invoice (or bill/receipt), set invoice.is_invoice=true and fill invoice fields when present.
- Extract an invoice identifier into invoice.invoice_identifier when present (for example: invoice number, bill number, reference ID). This field may be null if missing.
- If invoice_number is present in the document, also fill invoice.invoice_number for backward compatibility.
- For invoices, summary_short must include: sender, receiver, invoice identifier (if present), invoice date, total amount (+ currency), VAT/tax amount, and the primary billed item/service.
- For invoices, summary_medium and summary_long should include invoice identifier/invoice number, invoice date, due date, subtotal, VAT/tax, total, and key line items.
- If a field is not found, keep it as an empty string (or empty list for line_items).
- If the PDF is not an invoice, keep invoice.is_invoice=false and leave other invoice fields empty.

PDF content:
{text}

Respond with valid JSON matching this schema: {schema}`
