package pipeline

import "strings"

// normalizeTier3 canonicalizes raw document-level metadata in place and
// returns it: the three summary granularities are always present and
// non-conflicting, invoice identifier fields are reconciled, and
// keywords fall back to key_entities when the model produced none.
// Idempotent: running it twice yields the same map.
func normalizeTier3(meta map[string]any) map[string]any {
	summaryShort := cleanString(meta["summary_short"])
	summaryMedium := cleanString(meta["summary_medium"])
	summaryLong := cleanString(meta["summary_long"])
	summaryLegacy := cleanString(meta["summary"])

	if summaryMedium == "" {
		summaryMedium = firstNonEmpty(summaryLegacy, summaryShort, summaryLong)
	}
	if summaryShort == "" {
		summaryShort = firstNonEmpty(summaryMedium, summaryLong)
	}
	if summaryLong == "" {
		summaryLong = firstNonEmpty(summaryMedium, summaryShort)
	}

	if invoice, ok := meta["invoice"].(map[string]any); ok {
		isInvoice, _ := invoice["is_invoice"].(bool)
		invoiceDate := cleanString(invoice["invoice_date"])
		identifier := cleanString(invoice["invoice_identifier"])
		number := cleanString(invoice["invoice_number"])

		if identifier == "" && number != "" {
			identifier = number
			invoice["invoice_identifier"] = identifier
		}
		if number == "" && identifier != "" {
			invoice["invoice_number"] = identifier
		}

		if isInvoice && invoiceDate != "" {
			summaryShort = appendFact(summaryShort, "Invoice date", invoiceDate)
			summaryMedium = appendFact(summaryMedium, "Invoice date", invoiceDate)
			summaryLong = appendFact(summaryLong, "Invoice date", invoiceDate)
		}
		if isInvoice && identifier != "" {
			summaryShort = appendFact(summaryShort, "Invoice identifier", identifier)
			summaryMedium = appendFact(summaryMedium, "Invoice identifier", identifier)
			summaryLong = appendFact(summaryLong, "Invoice identifier", identifier)
		}
	}

	keywords := cleanStringList(meta["keywords"])
	if len(keywords) == 0 {
		keywords = cleanStringList(meta["key_entities"])
	}

	meta["summary_short"] = summaryShort
	meta["summary_medium"] = summaryMedium
	meta["summary_long"] = summaryLong
	meta["summary"] = summaryMedium
	meta["keywords"] = keywords
	return meta
}

// appendFact appends "Label: value." to a summary unless the value is
// already mentioned, so re-normalization never duplicates the sentence.
func appendFact(summary, label, value string) string {
	if summary == "" || value == "" {
		return summary
	}
	if strings.Contains(strings.ToLower(summary), strings.ToLower(value)) {
		return summary
	}
	separator := ". "
	if strings.HasSuffix(summary, ".") || strings.HasSuffix(summary, "!") || strings.HasSuffix(summary, "?") {
		separator = " "
	}
	return summary + separator + label + ": " + value + "."
}

func cleanString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func cleanStringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, item := range list {
		if s := cleanString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
