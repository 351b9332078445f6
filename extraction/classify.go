package extraction

import (
	"regexp"
	"strings"

	"github.com/doctrail/doctrail/core"
)

// invoiceTokens are the keywords the classification heuristic scores.
// Two or more distinct matches classify the text as an invoice.
var invoiceTokens = []string{
	"invoice",
	"factura",
	"subtotal",
	"vat",
	"iva",
	"total",
	"amount due",
}

const invoiceScoreThreshold = 2

// Classify maps extracted text blocks to a document classification using
// a keyword heuristic. Deterministic: identical blocks always yield the
// same label. Empty or unreadable text maps to Unknown.
func Classify(blocks []string) core.Classification {
	text := strings.ToLower(SanitizeText(strings.Join(blocks, "\n")))
	if text == "" {
		return core.ClassificationUnknown
	}

	score := 0
	for _, token := range invoiceTokens {
		if strings.Contains(text, token) {
			score++
		}
	}
	if score >= invoiceScoreThreshold {
		return core.ClassificationInvoice
	}
	return core.ClassificationInformation
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// maxTextLength caps sanitized text before classification and
// summarization.
const maxTextLength = 10000

// SanitizeText strips control characters, collapses whitespace and caps
// the length.
func SanitizeText(text string) string {
	clean := controlChars.ReplaceAllString(text, " ")
	clean = whitespace.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	if len(clean) > maxTextLength {
		clean = clean[:maxTextLength]
	}
	return clean
}
