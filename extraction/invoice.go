package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/doctrail/doctrail/core"
)

// Invoice field names produced by ParseInvoiceFields.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldTotal         = "total"
	FieldClient        = "client"
	FieldSupplier      = "supplier"
	FieldDescription   = "description"
)

const descriptionLength = 400

var (
	numberPattern = regexp.MustCompile(`(?i)(?:invoice\s+number|invoice\s+no\.?|n[úu]mero\s+de\s+factura)\s*[:#-]?\s*([A-Za-z0-9-]+)`)
	datePattern   = regexp.MustCompile(`(?i)(?:date|fecha)\s*[:-]?\s*([0-9]{1,2}[/-][0-9]{1,2}[/-][0-9]{2,4})`)
	totalPattern  = regexp.MustCompile(`(?i)(?:invoice\s+total|total\s+due|importe\s+total|total)\s*[:-]?\s*\$?\s*([\d.,]+)`)

	// Party blocks run until the next recognized label. Sanitized text has
	// no line breaks, so labels are the only reliable boundaries.
	clientPattern   = regexp.MustCompile(`(?i)(?:client|cliente|bill\s+to)\s*:\s*(.*?)\s*(?:supplier|proveedor|invoice|n[úu]mero|fecha|date|quantity|cantidad|total|$)`)
	supplierPattern = regexp.MustCompile(`(?i)(?:supplier|proveedor|vendor)\s*:\s*(.*?)\s*(?:client|cliente|invoice|n[úu]mero|fecha|date|quantity|cantidad|total|$)`)

	lineItemPattern = regexp.MustCompile(`(\d+)\s+([A-Za-z][A-Za-z0-9 .\-]*?)\s+\$?([\d.,]+)\s+\$?([\d.,]+)`)
)

// LineItem is one product row of an invoice table.
type LineItem struct {
	Quantity  float64
	Name      string
	UnitPrice float64
	Total     float64
}

// ParseInvoiceFields interprets invoice text into an ordered field mapping.
// Fields the text does not contain are omitted. Line items are flattened
// as item_N fields after the scalar fields.
func ParseInvoiceFields(text string) []core.Field {
	var fields []core.Field

	add := func(name, value string) {
		if value != "" {
			fields = append(fields, core.Field{Name: name, Value: value})
		}
	}

	add(FieldInvoiceNumber, firstMatch(numberPattern, text))
	add(FieldInvoiceDate, firstMatch(datePattern, text))
	if total, ok := lastAmount(totalPattern, text); ok {
		add(FieldTotal, formatAmount(total))
	}
	add(FieldClient, firstMatch(clientPattern, text))
	add(FieldSupplier, firstMatch(supplierPattern, text))

	for i, item := range ParseLineItems(text) {
		fields = append(fields, core.Field{
			Name:  fmt.Sprintf("item_%d", i+1),
			Value: fmt.Sprintf("%g x %s @ %s = %s", item.Quantity, item.Name, formatAmount(item.UnitPrice), formatAmount(item.Total)),
		})
	}
	return fields
}

// ParseInformationFields builds the field mapping for non-invoice
// documents: a bounded description excerpt.
func ParseInformationFields(text string) []core.Field {
	desc := text
	if len(desc) > descriptionLength {
		desc = desc[:descriptionLength]
	}
	if desc == "" {
		return nil
	}
	return []core.Field{{Name: FieldDescription, Value: desc}}
}

// ParseLineItems scans the invoice table section for product rows of the
// shape "qty name unit-price total".
func ParseLineItems(text string) []LineItem {
	var items []LineItem
	for _, m := range lineItemPattern.FindAllStringSubmatch(text, -1) {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		unit, okUnit := normalizeAmount(m[3])
		total, okTotal := normalizeAmount(m[4])
		if !okUnit || !okTotal {
			continue
		}
		items = append(items, LineItem{
			Quantity:  qty,
			Name:      strings.TrimSpace(m[2]),
			UnitPrice: unit,
			Total:     total,
		})
	}
	return items
}

func firstMatch(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], " ,:")
}

func lastAmount(pattern *regexp.Regexp, text string) (float64, bool) {
	matches := pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	return normalizeAmount(matches[len(matches)-1][1])
}

// normalizeAmount converts monetary strings in either thousands
// convention ("1,234.56" or "1.234,56") to a float.
func normalizeAmount(value string) (float64, bool) {
	cleaned := strings.ReplaceAll(value, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		// Dot-as-thousands convention: "1.234" meaning 1234
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		f, err = strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
	}
	return f, true
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
