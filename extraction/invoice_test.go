package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoice = "Client: Acme Corp Supplier: Widgets Inc " +
	"Invoice Number: F-2024-001 Date: 12/01/2024 " +
	"Quantity Product Price Total " +
	"2 Widget 10.00 20.00 1 Gadget 5.50 5.50 " +
	"Invoice Total: $25.50"

func TestParseInvoiceFields(t *testing.T) {
	fields := ParseInvoiceFields(sampleInvoice)

	byName := map[string]string{}
	for _, f := range fields {
		byName[f.Name] = f.Value
	}

	assert.Equal(t, "F-2024-001", byName[FieldInvoiceNumber])
	assert.Equal(t, "12/01/2024", byName[FieldInvoiceDate])
	assert.Equal(t, "25.50", byName[FieldTotal])
	assert.Equal(t, "Acme Corp", byName[FieldClient])
	assert.Equal(t, "Widgets Inc", byName[FieldSupplier])
}

func TestParseInvoiceFields_OmitsMissing(t *testing.T) {
	fields := ParseInvoiceFields("just some text with no invoice structure")
	assert.Empty(t, fields)
}

func TestParseLineItems(t *testing.T) {
	items := ParseLineItems(sampleInvoice)
	require.Len(t, items, 2)

	assert.Equal(t, 2.0, items[0].Quantity)
	assert.Equal(t, "Widget", items[0].Name)
	assert.Equal(t, 10.0, items[0].UnitPrice)
	assert.Equal(t, 20.0, items[0].Total)

	assert.Equal(t, "Gadget", items[1].Name)
	assert.Equal(t, 5.5, items[1].Total)
}

func TestParseInformationFields(t *testing.T) {
	fields := ParseInformationFields("a short note")
	require.Len(t, fields, 1)
	assert.Equal(t, FieldDescription, fields[0].Name)
	assert.Equal(t, "a short note", fields[0].Value)

	long := strings.Repeat("x", descriptionLength+100)
	fields = ParseInformationFields(long)
	require.Len(t, fields, 1)
	assert.Len(t, fields[0].Value, descriptionLength)

	assert.Empty(t, ParseInformationFields(""))
}

func TestNormalizeAmount(t *testing.T) {
	cases := map[string]float64{
		"1,234.56": 1234.56,
		"1234.56":  1234.56,
		"1234,56":  1234.56,
		"$25.50":   25.50,
		"100":      100,
	}
	for in, want := range cases {
		got, ok := normalizeAmount(in)
		require.True(t, ok, in)
		assert.InDelta(t, want, got, 0.001, in)
	}

	_, ok := normalizeAmount("")
	assert.False(t, ok)
	_, ok = normalizeAmount("abc")
	assert.False(t, ok)
}
