package extraction

import (
	"strings"
	"testing"

	"github.com/doctrail/doctrail/core"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Invoice(t *testing.T) {
	blocks := []string{
		"INVOICE No: F-2024-001",
		"Subtotal: $100.00",
		"Total: $121.00",
	}
	assert.Equal(t, core.ClassificationInvoice, Classify(blocks))
}

func TestClassify_Information(t *testing.T) {
	blocks := []string{"Quarterly report on office supplies usage."}
	assert.Equal(t, core.ClassificationInformation, Classify(blocks))
}

func TestClassify_SingleKeywordIsNotEnough(t *testing.T) {
	blocks := []string{"The total attendance was 40 people."}
	assert.Equal(t, core.ClassificationInformation, Classify(blocks))
}

func TestClassify_EmptyTextIsUnknown(t *testing.T) {
	assert.Equal(t, core.ClassificationUnknown, Classify(nil))
	assert.Equal(t, core.ClassificationUnknown, Classify([]string{"", "   "}))
}

func TestClassify_Idempotent(t *testing.T) {
	blocks := []string{"Factura 123", "IVA 21%", "Total 121"}
	first := Classify(blocks)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(blocks))
	}
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "a b c", SanitizeText("a\x00b\n\n  c  "))
	assert.Equal(t, "", SanitizeText("\x00\x01 \n"))

	long := strings.Repeat("x", maxTextLength+50)
	assert.Len(t, SanitizeText(long), maxTextLength)
}

func TestSupportedMediaType(t *testing.T) {
	assert.True(t, SupportedMediaType(MediaTypePDF))
	assert.True(t, SupportedMediaType(MediaTypePNG))
	assert.True(t, SupportedMediaType(MediaTypeJPEG))
	assert.False(t, SupportedMediaType("text/csv"))

	assert.NoError(t, CheckMediaType(MediaTypePDF))
	assert.ErrorIs(t, CheckMediaType("text/plain"), core.ErrRejectedInput)
}

func TestMediaTypeFromFilename(t *testing.T) {
	assert.Equal(t, MediaTypePDF, MediaTypeFromFilename("scan.PDF"))
	assert.Equal(t, MediaTypeJPEG, MediaTypeFromFilename("photo.jpg"))
	assert.Equal(t, MediaTypePNG, MediaTypeFromFilename("shot.png"))
	assert.Equal(t, "", MediaTypeFromFilename("data.csv"))
}
