package extraction

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/doctrail/doctrail/core"
)

// Supported media types for document submissions.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// Extraction is the canonical record produced from document-analysis
// output: the raw text lines plus any key/value pairs the capability
// detected, with an overall confidence where available.
type Extraction struct {
	TextBlocks []string
	KeyValues  []core.Field
	Confidence float32 // mean line confidence in [0,1], 0 when unavailable
}

// Text joins the extracted text blocks into a single sanitized string.
func (e *Extraction) Text() string {
	return SanitizeText(strings.Join(e.TextBlocks, "\n"))
}

// TextExtractor extracts text and key/value pairs from document bytes.
// Implementations must be thread-safe for concurrent use.
type TextExtractor interface {
	// Extract analyzes the document content. The media type is one of the
	// MediaType constants. May fail or be unavailable; callers bound the
	// call with a context deadline.
	Extract(ctx context.Context, content []byte, mediaType string) (*Extraction, error)
}

// SupportedMediaType reports whether the declared media type is accepted.
func SupportedMediaType(mediaType string) bool {
	switch mediaType {
	case MediaTypePDF, MediaTypePNG, MediaTypeJPEG:
		return true
	}
	return false
}

// CheckMediaType returns core.ErrRejectedInput for unsupported media types.
func CheckMediaType(mediaType string) error {
	if !SupportedMediaType(mediaType) {
		return fmt.Errorf("%w: unsupported media type %q", core.ErrRejectedInput, mediaType)
	}
	return nil
}

// MediaTypeFromFilename guesses the media type from the file extension.
// Returns an empty string for unknown extensions.
func MediaTypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MediaTypePDF
	case ".png":
		return MediaTypePNG
	case ".jpg", ".jpeg":
		return MediaTypeJPEG
	}
	return ""
}
