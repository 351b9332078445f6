package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/extraction"
	"github.com/doctrail/doctrail/insight"
)

// DocumentSubmission is one scanned-document upload.
type DocumentSubmission struct {
	Filename string
	Content  []byte
	Identity string
	// MediaType overrides the extension-based guess when set.
	MediaType string
}

// DocumentResult is the outcome of an accepted document upload.
type DocumentResult struct {
	Document *core.DocumentAnalysis
	Event    *core.Event
	Degraded bool
	// Detail carries the extraction error message when the capability
	// failed and a degraded record was persisted.
	Detail string
}

// SubmitDocument runs one document through extraction, classification,
// field parsing, enrichment and persistence.
//
// An unsupported media type rejects the submission: no artifact, no
// record, no event. An extraction failure is not an invocation failure:
// a degraded record is persisted, the event outcome is failure, and the
// extraction error is surfaced in the result's Detail.
func (p *Pipeline) SubmitDocument(ctx context.Context, sub DocumentSubmission) (*DocumentResult, error) {
	if strings.TrimSpace(sub.Identity) == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrRejectedInput, core.ErrEmptyIdentity)
	}
	if strings.TrimSpace(sub.Filename) == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrRejectedInput, core.ErrEmptyFilename)
	}
	if len(sub.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", core.ErrRejectedInput)
	}

	mediaType := sub.MediaType
	if mediaType == "" {
		mediaType = extraction.MediaTypeFromFilename(sub.Filename)
	}
	if err := extraction.CheckMediaType(mediaType); err != nil {
		return nil, err
	}

	key, err := p.store.Put(ctx, sub.Identity, sub.Filename, sub.Content)
	if err != nil {
		p.logger.Error("artifact archival failed", "filename", sub.Filename, "err", err)
		p.recordFailure(ctx, core.EventTypeDocumentAnalysis, sub.Identity, "archival failed: "+err.Error())
		return nil, fmt.Errorf("%w: %v", core.ErrPersistenceFailed, err)
	}

	ectx, cancel := p.boundCall(ctx)
	ext, err := p.extractor.Extract(ectx, sub.Content, mediaType)
	cancel()
	if err != nil {
		return p.saveDegradedDocument(ctx, sub, key, err)
	}

	classification := extraction.Classify(ext.TextBlocks)
	text := ext.Text()

	var fields []core.Field
	switch classification {
	case core.ClassificationInvoice:
		fields = extraction.ParseInvoiceFields(text)
	case core.ClassificationInformation:
		fields = extraction.ParseInformationFields(text)
	default:
		// No parser for unknown documents; keep what the capability found.
		fields = ext.KeyValues
	}

	summary, degraded := p.summarize(ctx, text, insight.Params{})

	sentiment := insight.Sentiment{Label: core.SentimentNeutral}
	if !degraded {
		sctx, cancel := p.boundCall(ctx)
		sentiment, err = p.generator.Sentiment(sctx, text)
		cancel()
		if err != nil {
			p.logger.Warn("sentiment degraded", "err", err)
			sentiment = insight.Sentiment{Label: core.SentimentNeutral}
			degraded = true
		}
	}

	doc := &core.DocumentAnalysis{
		Filename:       sub.Filename,
		StorageKey:     key,
		Classification: classification,
		Fields:         fields,
		TextBlocks:     ext.TextBlocks,
		Summary:        summary,
		Sentiment:      sentiment.Label,
		SentimentScore: sentiment.Score,
		UploadedBy:     sub.Identity,
	}

	saved, err := p.documents.SaveDocument(ctx, doc)
	if err != nil {
		p.logger.Error("document persistence failed", "filename", sub.Filename, "err", err)
		p.recordFailure(ctx, core.EventTypeDocumentAnalysis, sub.Identity, "persistence failed: "+err.Error())
		return nil, fmt.Errorf("%w: %v", core.ErrPersistenceFailed, err)
	}

	outcome := core.OutcomeSuccess
	if degraded {
		outcome = core.OutcomePartial
	}
	event, err := p.record(ctx, core.EventTypeDocumentAnalysis, sub.Identity, outcome, saved.Id, summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEventLogFailed, err)
	}

	p.logger.Info("document processed",
		"document_id", saved.Id,
		"classification", classification.String(),
		"outcome", outcome.String(),
		"degraded", degraded)

	return &DocumentResult{
		Document: saved,
		Event:    event,
		Degraded: degraded,
	}, nil
}

// saveDegradedDocument persists the placeholder record for a document
// whose extraction failed. The invocation itself still succeeds; the
// failure lives in the event outcome and the result detail.
func (p *Pipeline) saveDegradedDocument(ctx context.Context, sub DocumentSubmission, key string, extractErr error) (*DocumentResult, error) {
	p.logger.Warn("extraction failed, persisting degraded record",
		"filename", sub.Filename, "err", extractErr)

	doc := &core.DocumentAnalysis{
		Filename:       sub.Filename,
		StorageKey:     key,
		Classification: core.ClassificationUnknown,
		Summary:        insight.DegradedSummary,
		Sentiment:      core.SentimentNeutral,
		UploadedBy:     sub.Identity,
	}

	saved, err := p.documents.SaveDocument(ctx, doc)
	if err != nil {
		p.logger.Error("document persistence failed", "filename", sub.Filename, "err", err)
		p.recordFailure(ctx, core.EventTypeDocumentAnalysis, sub.Identity, "persistence failed: "+err.Error())
		return nil, fmt.Errorf("%w: %v", core.ErrPersistenceFailed, err)
	}

	detail := "extraction failed: " + extractErr.Error()
	event, err := p.record(ctx, core.EventTypeDocumentAnalysis, sub.Identity, core.OutcomeFailure, saved.Id, detail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrEventLogFailed, err)
	}

	return &DocumentResult{
		Document: saved,
		Event:    event,
		Degraded: true,
		Detail:   extractErr.Error(),
	}, nil
}
