// Package pipeline provides orchestration for the two ingestion flows:
// tabular (CSV) uploads and scanned-document analysis.
//
// Every accepted submission runs validation or extraction, enrichment
// through the insight generator, atomic persistence, and finally one
// event appended to the audit log. A submission that is rejected before
// any work happens leaves no trace: no artifact, no records, no event.
//
// Degraded enrichment never fails an invocation. When the generator is
// unreachable the result is persisted with a placeholder summary and
// the event outcome records the degradation.
package pipeline
