// Package resummarize repairs records that were persisted with the
// degraded summary placeholder because the insight generator was
// unavailable at upload time.
//
// The package scans stored file and document records, regenerates
// summaries (and sentiment, for documents) from the persisted data,
// and writes the results back. Calls are retried with exponential
// backoff and progress is reported to a configurable writer.
package resummarize
