// Package tabular implements the validation engine for CSV submissions.
//
// Parse turns raw bytes into an ordered table; Validator evaluates a fixed
// set of rules against it and produces a Report plus per-row violation
// lists. Rules are independently evaluable and order-independent in
// effect, but are always reported in a fixed order: emptiness, duplicates,
// schema consistency, required fields.
//
// A file is accepted even when individual rows are invalid; only an
// unparseable header or a file with zero data rows rejects the whole
// submission.
package tabular
