package tabular

import (
	"fmt"
	"strings"

	"github.com/doctrail/doctrail/core"
)

// RuleResult is one rule's outcome over the whole table.
type RuleResult struct {
	Rule         string
	RowsAffected []int // 1-based row indices, empty when the rule passed
	Message      string
}

// Report is the validation engine's output for one table.
type Report struct {
	Results  []RuleResult
	Accepted bool
}

// FileOutcome maps the report to the file-level validation outcome.
func (r *Report) FileOutcome() core.ValidationOutcome {
	if !r.Accepted {
		return core.ValidationFail
	}
	for _, result := range r.Results {
		if len(result.RowsAffected) > 0 {
			return core.ValidationPassWithWarnings
		}
	}
	return core.ValidationPass
}

// Validator evaluates the rule set against parsed tables. Stateless and
// safe for concurrent use.
type Validator struct {
	required []string
}

// Option configures a Validator.
type Option func(*Validator)

// WithRequiredColumns designates columns that must be non-empty in every
// row. A violation marks the row invalid.
func WithRequiredColumns(columns ...string) Option {
	return func(v *Validator) {
		v.required = append(v.required, columns...)
	}
}

// NewValidator creates a validator with the given options.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run evaluates all rules against the table. It returns the report and
// the rows with their violation lists populated, in file order. A table
// with zero data rows produces an unaccepted report and no rows.
func (v *Validator) Run(table *Table) (*Report, []*core.UploadedRow) {
	if len(table.Rows) == 0 {
		return &Report{
			Results: []RuleResult{{
				Rule:    core.RuleContent,
				Message: "file has no data rows",
			}},
			Accepted: false,
		}, nil
	}

	rows := buildRows(table)

	report := &Report{Accepted: true}
	report.Results = append(report.Results,
		checkEmptiness(rows),
		checkDuplicates(rows),
		checkSchema(table, rows),
		checkRequired(v.required, rows),
	)
	return report, rows
}

// buildRows pairs raw values with header names, preserving column order.
// Extra values beyond the header keep an empty name; the schema rule
// flags the mismatch.
func buildRows(table *Table) []*core.UploadedRow {
	rows := make([]*core.UploadedRow, len(table.Rows))
	for i, raw := range table.Rows {
		values := make([]core.Field, len(raw))
		for j, val := range raw {
			name := ""
			if j < len(table.Header) {
				name = table.Header[j]
			}
			values[j] = core.Field{Name: name, Value: val}
		}
		rows[i] = &core.UploadedRow{
			Index:  i + 1,
			Values: values,
		}
	}
	return rows
}

func checkEmptiness(rows []*core.UploadedRow) RuleResult {
	result := RuleResult{Rule: core.RuleEmptiness, Message: "no empty rows"}
	for _, row := range rows {
		empty := true
		for _, f := range row.Values {
			if strings.TrimSpace(f.Value) != "" {
				empty = false
				break
			}
		}
		if empty {
			row.Violations = append(row.Violations, core.RuleEmptiness)
			result.RowsAffected = append(result.RowsAffected, row.Index)
		}
	}
	if len(result.RowsAffected) > 0 {
		result.Message = fmt.Sprintf("%d empty rows", len(result.RowsAffected))
	}
	return result
}

// checkDuplicates flags rows whose values fully match an earlier row.
// The first occurrence is kept unflagged.
func checkDuplicates(rows []*core.UploadedRow) RuleResult {
	result := RuleResult{Rule: core.RuleDuplicates, Message: "no duplicate rows"}
	seen := make(map[core.Fingerprint]bool, len(rows))
	for _, row := range rows {
		fp := row.Fingerprint()
		if seen[fp] {
			row.Violations = append(row.Violations, core.RuleDuplicates)
			result.RowsAffected = append(result.RowsAffected, row.Index)
			continue
		}
		seen[fp] = true
	}
	if len(result.RowsAffected) > 0 {
		result.Message = fmt.Sprintf("%d duplicate rows", len(result.RowsAffected))
	}
	return result
}

func checkSchema(table *Table, rows []*core.UploadedRow) RuleResult {
	result := RuleResult{Rule: core.RuleSchemaConsistency, Message: "all rows match the header"}
	for _, row := range rows {
		if len(row.Values) != len(table.Header) {
			row.Violations = append(row.Violations, core.RuleSchemaConsistency)
			result.RowsAffected = append(result.RowsAffected, row.Index)
		}
	}
	if len(result.RowsAffected) > 0 {
		result.Message = fmt.Sprintf("%d rows do not match the header columns", len(result.RowsAffected))
	}
	return result
}

func checkRequired(required []string, rows []*core.UploadedRow) RuleResult {
	result := RuleResult{Rule: core.RuleRequiredFields, Message: "all required fields present"}
	if len(required) == 0 {
		return result
	}

	var details []string
	for _, row := range rows {
		var missing []string
		for _, col := range required {
			if strings.TrimSpace(valueOf(row, col)) == "" {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			row.Violations = append(row.Violations, core.RuleRequiredFields)
			result.RowsAffected = append(result.RowsAffected, row.Index)
			details = append(details, fmt.Sprintf("row %d: %s", row.Index, strings.Join(missing, ",")))
		}
	}
	if len(result.RowsAffected) > 0 {
		result.Message = strings.Join(details, "; ")
	}
	return result
}

func valueOf(row *core.UploadedRow, column string) string {
	for _, f := range row.Values {
		if f.Name == column {
			return f.Value
		}
	}
	return ""
}
