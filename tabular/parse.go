package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/doctrail/doctrail/core"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Table is parsed tabular content: a header and an ordered sequence of
// raw data rows. Row field counts may differ from the header; the schema
// consistency rule flags those rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Parse reads CSV content into a Table. The header row is mandatory; a
// missing or unparseable header, or a syntax error anywhere in the file,
// rejects the input (core.ErrRejectedInput). A UTF-8 byte order mark is
// stripped before parsing.
func Parse(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // per-row mismatches are a row-level rule, not a parse error

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse header: %v", core.ErrRejectedInput, err)
	}
	if !hasColumnNames(header) {
		return nil, fmt.Errorf("%w: header has no column names", core.ErrRejectedInput)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed row: %v", core.ErrRejectedInput, err)
		}
		rows = append(rows, record)
	}

	return &Table{Header: header, Rows: rows}, nil
}

func hasColumnNames(header []string) bool {
	for _, name := range header {
		if strings.TrimSpace(name) != "" {
			return true
		}
	}
	return false
}
