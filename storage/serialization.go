// Copyright 2026 Doctrail Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"github.com/doctrail/doctrail/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalUploadedFile serializes an UploadedFile to bytes.
func MarshalUploadedFile(file *core.UploadedFile) []byte {
	buf := make([]byte, core.UploadedFileMUS.Size(*file))
	core.UploadedFileMUS.Marshal(*file, buf)
	return buf
}

// UnmarshalUploadedFile deserializes an UploadedFile from bytes.
func UnmarshalUploadedFile(data []byte) (*core.UploadedFile, error) {
	file, _, err := core.UploadedFileMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// MarshalUploadedRow serializes an UploadedRow to bytes.
func MarshalUploadedRow(row *core.UploadedRow) []byte {
	buf := make([]byte, core.UploadedRowMUS.Size(*row))
	core.UploadedRowMUS.Marshal(*row, buf)
	return buf
}

// UnmarshalUploadedRow deserializes an UploadedRow from bytes.
func UnmarshalUploadedRow(data []byte) (*core.UploadedRow, error) {
	row, _, err := core.UploadedRowMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MarshalDocumentAnalysis serializes a DocumentAnalysis to bytes.
func MarshalDocumentAnalysis(doc *core.DocumentAnalysis) []byte {
	buf := make([]byte, core.DocumentAnalysisMUS.Size(*doc))
	core.DocumentAnalysisMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocumentAnalysis deserializes a DocumentAnalysis from bytes.
func UnmarshalDocumentAnalysis(data []byte) (*core.DocumentAnalysis, error) {
	doc, _, err := core.DocumentAnalysisMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalEvent serializes an Event to bytes.
func MarshalEvent(event *core.Event) []byte {
	buf := make([]byte, core.EventMUS.Size(*event))
	core.EventMUS.Marshal(*event, buf)
	return buf
}

// UnmarshalEvent deserializes an Event from bytes.
func UnmarshalEvent(data []byte) (*core.Event, error) {
	event, _, err := core.EventMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
