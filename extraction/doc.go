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


// Package extraction adapts external document-analysis output into a
// canonical record.
//
// The TextExtractor interface abstracts the OCR/structured-extraction
// capability; Classify applies a deterministic keyword heuristic over the
// extracted text blocks, and the field parsers turn invoice-like text into
// an ordered field mapping.
//
// # Implementation Packages
//
//   - extraction/textract: production implementation using AWS Textract
//   - extraction/mock: test doubles for unit testing without AWS
//
// Extraction failures are non-fatal to a submission: the pipeline records
// a failure event with classification Unknown and surfaces the error in
// the response detail instead of aborting.
package extraction
