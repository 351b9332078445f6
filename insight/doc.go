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


// Package insight provides abstractions for the AI summarization and
// sentiment services used in doctrail.
//
// The Generator interface wraps a locally hosted language model behind a
// stable contract: deterministic output for a fixed model and fixed input
// (generation runs at temperature zero), a bounded summary length, and a
// documented degraded path. When the model is unavailable or times out the
// pipeline substitutes DegradedSummary instead of failing the request.
//
// # Implementation Packages
//
//   - insight/openai: production implementation against OpenAI-compatible
//     endpoints (Ollama, LocalAI, vLLM, ...)
//   - insight/mock: test doubles for unit testing without a model server
package insight
