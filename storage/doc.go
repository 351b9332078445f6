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

// Package storage provides the storage abstraction layer for doctrail.
//
// This package defines repository interfaces that decouple storage
// implementation from pipeline logic, so different backends (BadgerDB,
// in-memory, etc.) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces rather
// than concrete types:
//
//	repo, err := badger.NewFileRepository(backend)  // returns storage.FileRepository
//
// This keeps consumers decoupled from BadgerDB specifics and lets tests
// substitute mock implementations without modification.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - FileRepository: uploaded tabular files and their rows
//   - DocumentRepository: document analysis results
//   - EventRepository: the append-only invocation log
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
