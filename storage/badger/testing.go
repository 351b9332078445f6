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

package badger

import "github.com/doctrail/doctrail/storage"

// NewMemoryRepositories creates in-memory repositories for testing.
// Returns fileRepo, docRepo, eventRepo, backend, and error.
// Caller must close all repos and the backend when done.
func NewMemoryRepositories() (storage.FileRepository, storage.DocumentRepository, storage.EventRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	fileRepo, err := NewFileRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	docRepo, err := NewDocumentRepository(backend)
	if err != nil {
		fileRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	eventRepo, err := NewEventRepository(backend)
	if err != nil {
		docRepo.Close()
		fileRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return fileRepo, docRepo, eventRepo, backend, nil
}
