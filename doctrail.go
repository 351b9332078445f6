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

// Package doctrail wires the storage backend, artifact store and AI
// capabilities into ready-to-use pipelines and history services.
package doctrail

import (
	"context"
	"log/slog"

	"github.com/doctrail/doctrail/artifact"
	"github.com/doctrail/doctrail/artifact/local"
	"github.com/doctrail/doctrail/extraction"
	"github.com/doctrail/doctrail/extraction/textract"
	"github.com/doctrail/doctrail/history"
	"github.com/doctrail/doctrail/insight"
	"github.com/doctrail/doctrail/insight/openai"
	"github.com/doctrail/doctrail/pipeline"
	"github.com/doctrail/doctrail/storage"
	"github.com/doctrail/doctrail/storage/badger"
)

// Database owns the storage backend and the capability clients. It is
// the composition root: everything else is created from it.
type Database struct {
	backend   *badger.Backend
	fileRepo  storage.FileRepository
	docRepo   storage.DocumentRepository
	eventRepo storage.EventRepository
	store     artifact.Store
	generator insight.Generator
	extractor extraction.TextExtractor
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	insightConfig  *insight.Config
	textractConfig textract.Config
	artifactDir    string
	store          artifact.Store
	generator      insight.Generator
	extractor      extraction.TextExtractor
}

// WithInsightConfig sets the configuration for the default insight
// generator.
func WithInsightConfig(cfg *insight.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.insightConfig = cfg
		}
	}
}

// WithTextractConfig sets the configuration for the default document
// extractor.
func WithTextractConfig(cfg textract.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.textractConfig = cfg
	}
}

// WithArtifactDir sets the directory of the default filesystem artifact
// store. Defaults to a sibling of the database directory.
func WithArtifactDir(dir string) DatabaseOption {
	return func(o *databaseOptions) {
		if dir != "" {
			o.artifactDir = dir
		}
	}
}

// WithArtifactStore replaces the default filesystem artifact store,
// e.g. with the S3 backend.
func WithArtifactStore(store artifact.Store) DatabaseOption {
	return func(o *databaseOptions) {
		o.store = store
	}
}

// WithGenerator replaces the default insight generator.
func WithGenerator(g insight.Generator) DatabaseOption {
	return func(o *databaseOptions) {
		o.generator = g
	}
}

// WithExtractor replaces the default document extractor.
func WithExtractor(e extraction.TextExtractor) DatabaseOption {
	return func(o *databaseOptions) {
		o.extractor = e
	}
}

// NewDatabase opens the backing store at filePath and constructs the
// repositories and capability clients.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		insightConfig: insight.DefaultConfig(),
		artifactDir:   filePath + "-artifacts",
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	fileRepo, err := badger.NewFileRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		fileRepo.Close()
		backend.Close()
		return nil, err
	}

	eventRepo, err := badger.NewEventRepository(backend)
	if err != nil {
		docRepo.Close()
		fileRepo.Close()
		backend.Close()
		return nil, err
	}

	closeAll := func() {
		eventRepo.Close()
		docRepo.Close()
		fileRepo.Close()
		backend.Close()
	}

	store := options.store
	if store == nil {
		store, err = local.NewStore(options.artifactDir)
		if err != nil {
			closeAll()
			return nil, err
		}
	}

	generator := options.generator
	if generator == nil {
		generator, err = openai.NewGenerator(options.insightConfig)
		if err != nil {
			closeAll()
			return nil, err
		}
	}

	extractor := options.extractor
	if extractor == nil {
		extractor, err = textract.NewExtractor(context.Background(), options.textractConfig)
		if err != nil {
			closeAll()
			return nil, err
		}
	}

	return &Database{
		backend:   backend,
		fileRepo:  fileRepo,
		docRepo:   docRepo,
		eventRepo: eventRepo,
		store:     store,
		generator: generator,
		extractor: extractor,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.eventRepo.Close(); err != nil {
		db.logger.Error("error closing event repository", "err", err)
		return err
	}
	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := db.fileRepo.Close(); err != nil {
		db.logger.Error("error closing file repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) FileRepository() storage.FileRepository {
	return db.fileRepo
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

func (db *Database) EventRepository() storage.EventRepository {
	return db.eventRepo
}

func (db *Database) ArtifactStore() artifact.Store {
	return db.store
}

func (db *Database) Generator() insight.Generator {
	return db.generator
}

func (db *Database) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline(db.fileRepo, db.docRepo, db.eventRepo, db.store, db.generator, db.extractor, opts...)
}

func (db *Database) NewHistoryService() *history.Service {
	return history.NewService(db.eventRepo)
}
