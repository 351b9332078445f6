package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveDocument persists a document analysis result.
func (r *DocumentRepository) SaveDocument(ctx context.Context, doc *core.DocumentAnalysis) (*core.DocumentAnalysis, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		doc.Id = core.ID(nextID)
		doc.InsertedAt = time.Now().UTC()

		key := makeDocumentKey(doc.Id)
		if err := tx.Set(key, storage.MarshalDocumentAnalysis(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return doc, err
}

// GetDocument retrieves a single analysis result by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.DocumentAnalysis, error) {
	var result *core.DocumentAnalysis
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalDocumentAnalysis(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}

// ListDocuments retrieves all analysis results, newest first. Primary
// keys are not numerically ordered, so records are collected and sorted
// by ID.
func (r *DocumentRepository) ListDocuments(ctx context.Context, limit int) ([]*core.DocumentAnalysis, error) {
	var results []*core.DocumentAnalysis
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.DocumentAnalysis
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocumentAnalysis(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.DocumentAnalysis) int {
		return int(b.Id) - int(a.Id)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// UpdateDocumentEnrichment replaces the summary and sentiment of an
// existing analysis result.
func (r *DocumentRepository) UpdateDocumentEnrichment(ctx context.Context, id core.ID, summary string, sentiment core.SentimentLabel, score float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		item, err := tx.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var doc *core.DocumentAnalysis
		err = item.Value(func(val []byte) error {
			var unmarshalErr error
			doc, unmarshalErr = storage.UnmarshalDocumentAnalysis(val)
			return unmarshalErr
		})
		if err != nil {
			return err
		}

		doc.Summary = summary
		doc.Sentiment = sentiment
		doc.SentimentScore = score
		if err := tx.Set(key, storage.MarshalDocumentAnalysis(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
