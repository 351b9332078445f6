package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/storage"
)

// FileRepository implements storage.FileRepository for BadgerDB.
type FileRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.FileRepository = (*FileRepository)(nil)

// NewFileRepository creates a new FileRepository.
func NewFileRepository(backend *Backend) (*FileRepository, error) {
	idSeq, err := backend.GetSequence(uploadedFileIDSeq)
	if err != nil {
		return nil, err
	}

	return &FileRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *FileRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *FileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveFileWithRows persists the file record and all of its rows in one
// transaction.
func (r *FileRepository) SaveFileWithRows(ctx context.Context, file *core.UploadedFile, rows []*core.UploadedRow) (*core.UploadedFile, error) {
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
		file.Id = core.ID(nextID)
		file.InsertedAt = time.Now().UTC()
		if file.UploadedAt.IsZero() {
			file.UploadedAt = file.InsertedAt
		}

		// Store primary record
		key := makeFileKey(file.Id)
		if err := tx.Set(key, storage.MarshalUploadedFile(file)); err != nil {
			return err
		}

		// Update uploader index
		uploaderKey := makeUploaderKey(file.UploadedBy, file.Id)
		if err := tx.Set(uploaderKey, storage.MarshalID(file.Id)); err != nil {
			return err
		}

		// Store rows under the file's key space
		for _, row := range rows {
			row.FileId = file.Id
			rowKey := makeRowKey(file.Id, row.Index)
			if err := tx.Set(rowKey, storage.MarshalUploadedRow(row)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return file, err
}

// GetFile retrieves a single file record by ID.
func (r *FileRepository) GetFile(ctx context.Context, id core.ID) (*core.UploadedFile, error) {
	var result *core.UploadedFile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readFile(tx, makeFileKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRows retrieves all rows of a file, ordered by row index. The row
// keys sort by index, so a prefix scan yields them in order.
func (r *FileRepository) GetRows(ctx context.Context, fileID core.ID) ([]*core.UploadedRow, error) {
	rows := []*core.UploadedRow{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialRowKey(fileID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var row *core.UploadedRow
			err := iter.Item().Value(func(val []byte) error {
				var err error
				row, err = storage.UnmarshalUploadedRow(val)
				return err
			})
			if err != nil {
				return err
			}
			if row != nil {
				rows = append(rows, row)
			}
		}
		return nil
	}, false)
	return rows, err
}

// DeleteFile removes a file record, its uploader index entry, and all
// of its rows.
func (r *FileRepository) DeleteFile(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeFileKey(id)
		file, err := readFile(tx, key)
		if err != nil {
			return err
		}
		if file == nil {
			return storage.ErrNotFound
		}

		// Collect row keys first; deleting while iterating is unsafe.
		var rowKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialRowKey(id)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			rowKeys = append(rowKeys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, rowKey := range rowKeys {
			if err := tx.Delete(rowKey); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeUploaderKey(file.UploadedBy, file.Id)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListFilesByUploader retrieves files uploaded by an identity, newest
// first. File IDs are monotonic, so descending ID order is descending
// insertion order.
func (r *FileRepository) ListFilesByUploader(ctx context.Context, identity string, limit int) ([]*core.UploadedFile, error) {
	var results []*core.UploadedFile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialUploaderKey(identity)

		var ids []core.ID
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		slices.Reverse(ids)
		if limit > 0 && len(ids) > limit {
			ids = ids[:limit]
		}

		for _, id := range ids {
			file, err := readFile(tx, makeFileKey(id))
			if err != nil {
				return err
			}
			if file != nil {
				results = append(results, file)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListFiles retrieves all file records, newest first. Primary keys are
// not numerically ordered, so records are collected and sorted by ID.
func (r *FileRepository) ListFiles(ctx context.Context, limit int) ([]*core.UploadedFile, error) {
	var results []*core.UploadedFile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(uploadedFilePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var file *core.UploadedFile
			err := iter.Item().Value(func(val []byte) error {
				var err error
				file, err = storage.UnmarshalUploadedFile(val)
				return err
			})
			if err != nil {
				return err
			}
			if file != nil {
				results = append(results, file)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.UploadedFile) int {
		return int(b.Id) - int(a.Id)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// UpdateFileSummary replaces the summary of an existing file record.
func (r *FileRepository) UpdateFileSummary(ctx context.Context, id core.ID, summary string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeFileKey(id)
		file, err := readFile(tx, key)
		if err != nil {
			return err
		}
		if file == nil {
			return storage.ErrNotFound
		}

		file.Summary = summary
		if err := tx.Set(key, storage.MarshalUploadedFile(file)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readFile reads a file record from the transaction.
func readFile(tx *badger.Txn, key []byte) (*core.UploadedFile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var file *core.UploadedFile
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		file, unmarshalErr = storage.UnmarshalUploadedFile(val)
		return unmarshalErr
	})
	return file, err
}
