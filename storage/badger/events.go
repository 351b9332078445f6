package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/doctrail/doctrail/core"
	"github.com/doctrail/doctrail/storage"
)

// EventRepository implements storage.EventRepository for BadgerDB.
// The log is append-only: there are no update or delete operations.
type EventRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new EventRepository.
func NewEventRepository(backend *Backend) (*EventRepository, error) {
	idSeq, err := backend.GetSequence(eventIDSeq)
	if err != nil {
		return nil, err
	}

	return &EventRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *EventRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *EventRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendEvent appends one event to the log.
func (r *EventRepository) AppendEvent(ctx context.Context, event *core.Event) (*core.Event, error) {
	if err := core.ValidateEventType(event.Type); err != nil {
		return nil, err
	}
	if err := core.ValidateOutcome(event.Outcome); err != nil {
		return nil, err
	}

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
		event.Id = core.ID(nextID)
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}

		// Store primary record
		key := makeEventKey(event.Id)
		if err := tx.Set(key, storage.MarshalEvent(event)); err != nil {
			return err
		}

		// Update date index
		dateKey := makeEventDateKey(event.Timestamp, event.Id)
		if err := tx.Set(dateKey, storage.MarshalID(event.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return event, err
}

// QueryEvents retrieves events matching the filter, newest first.
// The scan walks the date index forward over the filter's time window,
// applies the type and identity filters, then reverses for
// newest-first order. Ties on timestamp break by event ID, so order is
// deterministic.
func (r *EventRepository) QueryEvents(ctx context.Context, filter storage.EventFilter) ([]*core.Event, error) {
	if !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, storage.ErrInvalidQuery
	}

	results := []*core.Event{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// A zero From must seek to the start of the index; its UnixMicro
		// is negative and would wrap past every real timestamp.
		startKey := []byte(eventDatePrefix + ":")
		if !filter.From.IsZero() {
			startKey = makePartialEventDateKey(filter.From)
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(eventDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var endKey []byte
		if !filter.To.IsZero() {
			endKey = makePartialEventDateKey(filter.To)
		}

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			// To is exclusive: stop once the index timestamp reaches it.
			if endKey != nil && slices.Compare(key[:len(endKey)], endKey) >= 0 {
				break
			}

			var eventID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				eventID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			event, err := readEvent(tx, makeEventKey(eventID))
			if err != nil {
				return err
			}
			if event == nil {
				continue
			}

			if filter.Type != nil && event.Type != *filter.Type {
				continue
			}
			if filter.Identity != "" && event.Identity != filter.Identity {
				continue
			}
			results = append(results, event)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.Reverse(results)
	return results, nil
}

// readEvent reads an event from the transaction.
func readEvent(tx *badger.Txn, key []byte) (*core.Event, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var event *core.Event
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		event, unmarshalErr = storage.UnmarshalEvent(val)
		return unmarshalErr
	})
	return event, err
}
