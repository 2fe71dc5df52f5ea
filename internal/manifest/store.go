// Package manifest keeps a badger-backed index of recovered files.
package manifest

import (
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

type StoreConfig struct {
	Path   string
	Logger *logrus.Logger
}

type Store struct {
	config       StoreConfig
	log          *logrus.Logger
	badgerDB     *badger.DB
	writeCounter uint64
}

func Open(config StoreConfig) (*Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("no manifest path provided")
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	opts := badger.DefaultOptions(config.Path)
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("error opening manifest at %s: %w", config.Path, err)
	}

	return &Store{
		config:   config,
		log:      config.Logger,
		badgerDB: db,
	}, nil
}

// Reset drops every record, so the store describes a single run.
func (s *Store) Reset() error {
	if err := s.badgerDB.DropAll(); err != nil {
		return fmt.Errorf("error clearing manifest at %s: %w", s.config.Path, err)
	}
	atomic.StoreUint64(&s.writeCounter, 0)
	return nil
}

// Put stores r under its index, replacing any record with the same index.
func (s *Store) Put(r Record) error {
	atomic.AddUint64(&s.writeCounter, 1)

	err := s.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(Key(r.Index), Marshal(r))
	})
	if err != nil {
		return fmt.Errorf("error writing manifest record %d: %w", r.Index, err)
	}
	return nil
}

// Get returns the record stored for index.
func (s *Store) Get(index uint32) (Record, error) {
	var r Record
	err := s.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(index))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err = Unmarshal(val)
			return err
		})
	})
	if err != nil {
		return Record{}, fmt.Errorf("error reading manifest record %d: %w", index, err)
	}
	return r, nil
}

// Records returns all records in index order.
func (s *Store) Records() ([]Record, error) {
	var records []Record
	err := s.badgerDB.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				r, err := Unmarshal(val)
				if err != nil {
					return err
				}
				records = append(records, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing manifest: %w", err)
	}
	return records, nil
}

func (s *Store) Close() error {
	s.log.WithFields(logrus.Fields{
		"path":    s.config.Path,
		"records": atomic.LoadUint64(&s.writeCounter),
	}).Debug("Closing manifest")
	return s.badgerDB.Close()
}
