package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "perft/"

// Result is a verified perft count for one position and depth.
type Result struct {
	FEN        string        `json:"fen"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Storage wraps BadgerDB for persistent storage of perft results.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the store in the default database directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) a store in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// resultKey builds the key of a FEN and depth. The FEN is normalised to
// its space-separated fields so equivalent spellings share a key.
func resultKey(fen string, depth int) []byte {
	return []byte(keyPrefix + strings.Join(strings.Fields(fen), " ") + "/" + strconv.Itoa(depth))
}

// Put saves a result, replacing any earlier one for the same FEN and depth.
func (s *Storage) Put(r Result) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(r.FEN, r.Depth), data)
	})
}

// Get loads the result for fen at depth. ok is false if none is stored.
func (s *Storage) Get(fen string, depth int) (r Result, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(fen, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	return r, ok, err
}

// List returns every stored result in key order.
func (s *Storage) List() ([]Result, error) {
	var results []Result

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r Result
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})

	return results, err
}

// Delete removes the result for fen at depth, if any.
func (s *Storage) Delete(fen string, depth int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(resultKey(fen, depth))
	})
}
