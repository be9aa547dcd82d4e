package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys.
const (
	keyOptions      = "options"
	keyRegistration = "registration"
)

// Options mirrors the UCI `setoption` values the engine recognizes and
// persists, so a second process launch resumes with the previous session's
// debug-display preferences without the controlling GUI resending them.
type Options struct {
	MultiPV          int  `json:"multi_pv"`
	DebugIndexes     bool `json:"debug_indexes"`
	DebugSetsDisplay bool `json:"debug_sets_display"`
	DebugUseSymbols  bool `json:"debug_use_symbols"`
}

// DefaultOptions returns the engine's option defaults.
func DefaultOptions() *Options {
	return &Options{MultiPV: 1}
}

// Registration records the UCI `register` command's bookkeeping strings.
type Registration struct {
	Later bool   `json:"later"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

// Store wraps a BadgerDB instance holding the engine's persisted options
// and registration bookkeeping. It is opened once at process start and is
// off the critical search path: only the startup option load,
// `setoption`/`register` handling and `quit` touch it, so it never contends
// with the engine's state mutex.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the config store in the platform data
// directory.
func Open() (*Store, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the config store at an explicit directory, used by tests
// and by callers that override CHESSCORE_DATA_DIR.
func OpenAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadOptions loads the persisted option values, returning defaults if
// none have been saved yet.
func (s *Store) LoadOptions() (*Options, error) {
	opts := DefaultOptions()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, opts)
		})
	})

	return opts, err
}

// SaveOptions persists opts.
func (s *Store) SaveOptions(opts *Options) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}

// LoadRegistration loads the persisted registration bookkeeping, returning
// a zero-value Registration if none has been saved yet.
func (s *Store) LoadRegistration() (*Registration, error) {
	reg := &Registration{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyRegistration))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, reg)
		})
	})

	return reg, err
}

// SaveRegistration persists reg.
func (s *Store) SaveRegistration(reg *Registration) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyRegistration), data)
	})
}
