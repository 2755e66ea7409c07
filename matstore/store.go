// SPDX-License-Identifier: MIT

// Package matstore keeps compressed matrices in an embedded BadgerDB under
// caller-chosen names, so an assembled system can be factorized later
// without re-reading the mesh.
//
// Each matrix is one key ("crs/<name>") whose value is the binary record
// described in codec.go.
package matstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/katalvlaran/geosparse/sparse"
)

const keyPrefix = "crs/"

// Sentinel errors.
var (
	ErrNotFound     = errors.New("matstore: matrix not found")
	ErrPathRequired = errors.New("matstore: path is required for a persistent store")
	ErrEmptyName    = errors.New("matstore: empty matrix name")
	ErrCorrupt      = errors.New("matstore: corrupt matrix record")
	ErrClosed       = errors.New("matstore: store is closed")
)

// Config selects where and how the store lives.
type Config struct {
	// Path is the database directory; ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM (tests, one-shot CLI runs).
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
	// Logger receives badger's own messages; nil silences them.
	Logger *slog.Logger
}

// DefaultConfig is a durable on-disk store at path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig is a throwaway store.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Store is a named collection of CRSMatrix[float64]. Safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open creates the directory if needed and opens the database.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, ErrPathRequired
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("matstore: create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("matstore: open: %w", err)
	}

	return &Store{db: db}, nil
}

func key(name string) ([]byte, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	return []byte(keyPrefix + name), nil
}

func (s *Store) live() error {
	if s.db == nil || s.db.IsClosed() {
		return ErrClosed
	}

	return nil
}

// Put stores a under name, replacing any previous matrix of that name.
func (s *Store) Put(name string, a *sparse.CRSMatrix[float64]) error {
	if err := s.live(); err != nil {
		return err
	}
	k, err := key(name)
	if err != nil {
		return err
	}
	data, err := Encode(a)
	if err != nil {
		return fmt.Errorf("matstore: put %q: %w", name, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, data)
	})
}

// Get loads the matrix stored under name; opts configure the result.
func (s *Store) Get(name string, opts ...sparse.Option) (*sparse.CRSMatrix[float64], error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	k, err := key(name)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("matstore: get %q: %w", name, err)
	}

	a, err := Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("matstore: get %q: %w", name, err)
	}

	return a, nil
}

// Delete removes name. Deleting a missing name returns ErrNotFound.
func (s *Store) Delete(name string) error {
	if err := s.live(); err != nil {
		return err
	}
	k, err := key(name)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(k); err != nil {
			return err
		}
		return txn.Delete(k)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return err
}

// List returns the stored names in key order.
func (s *Store) List() ([]string, error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(keyPrefix)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})

	return names, err
}

// Close flushes and closes the database. Safe to call twice.
func (s *Store) Close() error {
	if s.db == nil || s.db.IsClosed() {
		return nil
	}

	return s.db.Close()
}
