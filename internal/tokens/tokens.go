// Package tokens persists the bearer token across restarts in a Badger database.
package tokens

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var accessTokenKey = []byte("auth:access_token")

// Store is the durable slot holding the access token.
// Reads always reflect the most recent write.
type Store struct {
	mu     sync.RWMutex
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the token database in dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // a login must survive a crash right after it
	return open(opts, logger)
}

// OpenInMemory opens a token store that lives only as long as the process.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open token db: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("token store opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	return &Store{db: db, logger: logger}, nil
}

// Get returns the stored token, or "" when none is stored.
func (s *Store) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accessTokenKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// Set replaces the stored token. An empty token deletes it.
func (s *Store) Set(token string) error {
	if token == "" {
		return s.Delete()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(accessTokenKey, []byte(token))
	}); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(accessTokenKey)
	}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
