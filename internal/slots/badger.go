package slots

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/edvros/viewgate-go/internal/core/domain"
	"github.com/edvros/viewgate-go/internal/telemetry/logger"
)

// badgerGCInterval is how often value-log garbage collection runs.
const badgerGCInterval = 10 * time.Minute

// BadgerConfig holds settings for the Badger store.
type BadgerConfig struct {
	// Dir is the database directory. Required.
	Dir string

	// InMemory runs without a directory, for tests.
	InMemory bool

	// TTL per stored pair. Zero means DefaultTTL.
	TTL time.Duration

	Logger logger.Logger
}

// BadgerStore persists slot pairs in an embedded Badger database, for
// single-instance deployments that must survive restarts.
type BadgerStore struct {
	db     *badger.DB
	ttl    time.Duration
	logger logger.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerStore opens the database and starts the GC loop.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, domain.ErrInvalidArgument.WithDetails("badger dir is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.InMemory = cfg.InMemory
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, domain.ErrStorageError.WithDetails("badger open failed").WithCause(err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &BadgerStore{
		db:     db,
		ttl:    ttl,
		logger: log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go s.gcLoop()

	log.Info("badger slot store opened", "dir", cfg.Dir, "in_memory", cfg.InMemory)
	return s, nil
}

// Load implements Store. Badger drops expired entries itself via the
// entry TTL.
func (s *BadgerStore) Load(_ context.Context, sessionID string) (Pair, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return NullPair(), nil
	}
	if err != nil {
		return NullPair(), domain.ErrStorageError.WithDetails("badger get failed").WithCause(err)
	}

	var p Pair
	if err := json.Unmarshal(data, &p); err != nil {
		return NullPair(), nil
	}
	return p.Normalize(), nil
}

// Save implements Store. Each save refreshes the TTL.
func (s *BadgerStore) Save(_ context.Context, sessionID string, p Pair) error {
	if sessionID == "" {
		return domain.ErrInvalidArgument.WithDetails("session ID is required")
	}

	data, err := json.Marshal(p.Normalize())
	if err != nil {
		return domain.ErrInternalServer.WithDetails("marshal pair").WithCause(err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(sessionID), data).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return domain.ErrStorageError.WithDetails("badger set failed").WithCause(err)
	}
	return nil
}

// Delete implements Store.
func (s *BadgerStore) Delete(_ context.Context, sessionID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionID))
	})
	if err != nil {
		return domain.ErrStorageError.WithDetails("badger delete failed").WithCause(err)
	}
	return nil
}

// Close stops the GC loop and closes the database.
func (s *BadgerStore) Close() error {
	close(s.stopCh)
	<-s.doneCh
	return s.db.Close()
}

func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(badgerGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to collect.
			if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("badger gc failed", "error", err)
			}
		}
	}
}
