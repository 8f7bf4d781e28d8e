// Package badger stores the pantry in an embedded BadgerDB key-value store.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/mealprep/pantrymatch/internal/domain/pantry"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/memory"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"go.uber.org/zap"
)

const (
	itemPrefix = "pantry/item/"
	namePrefix = "pantry/name/"
)

// Open opens (or creates) a Badger database in dir. An empty dir opens an
// in-memory database.
func Open(dir string) (*badger.DB, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		opts = badger.DefaultOptions(absPath)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}
	return db, nil
}

// PantryRepository implements outbound.PantryRepository on Badger. Each
// ingredient is a JSON snapshot under its ID plus a name index entry.
type PantryRepository struct {
	db     *badger.DB
	logger *zap.Logger
}

// NewPantryRepository wraps an open Badger database
func NewPantryRepository(db *badger.DB, logger *zap.Logger) *PantryRepository {
	return &PantryRepository{db: db, logger: logger.Named("badger-pantry")}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

func itemKey(id uuid.UUID) []byte { return []byte(itemPrefix + id.String()) }
func nameKey(name string) []byte  { return []byte(namePrefix + pantry.NormalizeName(name)) }

// Save inserts or replaces an ingredient. Another ingredient with the same
// normalized name gives pantry.ErrDuplicateIngredient.
func (r *PantryRepository) Save(ctx context.Context, ingredient *pantry.Ingredient) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := ingredient.Snapshot()
	snap.DateAdded = snap.DateAdded.UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredient: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		owner, err := readID(txn, nameKey(snap.Name))
		switch {
		case err == nil && owner != snap.ID:
			return pantry.ErrDuplicateIngredient
		case err != nil && !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		// a rename leaves the old index entry behind
		if previous, err := readSnapshot(txn, snap.ID); err == nil {
			if pantry.NormalizeName(previous.Name) != pantry.NormalizeName(snap.Name) {
				if err := txn.Delete(nameKey(previous.Name)); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(itemKey(snap.ID), data); err != nil {
			return err
		}
		return txn.Set(nameKey(snap.Name), []byte(snap.ID.String()))
	})
}

func (r *PantryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		snap, err := readSnapshot(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(itemKey(id)); err != nil {
			return err
		}
		return txn.Delete(nameKey(snap.Name))
	})
	return notFound(err)
}

func (r *PantryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snap pantry.Snapshot
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		snap, err = readSnapshot(txn, id)
		return err
	})
	if err != nil {
		return nil, notFound(err)
	}
	return pantry.Reconstitute(snap), nil
}

// FindByName looks the ingredient up through the name index
func (r *PantryRepository) FindByName(ctx context.Context, name string) (*pantry.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snap pantry.Snapshot
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := readID(txn, nameKey(name))
		if err != nil {
			return err
		}
		snap, err = readSnapshot(txn, id)
		return err
	})
	if err != nil {
		return nil, notFound(err)
	}
	return pantry.Reconstitute(snap), nil
}

// FindAll returns ingredients ordered by date added, then ID
func (r *PantryRepository) FindAll(ctx context.Context) ([]*pantry.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snaps := make([]pantry.Snapshot, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(itemPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var snap pantry.Snapshot
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			}); err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	memory.SortSnapshots(snaps)
	out := make([]*pantry.Ingredient, len(snaps))
	for i, s := range snaps {
		out[i] = pantry.Reconstitute(s)
	}
	return out, nil
}

// RunGC reclaims value log space until Badger reports nothing to rewrite
func (r *PantryRepository) RunGC() {
	for {
		if err := r.db.RunValueLogGC(0.5); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
				r.logger.Warn("Value log GC failed", zap.Error(err))
			}
			return
		}
	}
}

// StartGC runs RunGC every interval until ctx is done
func (r *PantryRepository) StartGC(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.RunGC()
			}
		}
	}()
	r.logger.Info("Started value log GC", zap.Duration("interval", interval))
}

func readSnapshot(txn *badger.Txn, id uuid.UUID) (pantry.Snapshot, error) {
	var snap pantry.Snapshot
	item, err := txn.Get(itemKey(id))
	if err != nil {
		return snap, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &snap)
	})
	return snap, err
}

func readID(txn *badger.Txn, key []byte) (uuid.UUID, error) {
	item, err := txn.Get(key)
	if err != nil {
		return uuid.Nil, err
	}
	var id uuid.UUID
	err = item.Value(func(val []byte) error {
		var perr error
		id, perr = uuid.ParseBytes(val)
		return perr
	})
	return id, err
}

func notFound(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return outbound.ErrNotFound
	}
	return err
}
