// Package boltstore persists the entity graph to a bbolt file. It is
// the concrete implementation of the abstract entity store the game
// layer is written against: the live world stays in memory and writes
// go through write-through puts.
package boltstore

import (
	"github.com/pkg/errors"
	bbolt "go.etcd.io/bbolt"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Store wraps a bbolt database holding serialized entities.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates a bbolt database file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "boltstore: open %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketEntities} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "boltstore: create buckets")
	}
	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the underlying bbolt database.
func (s *Store) Path() string {
	if s.bolt != nil {
		return s.bolt.Path()
	}
	return ""
}

// PutEntity persists a single entity (write-through).
func (s *Store) PutEntity(e *worlddb.Entity) error {
	data, err := encodeEntity(e)
	if err != nil {
		return errors.Wrapf(err, "boltstore: encode entity #%d", e.ID)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntities).Put(idToKey(e.ID), data)
	})
}

// PutEntities persists multiple entities in a single transaction.
func (s *Store) PutEntities(es ...*worlddb.Entity) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntities)
		for _, e := range es {
			if e == nil {
				continue
			}
			data, err := encodeEntity(e)
			if err != nil {
				return errors.Wrapf(err, "boltstore: encode entity #%d", e.ID)
			}
			if err := b.Put(idToKey(e.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteEntity removes an entity record.
func (s *Store) DeleteEntity(id worlddb.ID) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntities).Delete(idToKey(id))
	})
}

// ImportWorld bulk-saves an entire world, batching writes in one
// transaction per call, and records the ID counter.
func (s *Store) ImportWorld(w *worlddb.World) error {
	err := s.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntities)
		for _, e := range w.Entities {
			data, err := encodeEntity(e)
			if err != nil {
				return errors.Wrapf(err, "boltstore: encode entity #%d", e.ID)
			}
			if err := b.Put(idToKey(e.ID), data); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketMeta).Put(keyNextID, intToKey(int(w.NextID())))
	})
	return errors.Wrap(err, "boltstore: import world")
}

// LoadWorld reconstructs a world from the store, wiring in the given
// blueprint source for later spawns.
func (s *Store) LoadWorld(blueprints worlddb.Builder) (*worlddb.World, error) {
	w := worlddb.NewWorld(blueprints)
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntities)
		if err := b.ForEach(func(k, v []byte) error {
			e, err := decodeEntity(v)
			if err != nil {
				return errors.Wrapf(err, "boltstore: decode entity #%d", keyToID(k))
			}
			w.Put(e)
			return nil
		}); err != nil {
			return err
		}
		if raw := tx.Bucket(bucketMeta).Get(keyNextID); raw != nil {
			w.EnsureNextID(worlddb.ID(keyToInt(raw)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Count returns the number of persisted entities.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketEntities).Stats().KeyN
		return nil
	})
	return n, err
}
