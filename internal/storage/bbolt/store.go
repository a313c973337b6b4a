// Package bbolt provides a BoltDB-backed save store.
package bbolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ebenmoss/sultanate/internal/save"
	"github.com/ebenmoss/sultanate/internal/storage"
)

const saveBucket = "save"

// Store provides a BoltDB-backed save store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(saveBucket)); err != nil {
			return fmt.Errorf("create save bucket: %w", err)
		}
		return nil
	})
}

// Put persists a save record, overwriting any record with the same id.
func (s *Store) Put(ctx context.Context, record save.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("save id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal save record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(saveBucket))
		if bucket == nil {
			return errors.New("save bucket is missing")
		}
		return bucket.Put([]byte(record.ID), payload)
	})
}

// Get fetches a save record by id.
func (s *Store) Get(ctx context.Context, id string) (save.Record, error) {
	if err := ctx.Err(); err != nil {
		return save.Record{}, err
	}
	if s == nil || s.db == nil {
		return save.Record{}, fmt.Errorf("storage is not configured")
	}

	var record save.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(saveBucket))
		if bucket == nil {
			return errors.New("save bucket is missing")
		}
		payload := bucket.Get([]byte(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal save record: %w", err)
		}
		return nil
	})
	if err != nil {
		return save.Record{}, err
	}
	return record, nil
}

// List returns all stored save ids in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(saveBucket))
		if bucket == nil {
			return errors.New("save bucket is missing")
		}
		return bucket.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes a save record. Deleting a missing id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(saveBucket))
		if bucket == nil {
			return errors.New("save bucket is missing")
		}
		return bucket.Delete([]byte(id))
	})
}
