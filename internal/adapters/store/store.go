// Package store persists session values in a bbolt database.
package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	bucketShared = "shared"
	lockTimeout  = time.Second
)

// Store implements ports.SessionStore. The database is opened for each
// operation so that several processes can share one file.
type Store struct {
	path string
}

// New creates a Store backed by the database file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return "", notFound(key)
	}

	var value string
	err := s.with(true, func(db *bbolt.DB) error {
		return db.View(func(tx *bbolt.Tx) error {
			b := tx.Bucket([]byte(bucketShared))
			if b == nil {
				return notFound(key)
			}
			v := b.Get([]byte(key))
			if v == nil {
				return notFound(key)
			}
			value = string(v)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	err := s.with(false, func(db *bbolt.DB) error {
		return db.Update(func(tx *bbolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists([]byte(bucketShared))
			if err != nil {
				return err
			}
			return b.Put([]byte(key), []byte(value))
		})
	})
	return zerr.With(err, "key", key)
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	err := s.with(false, func(db *bbolt.DB) error {
		return db.Update(func(tx *bbolt.Tx) error {
			b := tx.Bucket([]byte(bucketShared))
			if b == nil {
				return nil
			}
			return b.Delete([]byte(key))
		})
	})
	return zerr.With(err, "key", key)
}

func (s *Store) with(readOnly bool, fn func(db *bbolt.DB) error) error {
	if !readOnly {
		if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", s.path)
		}
	}

	db, err := bbolt.Open(s.path, domain.PrivateFilePerm, &bbolt.Options{
		Timeout:  lockTimeout,
		ReadOnly: readOnly,
	})
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", s.path)
	}
	defer func() { _ = db.Close() }()

	return fn(db)
}

func notFound(key string) error {
	return zerr.With(zerr.Wrap(domain.ErrKeyNotFound, key), "key", key)
}
