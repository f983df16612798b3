// Package cache persists prepared structures in a single bbolt database so
// that repeated runs over the same files skip secondary structure
// assignment. Values are gob encoded.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketPrepared = []byte("prepared")

// Store is an open cache database. It is safe for concurrent use.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPrepared)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Key identifies the preparation of the file at path under a configuration
// fingerprint. The file's size and modification time are part of the key,
// so a file edited in place is prepared again. Relative paths are made
// absolute first, when possible.
func Key(path, fingerprint string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%s",
		path, info.Size(), info.ModTime().UnixNano(), fingerprint)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get decodes the value stored under key into v, which must be a pointer.
// It reports false when there is no such value.
func (s *Store) Get(key string, v interface{}) (bool, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if d := tx.Bucket(bucketPrepared).Get([]byte(key)); d != nil {
			data = append([]byte(nil), d...)
		}
		return nil
	})
	if err != nil || data == nil {
		return false, err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Put stores v under key, replacing any previous value.
func (s *Store) Put(key string, v interface{}) error {
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPrepared).Put([]byte(key), buf.Bytes())
	})
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	n := 0
	s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketPrepared).Stats().KeyN
		return nil
	})
	return n
}

func (s *Store) Close() error {
	return s.db.Close()
}
