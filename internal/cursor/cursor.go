package cursor

import (
	"bytes"
	"encoding/gob"
	"fmt"

	bbolt "go.etcd.io/bbolt"
)

var bucketFiles = []byte("files")

// Position marks how far into a log file ingestion has read. FirstLine
// fingerprints the file content so a rotated file reusing the same path is
// detected and the stale offset discarded.
type Position struct {
	Offset    int64
	FirstLine string
}

// Store persists ingest positions between runs.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates the cursor database and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("cursor: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cursor: create bucket: %w", err)
	}
	return &Store{bolt: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Get returns the stored position for a log file path. ok is false when the
// path has never been read.
func (s *Store) Get(path string) (pos Position, ok bool, err error) {
	err = s.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketFiles).Get([]byte(path))
		if v == nil {
			return nil
		}
		if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&pos); err != nil {
			return fmt.Errorf("decode position for %s: %w", path, err)
		}
		ok = true
		return nil
	})
	if err != nil {
		return Position{}, false, fmt.Errorf("cursor: %w", err)
	}
	return pos, ok, nil
}

// Put records the position for a log file path.
func (s *Store) Put(path string, pos Position) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(pos); err != nil {
		return fmt.Errorf("cursor: encode position: %w", err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(path), buf.Bytes())
	})
}

// Forget drops the stored position for a log file path.
func (s *Store) Forget(path string) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFiles).Delete([]byte(path))
	})
}
