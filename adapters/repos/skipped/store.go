//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package skipped

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/weaviate/compactor/entities/compaction"
)

var skippedBucket = []byte("skipped_compactions")

/*
Store persists skip markers in a bolt database so that partitions which
failed to compact stay skipped across restarts.

Layout:
  - one bucket "skipped_compactions"
  - key: partition id as big endian uint64 with the sign bit flipped, so
    that a cursor walks markers in ascending partition order
  - value: JSON encoded compaction.SkippedCompaction
*/
type Store struct {
	homeDir string
	log     logrus.FieldLogger
	db      *bolt.DB
}

// NewStore returns a new skip marker repository. Call the Open() method to
// open the underlying DB. To free the resources, call the Close() method.
func NewStore(homeDir string, logger logrus.FieldLogger) *Store {
	return &Store{
		homeDir: homeDir,
		log:     logger,
	}
}

// Open the underlying DB
func (s *Store) Open() error {
	if err := os.MkdirAll(s.homeDir, 0o777); err != nil {
		return fmt.Errorf("create root directory %q: %w", s.homeDir, err)
	}
	filePath := path.Join(s.homeDir, "skipped.db")
	db, err := bolt.Open(filePath, 0o600, nil)
	if err != nil {
		return fmt.Errorf("open %q: %w", filePath, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(skippedBucket)
		return err
	}); err != nil {
		db.Close()
		return fmt.Errorf("create bucket %q: %w", skippedBucket, err)
	}
	s.db = db
	s.log.WithField("action", "skipped_store_open").
		WithField("path", filePath).
		Debug("opened skip marker store")
	return nil
}

// Close the underlying DB
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Fetch(ctx context.Context, partitionID compaction.PartitionID,
) (*compaction.SkippedCompaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sc *compaction.SkippedCompaction
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(skippedBucket).Get(partitionKey(partitionID))
		if data == nil {
			return nil
		}
		sc = &compaction.SkippedCompaction{}
		if err := json.Unmarshal(data, sc); err != nil {
			return fmt.Errorf("unmarshal skip marker of partition %s: %w", partitionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Store) Record(ctx context.Context, sc compaction.SkippedCompaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal skip marker of partition %s: %w", sc.PartitionID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(skippedBucket).Put(partitionKey(sc.PartitionID), data)
	})
}

func (s *Store) Remove(ctx context.Context, partitionID compaction.PartitionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(skippedBucket).Delete(partitionKey(partitionID))
	})
}

// List returns all markers ordered by partition id.
func (s *Store) List(ctx context.Context) ([]compaction.SkippedCompaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var res []compaction.SkippedCompaction
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(skippedBucket).ForEach(func(k, v []byte) error {
			var sc compaction.SkippedCompaction
			if err := json.Unmarshal(v, &sc); err != nil {
				return fmt.Errorf("unmarshal skip marker %x: %w", k, err)
			}
			res = append(res, sc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func partitionKey(partitionID compaction.PartitionID) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(partitionID)^(1<<63))
	return key
}
