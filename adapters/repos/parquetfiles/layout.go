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

// Package parquetfiles lists partitions and their parquet files from an
// object store layout of
//
//	<prefix>/<partition_id>/<level>/<object_store_id>.parquet
//
// Both the local filesystem and S3 compatible stores are supported.
package parquetfiles

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/compactor/entities/compaction"
)

const fileExtension = ".parquet"

// footer key/value metadata written by the ingester
const (
	metaMinTime = "min_time"
	metaMaxTime = "max_time"
)

// ObjectKey returns the key of a parquet file below prefix. An empty prefix
// yields a relative key.
func ObjectKey(prefix string, partitionID compaction.PartitionID,
	level compaction.CompactionLevel, id uuid.UUID,
) string {
	return path.Join(prefix, partitionID.String(),
		strconv.Itoa(int(level)), id.String()+fileExtension)
}

// objectKey is the parsed form of a key relative to the layout prefix.
type objectKey struct {
	partitionID compaction.PartitionID
	level       compaction.CompactionLevel
	id          uuid.UUID
}

// ParseObjectKey is the inverse of ObjectKey.
func ParseObjectKey(prefix, key string) (compaction.PartitionID,
	compaction.CompactionLevel, uuid.UUID, error,
) {
	k, err := parseObjectKey(prefix, key)
	if err != nil {
		return 0, 0, uuid.Nil, err
	}
	return k.partitionID, k.level, k.id, nil
}

func parseObjectKey(prefix, key string) (objectKey, error) {
	rel := key
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		var ok bool
		rel, ok = strings.CutPrefix(strings.TrimPrefix(key, "/"), prefix+"/")
		if !ok {
			return objectKey{}, fmt.Errorf("key %q is outside of prefix %q", key, prefix)
		}
	}

	parts := strings.Split(strings.Trim(rel, "/"), "/")
	if len(parts) != 3 {
		return objectKey{}, fmt.Errorf("key %q does not match <partition>/<level>/<id>%s",
			key, fileExtension)
	}

	partitionID, err := compaction.ParsePartitionID(parts[0])
	if err != nil {
		return objectKey{}, err
	}

	levelNum, err := strconv.ParseInt(parts[1], 10, 16)
	if err != nil {
		return objectKey{}, errors.Wrapf(err, "parse level of key %q", key)
	}
	level := compaction.CompactionLevel(levelNum)
	if !level.Valid() {
		return objectKey{}, fmt.Errorf("key %q has unknown level %d", key, levelNum)
	}

	name, ok := strings.CutSuffix(parts[2], fileExtension)
	if !ok {
		return objectKey{}, fmt.Errorf("key %q is not a %s file", key, fileExtension)
	}
	id, err := uuid.Parse(name)
	if err != nil {
		return objectKey{}, errors.Wrapf(err, "parse object store id of key %q", key)
	}

	return objectKey{partitionID: partitionID, level: level, id: id}, nil
}

// partitionPrefix is the key prefix of all files of a partition.
func partitionPrefix(prefix string, partitionID compaction.PartitionID) string {
	return path.Join(prefix, partitionID.String()) + "/"
}
