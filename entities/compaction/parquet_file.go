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

package compaction

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PartitionID identifies a storage partition. It is owned by the catalog and
// only used as a lookup and log key here.
type PartitionID int64

func (id PartitionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParsePartitionID(s string) (PartitionID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse partition id %q: %w", s, err)
	}
	return PartitionID(v), nil
}

type CompactionLevel int16

const (
	// LevelInitial files are freshly ingested and may overlap each other.
	LevelInitial CompactionLevel = iota
	// LevelFileNonOverlapped files were compacted at least once and do not
	// overlap other files of the same level.
	LevelFileNonOverlapped
	// LevelFinal files are not compacted any further.
	LevelFinal
)

func (l CompactionLevel) String() string {
	switch l {
	case LevelInitial:
		return "initial"
	case LevelFileNonOverlapped:
		return "non_overlapped"
	case LevelFinal:
		return "final"
	default:
		return fmt.Sprintf("level_%d", int16(l))
	}
}

func (l CompactionLevel) Valid() bool {
	return l >= LevelInitial && l <= LevelFinal
}

// ParseCompactionLevel accepts either the numeric level ("0".."2") or its
// name as returned by String.
func ParseCompactionLevel(s string) (CompactionLevel, error) {
	switch strings.ToLower(s) {
	case "0", "initial":
		return LevelInitial, nil
	case "1", "non_overlapped":
		return LevelFileNonOverlapped, nil
	case "2", "final":
		return LevelFinal, nil
	default:
		return 0, fmt.Errorf("unknown compaction level %q", s)
	}
}

// ParquetFile is the catalog's metadata record of a single data file. Values
// are never modified once handed out.
type ParquetFile struct {
	PartitionID     PartitionID
	ObjectStoreID   uuid.UUID
	Path            string
	CompactionLevel CompactionLevel
	FileSizeBytes   int64
	RowCount        int64
	MinTime         time.Time
	MaxTime         time.Time
	CreatedAt       time.Time
}

func TotalSizeBytes(files []ParquetFile) int64 {
	var total int64
	for i := range files {
		total += files[i].FileSizeBytes
	}
	return total
}
