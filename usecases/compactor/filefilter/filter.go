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

package filefilter

import (
	"fmt"

	"github.com/weaviate/compactor/entities/compaction"
)

// FileFilter decides whether a single parquet file is relevant, e.g. when
// counting the files of a partition that are still at level 0.
type FileFilter interface {
	fmt.Stringer
	Apply(file compaction.ParquetFile) bool
}

type LevelRange struct {
	min, max compaction.CompactionLevel
}

// NewLevelRange matches files whose compaction level lies in [min, max].
func NewLevelRange(min, max compaction.CompactionLevel) *LevelRange {
	return &LevelRange{min: min, max: max}
}

func (f *LevelRange) Apply(file compaction.ParquetFile) bool {
	return file.CompactionLevel >= f.min && file.CompactionLevel <= f.max
}

func (f *LevelRange) String() string {
	return fmt.Sprintf("level_range(%s..=%s)", f.min, f.max)
}
