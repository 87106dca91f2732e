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

package partitionfilter

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
	"github.com/weaviate/compactor/usecases/compactor/filefilter"
)

// GreaterMatchingFiles passes partitions with at least minNumFiles files
// accepted by the file filter.
type GreaterMatchingFiles struct {
	filter      filefilter.FileFilter
	minNumFiles int
}

func NewGreaterMatchingFiles(filter filefilter.FileFilter, minNumFiles int) *GreaterMatchingFiles {
	return &GreaterMatchingFiles{
		filter:      filter,
		minNumFiles: minNumFiles,
	}
}

func (f *GreaterMatchingFiles) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	return f.countMatching(files) >= f.minNumFiles, nil
}

func (f *GreaterMatchingFiles) countMatching(files []compaction.ParquetFile) int {
	count := 0
	for i := range files {
		if f.filter.Apply(files[i]) {
			count++
		}
	}
	return count
}

func (f *GreaterMatchingFiles) Diagnostics(files []compaction.ParquetFile) logrus.Fields {
	return logrus.Fields{
		"num_matching_files": f.countMatching(files),
		"min_matching_files": f.minNumFiles,
	}
}

func (f *GreaterMatchingFiles) String() string {
	return fmt.Sprintf("greater_matching_files(%s, %d)", f.filter, f.minNumFiles)
}
