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

	"github.com/weaviate/compactor/entities/compaction"
	"github.com/weaviate/compactor/usecases/compactor/filefilter"
)

// HasMatchingFile passes partitions with at least one file accepted by the
// file filter.
type HasMatchingFile struct {
	filter filefilter.FileFilter
}

func NewHasMatchingFile(filter filefilter.FileFilter) *HasMatchingFile {
	return &HasMatchingFile{filter: filter}
}

func (f *HasMatchingFile) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	for i := range files {
		if f.filter.Apply(files[i]) {
			return true, nil
		}
	}
	return false, nil
}

func (f *HasMatchingFile) String() string {
	return fmt.Sprintf("has_matching_file(%s)", f.filter)
}
