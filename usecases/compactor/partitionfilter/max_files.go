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
)

// MaxFiles rejects partitions with more than maxFiles parquet files.
type MaxFiles struct {
	maxFiles int
}

func NewMaxFiles(maxFiles int) *MaxFiles {
	return &MaxFiles{maxFiles: maxFiles}
}

func (f *MaxFiles) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	return len(files) <= f.maxFiles, nil
}

func (f *MaxFiles) Diagnostics(files []compaction.ParquetFile) logrus.Fields {
	return logrus.Fields{"max_files": f.maxFiles}
}

func (f *MaxFiles) String() string {
	return fmt.Sprintf("max_files(%d)", f.maxFiles)
}
