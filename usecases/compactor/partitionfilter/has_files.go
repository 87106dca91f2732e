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

	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
)

// HasFiles rejects partitions without any parquet file.
type HasFiles struct{}

func NewHasFiles() *HasFiles {
	return &HasFiles{}
}

func (f *HasFiles) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	return len(files) > 0, nil
}

func (f *HasFiles) Diagnostics(files []compaction.ParquetFile) logrus.Fields {
	return logrus.Fields{"has_files": len(files) > 0}
}

func (f *HasFiles) String() string {
	return "has_files"
}
