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

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
)

// MaxParquetBytes rejects partitions whose files add up to more than
// maxBytes.
type MaxParquetBytes struct {
	maxBytes int64
}

func NewMaxParquetBytes(maxBytes int64) *MaxParquetBytes {
	return &MaxParquetBytes{maxBytes: maxBytes}
}

func (f *MaxParquetBytes) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	return compaction.TotalSizeBytes(files) <= f.maxBytes, nil
}

func (f *MaxParquetBytes) Diagnostics(files []compaction.ParquetFile) logrus.Fields {
	total := compaction.TotalSizeBytes(files)
	return logrus.Fields{
		"total_bytes":       total,
		"total_size":        humanize.IBytes(uint64(total)),
		"max_parquet_bytes": f.maxBytes,
	}
}

func (f *MaxParquetBytes) String() string {
	return fmt.Sprintf("max_parquet_bytes(%d)", f.maxBytes)
}
