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

// Or passes a partition as soon as one child does. Like And it stops at the
// first error, even if a later child would have passed. An empty Or rejects
// everything.
type Or struct {
	filters []PartitionFilter
}

func NewOr(filters ...PartitionFilter) *Or {
	return &Or{filters: append([]PartitionFilter(nil), filters...)}
}

func (f *Or) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	for _, filter := range f.filters {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		ok, err := filter.Apply(ctx, partitionID, files)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func (f *Or) Diagnostics(files []compaction.ParquetFile) logrus.Fields {
	return diagnostics(files, f.filters...)
}

func (f *Or) String() string {
	return join(f.filters, "or")
}
