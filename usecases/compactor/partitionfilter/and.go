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
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
)

// And passes a partition only if every child does. Children run one after
// another in construction order; the first rejection or error ends the
// evaluation and the remaining children are not called. An empty And passes
// everything.
type And struct {
	filters []PartitionFilter
}

func NewAnd(filters ...PartitionFilter) *And {
	return &And{filters: append([]PartitionFilter(nil), filters...)}
}

func (f *And) Apply(ctx context.Context, partitionID compaction.PartitionID,
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
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

// Diagnostics collects the fields of all children, including those that
// were not evaluated.
func (f *And) Diagnostics(files []compaction.ParquetFile) logrus.Fields {
	return diagnostics(files, f.filters...)
}

func (f *And) String() string {
	return join(f.filters, "and")
}

func join(filters []PartitionFilter, op string) string {
	if len(filters) == 0 {
		return op + "()"
	}

	names := make([]string, len(filters))
	for i, filter := range filters {
		names[i] = "(" + filter.String() + ")"
	}
	return strings.Join(names, " "+op+" ")
}
