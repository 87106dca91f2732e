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

	"github.com/pkg/errors"

	"github.com/weaviate/compactor/entities/compaction"
	"github.com/weaviate/compactor/usecases/compactor/skipped"
)

// NeverSkipped rejects partitions that carry a skip marker. Failing to look
// the marker up is reported as an error, not as a rejection.
type NeverSkipped struct {
	source skipped.Source
}

func NewNeverSkipped(source skipped.Source) *NeverSkipped {
	return &NeverSkipped{source: source}
}

func (f *NeverSkipped) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	sc, err := f.source.Fetch(ctx, partitionID)
	if err != nil {
		return false, errors.Wrapf(err, "fetch skip marker of partition %s", partitionID)
	}
	return sc == nil, nil
}

func (f *NeverSkipped) String() string {
	return "never_skipped"
}
