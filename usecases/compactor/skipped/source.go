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

package skipped

import (
	"context"

	"github.com/weaviate/compactor/entities/compaction"
)

// Source looks up skip markers. Fetch returns nil without error when the
// partition has none.
type Source interface {
	Fetch(ctx context.Context, partitionID compaction.PartitionID) (*compaction.SkippedCompaction, error)
}

// Store is a Source that can also be written to. Recording a marker for a
// partition that already has one replaces it.
type Store interface {
	Source
	Record(ctx context.Context, sc compaction.SkippedCompaction) error
	Remove(ctx context.Context, partitionID compaction.PartitionID) error
	List(ctx context.Context) ([]compaction.SkippedCompaction, error)
}
