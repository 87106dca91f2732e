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

package compaction

import "time"

// SkippedCompaction marks a partition that could not be evaluated or
// compacted. Marked partitions are excluded from later cycles until the
// marker is removed.
type SkippedCompaction struct {
	PartitionID PartitionID `json:"partition_id"`
	Reason      string      `json:"reason"`
	Kind        string      `json:"kind"`
	SkippedAt   time.Time   `json:"skipped_at"`
	NumFiles    int         `json:"num_files"`
	TotalBytes  int64       `json:"total_bytes"`
}
