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

package compactor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
	"github.com/weaviate/compactor/usecases/compactor/filefilter"
	"github.com/weaviate/compactor/usecases/compactor/partitionfilter"
	"github.com/weaviate/compactor/usecases/compactor/skipped"
	"github.com/weaviate/compactor/usecases/config"
)

const (
	StagePartition     = "partition"
	StageResourceLimit = "resource_limit"
)

// Stage is one step a partition has to pass before it is compacted.
type Stage struct {
	Name   string
	Filter partitionfilter.PartitionFilter
	// SkipOnReject marks rejected partitions as skipped instead of just
	// leaving them for the next cycle.
	SkipOnReject bool
}

// NewStages builds the partition and resource limit stages. counts may be
// nil to disable filter metrics.
func NewStages(cfg config.Compactor, source skipped.Source,
	counts *prometheus.CounterVec, logger logrus.FieldLogger,
) []Stage {
	initial := filefilter.NewLevelRange(compaction.LevelInitial, compaction.LevelInitial)

	partition := []partitionfilter.PartitionFilter{partitionfilter.NewHasFiles()}
	if !cfg.IgnorePartitionSkipMarker {
		partition = append(partition, partitionfilter.NewNeverSkipped(source))
	}
	partition = append(partition,
		partitionfilter.NewHasMatchingFile(initial),
		partitionfilter.NewGreaterMatchingFiles(initial, cfg.MinL0Files),
	)

	resourceLimit := []partitionfilter.PartitionFilter{
		partitionfilter.NewMaxFiles(cfg.MaxFiles),
		partitionfilter.NewMaxParquetBytes(cfg.MaxParquetBytes),
	}

	return []Stage{
		{
			Name:   StagePartition,
			Filter: decorate(partitionfilter.NewAnd(partition...), StagePartition, counts, logger),
		},
		{
			Name:         StageResourceLimit,
			Filter:       decorate(partitionfilter.NewAnd(resourceLimit...), StageResourceLimit, counts, logger),
			SkipOnReject: true,
		},
	}
}

func decorate(f partitionfilter.PartitionFilter, filterType string,
	counts *prometheus.CounterVec, logger logrus.FieldLogger,
) partitionfilter.PartitionFilter {
	return partitionfilter.NewLogging(
		partitionfilter.NewMetrics(f, filterType, counts),
		filterType, logger)
}
