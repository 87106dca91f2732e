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

// Package compactor evaluates partitions against the configured partition
// filter stages and hands the survivors to a Compactor.
package compactor

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
	"github.com/weaviate/compactor/usecases/ratelimiter"
)

// Catalog lists partitions and their parquet files.
type Catalog interface {
	Partitions(ctx context.Context) ([]compaction.PartitionID, error)
	Files(ctx context.Context, partitionID compaction.PartitionID) ([]compaction.ParquetFile, error)
}

type rateLimitedCatalog struct {
	inner   Catalog
	limiter *ratelimiter.Limiter
}

// NewRateLimitedCatalog makes every catalog request wait for the limiter.
func NewRateLimitedCatalog(inner Catalog, limiter *ratelimiter.Limiter) Catalog {
	if limiter == nil {
		return inner
	}
	return &rateLimitedCatalog{inner: inner, limiter: limiter}
}

func (c *rateLimitedCatalog) Partitions(ctx context.Context) ([]compaction.PartitionID, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.Partitions(ctx)
}

func (c *rateLimitedCatalog) Files(ctx context.Context, partitionID compaction.PartitionID,
) ([]compaction.ParquetFile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.Files(ctx, partitionID)
}

// Compactor merges the files of a partition that passed all stages.
type Compactor interface {
	Compact(ctx context.Context, partitionID compaction.PartitionID, files []compaction.ParquetFile) error
}

// DryRun only logs what would be compacted.
type DryRun struct {
	logger logrus.FieldLogger
}

func NewDryRun(logger logrus.FieldLogger) *DryRun {
	return &DryRun{logger: logger}
}

func (c *DryRun) Compact(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	perLevel := map[string]int{}
	var rows int64
	for i := range files {
		perLevel[files[i].CompactionLevel.String()]++
		rows += files[i].RowCount
	}
	total := compaction.TotalSizeBytes(files)

	c.logger.WithFields(logrus.Fields{
		"action":       "compaction_dry_run",
		"partition_id": partitionID,
		"num_files":    len(files),
		"files":        perLevel,
		"row_count":    rows,
		"total_bytes":  total,
		"total_size":   humanize.IBytes(uint64(total)),
	}).Info("would compact partition")
	return nil
}
