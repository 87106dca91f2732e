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

// Logging writes one entry per evaluation of the wrapped filter and returns
// its outcome unchanged. Passes are logged at debug, rejections at info and
// errors at error level.
type Logging struct {
	inner      PartitionFilter
	filterType string
	logger     logrus.FieldLogger
}

func NewLogging(inner PartitionFilter, filterType string, logger logrus.FieldLogger) *Logging {
	return &Logging{
		inner:      inner,
		filterType: filterType,
		logger:     logger,
	}
}

func (f *Logging) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	ok, err := f.inner.Apply(ctx, partitionID, files)
	if ctx.Err() != nil {
		// the caller abandoned this evaluation
		return ok, err
	}

	logger := f.logger
	if d, isDiagnostics := f.inner.(Diagnostics); isDiagnostics {
		logger = logger.WithFields(d.Diagnostics(files))
	}
	logger = logger.WithFields(logrus.Fields{
		"action":       "partition_filter",
		"filter_type":  f.filterType,
		"filter":       f.inner.String(),
		"partition_id": partitionID,
		"num_files":    len(files),
		"result":       result(ok, err),
	})

	switch {
	case err != nil:
		logger.WithError(err).Error("error filtering partition")
	case ok:
		logger.Debug("partition not filtered")
	default:
		logger.Info("partition filtered")
	}

	return ok, err
}

func (f *Logging) String() string {
	return fmt.Sprintf("logging(%s, %s)", f.inner, f.filterType)
}
