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

// Package partitionfilter decides whether a partition is handed to the
// compaction machinery. Every filter, combinator and decorator implements
// PartitionFilter, so they nest freely:
//
//	NewLogging(NewMetrics(NewAnd(NewHasFiles(), NewMaxFiles(100)), "partition", counts), "partition", logger)
//
// A filter answers true (proceed), false (excluded from this stage) or an
// error (no decision possible). false is never used to report a failure.
// Filter trees are built once and shared by all concurrent evaluations, so
// implementations must not keep per-call state.
package partitionfilter

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
)

type PartitionFilter interface {
	// String returns the short, stable name used in logs and metric labels.
	fmt.Stringer
	// Apply must treat files as read-only.
	Apply(ctx context.Context, partitionID compaction.PartitionID,
		files []compaction.ParquetFile) (bool, error)
}

// Diagnostics is implemented by filters that can explain their decision.
// The logging decorator attaches the fields to its entry.
type Diagnostics interface {
	Diagnostics(files []compaction.ParquetFile) logrus.Fields
}

// diagnostics merges the fields of all filters that implement Diagnostics.
// Later filters win on key conflicts.
func diagnostics(files []compaction.ParquetFile, filters ...PartitionFilter) logrus.Fields {
	var fields logrus.Fields
	for _, filter := range filters {
		d, ok := filter.(Diagnostics)
		if !ok {
			continue
		}
		for k, v := range d.Diagnostics(files) {
			if fields == nil {
				fields = logrus.Fields{}
			}
			fields[k] = v
		}
	}
	return fields
}

const (
	resultPass   = "pass"
	resultReject = "reject"
	resultError  = "error"
)

func result(ok bool, err error) string {
	switch {
	case err != nil:
		return resultError
	case ok:
		return resultPass
	default:
		return resultReject
	}
}

// True lets every partition through. Useful as a pipeline no-op.
type True struct{}

func NewTrue() *True {
	return &True{}
}

func (f *True) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	return true, nil
}

func (f *True) String() string {
	return "true"
}

// False rejects every partition.
type False struct{}

func NewFalse() *False {
	return &False{}
}

func (f *False) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	return false, nil
}

func (f *False) String() string {
	return "false"
}
