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
	"errors"
	"sync/atomic"

	"github.com/weaviate/compactor/entities/compaction"
)

var errFilter = errors.New("catalog unavailable")

type fakeFilter struct {
	name  string
	ok    bool
	err   error
	calls atomic.Int64
}

func newFakeFilter(name string, ok bool) *fakeFilter {
	return &fakeFilter{name: name, ok: ok}
}

func newErrorFilter(name string, err error) *fakeFilter {
	return &fakeFilter{name: name, err: err}
}

func (f *fakeFilter) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	f.calls.Add(1)
	if f.err != nil {
		return false, f.err
	}
	return f.ok, nil
}

func (f *fakeFilter) String() string {
	return f.name
}

// byPartitionFilter passes partitions with id%3 == 0, rejects id%3 == 1 and
// fails for the rest.
type byPartitionFilter struct{}

func (f *byPartitionFilter) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	switch partitionID % 3 {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, errFilter
	}
}

func (f *byPartitionFilter) String() string {
	return "by_partition"
}

// cancellingFilter simulates a caller abandoning the evaluation while the
// filter is running.
type cancellingFilter struct {
	cancel context.CancelFunc
}

func (f *cancellingFilter) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	f.cancel()
	<-ctx.Done()
	return false, ctx.Err()
}

func (f *cancellingFilter) String() string {
	return "cancelling"
}

// cancelThenDecideFilter cancels the evaluation but still reports a
// decision, so the combinator itself has to notice the cancellation.
type cancelThenDecideFilter struct {
	cancel context.CancelFunc
	ok     bool
}

func (f *cancelThenDecideFilter) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	f.cancel()
	return f.ok, nil
}

func (f *cancelThenDecideFilter) String() string {
	return "cancel_then_decide"
}

func filesOfSize(n int, size int64) []compaction.ParquetFile {
	files := make([]compaction.ParquetFile, n)
	for i := range files {
		files[i] = compaction.ParquetFile{
			PartitionID:     1,
			FileSizeBytes:   size,
			CompactionLevel: compaction.LevelInitial,
		}
	}
	return files
}

// spyFilter counts how often the embedded filter is evaluated.
type spyFilter struct {
	PartitionFilter
	calls atomic.Int64
}

func (f *spyFilter) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	f.calls.Add(1)
	return f.PartitionFilter.Apply(ctx, partitionID, files)
}
