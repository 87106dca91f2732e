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

package parquetfiles

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/compactor/entities/compaction"
	enterrors "github.com/weaviate/compactor/entities/errors"
)

type row struct {
	Time  int64   `parquet:"time"`
	Host  string  `parquet:"host"`
	Value float64 `parquet:"value"`
}

func writeParquet(t *testing.T, root string, partitionID compaction.PartitionID,
	level compaction.CompactionLevel, rows int, minTime, maxTime time.Time,
) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(ObjectKey("", partitionID, level, uuid.New())))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	data := make([]row, rows)
	for i := range data {
		data[i] = row{Time: minTime.UnixNano() + int64(i), Host: "a", Value: float64(i)}
	}
	require.NoError(t, parquet.WriteFile(path, data,
		parquet.KeyValueMetadata(metaMinTime, FormatFooterTime(minTime)),
		parquet.KeyValueMetadata(metaMaxTime, FormatFooterTime(maxTime)),
	))
	return path
}

func TestFilesystemPartitions(t *testing.T) {
	logger, _ := test.NewNullLogger()
	root := t.TempDir()

	for _, dir := range []string{"10", "2", "33", "not-a-partition"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "5"), []byte("file"), 0o600))

	ids, err := NewFilesystem(root, false, logger).Partitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []compaction.PartitionID{2, 10, 33}, ids)
}

func TestFilesystemPartitionsMissingRoot(t *testing.T) {
	logger, _ := test.NewNullLogger()

	ids, err := NewFilesystem(filepath.Join(t.TempDir(), "absent"), false, logger).
		Partitions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFilesystemFiles(t *testing.T) {
	logger, _ := test.NewNullLogger()
	root := t.TempDir()
	minTime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	maxTime := minTime.Add(time.Hour)

	l0 := writeParquet(t, root, 1, compaction.LevelInitial, 10, minTime, maxTime)
	l1 := writeParquet(t, root, 1, compaction.LevelFileNonOverlapped, 3, minTime, maxTime)
	writeParquet(t, root, 2, compaction.LevelInitial, 5, minTime, maxTime)
	// ignored, outside of the layout
	require.NoError(t, os.WriteFile(filepath.Join(root, "1", "0", "README"), []byte("x"), 0o600))

	t.Run("with footers", func(t *testing.T) {
		files, err := NewFilesystem(root, true, logger).Files(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, files, 2)

		byPath := map[string]compaction.ParquetFile{}
		for _, f := range files {
			byPath[f.Path] = f
		}

		got := byPath[l0]
		assert.Equal(t, compaction.PartitionID(1), got.PartitionID)
		assert.Equal(t, compaction.LevelInitial, got.CompactionLevel)
		assert.Equal(t, int64(10), got.RowCount)
		assert.Equal(t, minTime, got.MinTime)
		assert.Equal(t, maxTime, got.MaxTime)
		assert.NotEqual(t, uuid.Nil, got.ObjectStoreID)

		info, err := os.Stat(l0)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), got.FileSizeBytes)

		assert.Equal(t, compaction.LevelFileNonOverlapped, byPath[l1].CompactionLevel)
		assert.Equal(t, int64(3), byPath[l1].RowCount)
	})

	t.Run("without footers", func(t *testing.T) {
		files, err := NewFilesystem(root, false, logger).Files(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, files, 2)
		for _, f := range files {
			assert.Zero(t, f.RowCount)
			assert.True(t, f.MinTime.IsZero())
			assert.Positive(t, f.FileSizeBytes)
		}
	})

	t.Run("missing partition", func(t *testing.T) {
		files, err := NewFilesystem(root, true, logger).Files(context.Background(), 99)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFilesystem(root, true, logger).Files(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFilesystemCorruptFooter(t *testing.T) {
	logger, _ := test.NewNullLogger()
	root := t.TempDir()

	path := filepath.Join(root, filepath.FromSlash(ObjectKey("", 4, compaction.LevelInitial, uuid.New())))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("definitely not parquet"), 0o600))

	_, err := NewFilesystem(root, true, logger).Files(context.Background(), 4)
	require.Error(t, err)
	var footerErr *FooterError
	require.ErrorAs(t, err, &footerErr)
	assert.Equal(t, path, footerErr.Path)
	assert.Equal(t, enterrors.KindUnknown, enterrors.Classify(err))
	assert.False(t, enterrors.IsTransient(err))

	files, err := NewFilesystem(root, false, logger).Files(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
