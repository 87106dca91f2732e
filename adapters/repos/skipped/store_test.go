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
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/compactor/entities/compaction"
	enterrors "github.com/weaviate/compactor/entities/errors"
)

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := NewStore(dir, logger)
	require.NoError(t, s.Open())
	return s
}

func marker(id compaction.PartitionID, kind enterrors.Kind) compaction.SkippedCompaction {
	return compaction.SkippedCompaction{
		PartitionID: id,
		Reason:      "over budget",
		Kind:        string(kind),
		SkippedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		NumFiles:    300,
		TotalBytes:  1 << 30,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, t.TempDir())
	defer s.Close()

	sc, err := s.Fetch(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, sc)

	require.NoError(t, s.Record(ctx, marker(3, enterrors.KindOutOfMemory)))
	require.NoError(t, s.Record(ctx, marker(1, enterrors.KindObjectStore)))

	sc, err = s.Fetch(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Equal(t, marker(3, enterrors.KindOutOfMemory), *sc)

	// recording again replaces the marker
	require.NoError(t, s.Record(ctx, marker(3, enterrors.KindTimeout)))
	sc, err = s.Fetch(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, string(enterrors.KindTimeout), sc.Kind)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, compaction.PartitionID(1), all[0].PartitionID)
	assert.Equal(t, compaction.PartitionID(3), all[1].PartitionID)

	require.NoError(t, s.Remove(ctx, 1))
	require.NoError(t, s.Remove(ctx, 100))
	sc, err = s.Fetch(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, sc)
}

func TestStoreListOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, t.TempDir())
	defer s.Close()

	for _, id := range []compaction.PartitionID{5, -5, 0, math.MaxInt64, math.MinInt64, -1} {
		require.NoError(t, s.Record(ctx, marker(id, enterrors.KindOutOfMemory)))
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]compaction.PartitionID, len(all))
	for i, sc := range all {
		ids[i] = sc.PartitionID
	}
	assert.Equal(t, []compaction.PartitionID{math.MinInt64, -5, -1, 0, 5, math.MaxInt64}, ids)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := newTestStore(t, dir)
	require.NoError(t, s.Record(ctx, marker(7, enterrors.KindOutOfMemory)))
	require.NoError(t, s.Close())

	s = newTestStore(t, dir)
	defer s.Close()
	sc, err := s.Fetch(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Equal(t, 300, sc.NumFiles)
}

func TestStoreCancelledContext(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Fetch(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Record(ctx, marker(1, enterrors.KindTimeout)), context.Canceled)
	assert.ErrorIs(t, s.Remove(ctx, 1), context.Canceled)
	_, err = s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
