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
	"sort"
	"sync"

	"github.com/weaviate/compactor/entities/compaction"
)

// Memory keeps skip markers in process memory. Markers are lost on restart.
type Memory struct {
	sync.RWMutex
	markers map[compaction.PartitionID]compaction.SkippedCompaction
}

func NewMemory() *Memory {
	return &Memory{markers: map[compaction.PartitionID]compaction.SkippedCompaction{}}
}

func (m *Memory) Fetch(ctx context.Context, partitionID compaction.PartitionID,
) (*compaction.SkippedCompaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.RLock()
	defer m.RUnlock()

	sc, ok := m.markers[partitionID]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (m *Memory) Record(ctx context.Context, sc compaction.SkippedCompaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.Lock()
	defer m.Unlock()

	m.markers[sc.PartitionID] = sc
	return nil
}

func (m *Memory) Remove(ctx context.Context, partitionID compaction.PartitionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.Lock()
	defer m.Unlock()

	delete(m.markers, partitionID)
	return nil
}

// List returns all markers ordered by partition id.
func (m *Memory) List(ctx context.Context) ([]compaction.SkippedCompaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.RLock()
	defer m.RUnlock()

	out := make([]compaction.SkippedCompaction, 0, len(m.markers))
	for _, sc := range m.markers {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PartitionID < out[j].PartitionID
	})
	return out, nil
}
