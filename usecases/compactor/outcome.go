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
	"github.com/weaviate/compactor/entities/compaction"
)

type Outcome string

const (
	// OutcomeProceeded partitions passed every stage and were compacted.
	OutcomeProceeded Outcome = "proceeded"
	// OutcomeFilteredOut partitions were rejected by a stage and are
	// evaluated again in the next cycle.
	OutcomeFilteredOut Outcome = "filtered_out"
	// OutcomeSkipped partitions got a skip marker and are ignored until it is
	// removed.
	OutcomeSkipped Outcome = "skipped"
)

// Result is what happened to a single partition. Partitions abandoned
// because the cycle was cancelled have no result.
type Result struct {
	PartitionID compaction.PartitionID
	Outcome     Outcome
	// Stage is the stage that rejected or failed the partition.
	Stage  string
	Reason string
	Kind   string
}

type Summary struct {
	Listed  int
	Results []Result
}

func (s *Summary) Count(o Outcome) int {
	n := 0
	for i := range s.Results {
		if s.Results[i].Outcome == o {
			n++
		}
	}
	return n
}

// Abandoned is the number of listed partitions without a result.
func (s *Summary) Abandoned() int {
	return s.Listed - len(s.Results)
}
