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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOr(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		filters  []PartitionFilter
		expected bool
	}{
		{"empty", nil, false},
		{"true", []PartitionFilter{NewTrue()}, true},
		{"false", []PartitionFilter{NewFalse()}, false},
		{"false or false", []PartitionFilter{NewFalse(), NewFalse()}, false},
		{"false or true", []PartitionFilter{NewFalse(), NewTrue()}, true},
		{"true or false", []PartitionFilter{NewTrue(), NewFalse()}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ok, err := NewOr(test.filters...).Apply(ctx, 1, nil)
			require.NoError(t, err)
			assert.Equal(t, test.expected, ok)
		})
	}
}

func TestOr_ShortCircuit(t *testing.T) {
	ctx := context.Background()

	t.Run("pass stops evaluation before an error", func(t *testing.T) {
		pass := newFakeFilter("pass", true)
		failing := newErrorFilter("failing", errFilter)

		ok, err := NewOr(pass, failing).Apply(ctx, 1, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(0), failing.calls.Load())
	})

	t.Run("error stops evaluation before a pass", func(t *testing.T) {
		reject := newFakeFilter("reject", false)
		failing := newErrorFilter("failing", errFilter)
		pass := newFakeFilter("pass", true)

		ok, err := NewOr(reject, failing, pass).Apply(ctx, 1, nil)
		assert.Same(t, errFilter, err)
		assert.False(t, ok)
		assert.Equal(t, int64(1), reject.calls.Load())
		assert.Equal(t, int64(0), pass.calls.Load())
	})
}

func TestOr_Cancelled(t *testing.T) {
	t.Run("child reports the cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		next := newFakeFilter("next", true)

		ok, err := NewOr(&cancellingFilter{cancel: cancel}, next).Apply(ctx, 1, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
		assert.Equal(t, int64(0), next.calls.Load())
	})

	t.Run("child decides after the cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		next := newFakeFilter("next", true)

		ok, err := NewOr(&cancelThenDecideFilter{cancel: cancel, ok: false}, next).Apply(ctx, 1, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
		assert.Equal(t, int64(0), next.calls.Load())
	})
}

func TestOr_String(t *testing.T) {
	assert.Equal(t, "or()", NewOr().String())
	assert.Equal(t, "(true) or (false)", NewOr(NewTrue(), NewFalse()).String())
}
