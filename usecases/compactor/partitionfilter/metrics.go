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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
)

// Metrics counts the outcomes of the wrapped filter and returns them
// unchanged. The counter vector must carry the labels "filter_type" and
// "result", see monitoring.PrometheusMetrics.PartitionFilterCount. A nil
// vector disables counting.
type Metrics struct {
	inner      PartitionFilter
	filterType string

	pass   prometheus.Counter
	reject prometheus.Counter
	errors prometheus.Counter
}

func NewMetrics(inner PartitionFilter, filterType string, counts *prometheus.CounterVec) *Metrics {
	m := &Metrics{
		inner:      inner,
		filterType: filterType,
	}
	if counts == nil {
		return m
	}

	m.pass = counts.With(prometheus.Labels{"filter_type": filterType, "result": resultPass})
	m.reject = counts.With(prometheus.Labels{"filter_type": filterType, "result": resultReject})
	m.errors = counts.With(prometheus.Labels{"filter_type": filterType, "result": resultError})
	return m
}

func (f *Metrics) Apply(ctx context.Context, partitionID compaction.PartitionID,
	files []compaction.ParquetFile,
) (bool, error) {
	ok, err := f.inner.Apply(ctx, partitionID, files)
	if f.pass == nil || ctx.Err() != nil {
		return ok, err
	}

	switch {
	case err != nil:
		f.errors.Inc()
	case ok:
		f.pass.Inc()
	default:
		f.reject.Inc()
	}

	return ok, err
}

func (f *Metrics) Diagnostics(files []compaction.ParquetFile) logrus.Fields {
	return diagnostics(files, f.inner)
}

func (f *Metrics) String() string {
	return fmt.Sprintf("metrics(%s, %s)", f.inner, f.filterType)
}
