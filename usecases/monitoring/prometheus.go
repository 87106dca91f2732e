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

package monitoring

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Config struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Port    int  `json:"port" yaml:"port"`
}

type PrometheusMetrics struct {
	// PartitionFilterCount counts filter decisions by filter_type and
	// result (pass, reject, error).
	PartitionFilterCount *prometheus.CounterVec
	// PartitionOutcomes counts what the driver did with each partition.
	PartitionOutcomes        *prometheus.CounterVec
	CompactionCycleDurations prometheus.Histogram
	PartitionsListed         prometheus.Gauge
	OperatorConnections      ConnectionMetrics
}

var (
	msOnce    sync.Once
	msMetrics *PrometheusMetrics
)

// GetMetrics returns the process-wide metrics registered with the default
// prometheus registry.
func GetMetrics() *PrometheusMetrics {
	msOnce.Do(func() {
		msMetrics = NewPrometheusMetrics(prometheus.DefaultRegisterer)
	})
	return msMetrics
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		PartitionFilterCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compactor_partition_filter_count",
			Help: "Number of partition filter decisions",
		}, []string{"filter_type", "result"}),
		PartitionOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compactor_partition_outcomes_total",
			Help: "Number of evaluated partitions by outcome",
		}, []string{"outcome"}),
		CompactionCycleDurations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "compactor_cycle_duration_seconds",
			Help:    "Duration of a full compaction cycle",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
		}),
		PartitionsListed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "compactor_partitions_listed",
			Help: "Number of partitions returned by the catalog in the last cycle",
		}),
		OperatorConnections: ConnectionMetrics{
			Open: factory.NewGauge(prometheus.GaugeOpts{
				Name: "compactor_operator_open_connections",
				Help: "Number of open connections to the operator api",
			}),
			Accepted: factory.NewCounter(prometheus.CounterOpts{
				Name: "compactor_operator_connections_total",
				Help: "Number of connections accepted by the operator api",
			}),
		},
	}
}
