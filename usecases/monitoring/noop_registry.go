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

import "github.com/prometheus/client_golang/prometheus"

// NoopRegisterer accepts every collector and exposes none of them. It backs
// the metrics when monitoring is disabled so that callers never have to
// nil-check.
var NoopRegisterer prometheus.Registerer = &noopRegisterer{}

type noopRegisterer struct{}

func (n *noopRegisterer) Register(prometheus.Collector) error {
	return nil
}

func (n *noopRegisterer) MustRegister(...prometheus.Collector) {}

func (n *noopRegisterer) Unregister(prometheus.Collector) bool {
	return true
}
