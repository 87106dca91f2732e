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
	"net"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ConnectionMetrics are updated by a listener wrapped with TrackConnections.
type ConnectionMetrics struct {
	Open     prometheus.Gauge
	Accepted prometheus.Counter
}

// TrackConnections wraps l so that every accepted connection is counted and
// reported as open until it is closed.
func TrackConnections(l net.Listener, m ConnectionMetrics) net.Listener {
	return &trackedListener{Listener: l, metrics: m}
}

type trackedListener struct {
	net.Listener
	metrics ConnectionMetrics
}

func (l *trackedListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	l.metrics.Accepted.Inc()
	l.metrics.Open.Inc()
	return &trackedConn{Conn: conn, open: l.metrics.Open}, nil
}

type trackedConn struct {
	net.Conn
	open   prometheus.Gauge
	closed atomic.Bool
}

// Close may be called more than once by http.Server.
func (c *trackedConn) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.open.Dec()
	}
	return c.Conn.Close()
}
