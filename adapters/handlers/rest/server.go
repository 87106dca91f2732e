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

// Package rest serves the operator API of the compactor: prometheus metrics,
// a health check and the skip markers of partitions.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
	enterrors "github.com/weaviate/compactor/entities/errors"
	"github.com/weaviate/compactor/usecases/compactor/skipped"
	"github.com/weaviate/compactor/usecases/monitoring"
)

const (
	contentTypeJSON   = "application/json"
	readHeaderTimeout = 5 * time.Second
)

type Server struct {
	markers  skipped.Store
	gatherer prometheus.Gatherer
	metrics  *monitoring.PrometheusMetrics
	logger   logrus.FieldLogger

	httpServer *http.Server
}

func NewServer(markers skipped.Store, gatherer prometheus.Gatherer,
	metrics *monitoring.PrometheusMetrics, logger logrus.FieldLogger,
) *Server {
	return &Server{
		markers:  markers,
		gatherer: gatherer,
		metrics:  metrics,
		logger:   logger.WithField("action", "rest_api"),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(addPanicRecovery(s.logger), addLogging(s.logger))

	r.Get("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/v1/health", s.handleHealth)
	r.Get("/v1/skipped", s.handleListSkipped)
	r.Get("/v1/skipped/{partitionID}", s.handleGetSkipped)
	r.Delete("/v1/skipped/{partitionID}", s.handleDeleteSkipped)

	return r
}

// Serve starts listening on port in the background.
func (s *Server) Serve(port int) error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	enterrors.GoWrapper(func() {
		s.logger.WithField("port", port).Info("serving operator api")
		err := s.httpServer.Serve(monitoring.TrackConnections(l, s.metrics.OperatorConnections))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("operator api failed")
		}
	}, s.logger)

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Warn("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSkipped(w http.ResponseWriter, r *http.Request) {
	markers, err := s.markers.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if markers == nil {
		markers = []compaction.SkippedCompaction{}
	}
	s.writeJSON(w, http.StatusOK, markers)
}

func (s *Server) handleGetSkipped(w http.ResponseWriter, r *http.Request) {
	id, ok := s.partitionID(w, r)
	if !ok {
		return
	}

	sc, err := s.markers.Fetch(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if sc == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("partition %s is not skipped", id))
		return
	}
	s.writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteSkipped(w http.ResponseWriter, r *http.Request) {
	id, ok := s.partitionID(w, r)
	if !ok {
		return
	}

	if err := s.markers.Remove(r.Context(), id); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.WithField("partition_id", id).Info("skip marker removed")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) partitionID(w http.ResponseWriter, r *http.Request) (compaction.PartitionID, bool) {
	id, err := compaction.ParsePartitionID(chi.URLParam(r, "partitionID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}
