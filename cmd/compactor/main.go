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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/adapters/handlers/rest"
	"github.com/weaviate/compactor/adapters/repos/parquetfiles"
	skippedrepo "github.com/weaviate/compactor/adapters/repos/skipped"
	entsentry "github.com/weaviate/compactor/entities/sentry"
	"github.com/weaviate/compactor/usecases/compactor"
	"github.com/weaviate/compactor/usecases/compactor/skipped"
	"github.com/weaviate/compactor/usecases/config"
	"github.com/weaviate/compactor/usecases/monitoring"
	"github.com/weaviate/compactor/usecases/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var opts config.Flags
	log := rest.NewLogger()

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.WithError(err).Fatal("failed to parse command line args")
	}

	sentryConfig, err := entsentry.InitSentryConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid sentry config")
	}
	flush, err := entsentry.Init(sentryConfig)
	if err != nil {
		log.WithError(err).Fatal("failed to start sentry")
	}

	err = run(opts, log)
	flush()
	if err != nil {
		log.WithError(err).Fatal("compactor stopped")
	}
}

func run(opts config.Flags, log *logrus.Logger) error {
	cfg, err := config.Load(opts, log)
	if err != nil {
		return err
	}
	if cfg.Compactor.DryRun {
		log.WithField("action", "startup").Warn("dry run, skip markers are not persisted")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	catalog, err := newCatalog(cfg.Storage, log)
	if err != nil {
		return err
	}

	markers, closeMarkers, err := newMarkerStore(cfg.Persistence, log)
	if err != nil {
		return err
	}
	defer closeMarkers()

	metrics := monitoring.NewPrometheusMetrics(monitoring.NoopRegisterer)
	if cfg.Monitoring.Enabled {
		metrics = monitoring.GetMetrics()
		api := rest.NewServer(markers, prometheus.DefaultGatherer, metrics, log)
		if err := api.Serve(cfg.Monitoring.Port); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := api.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Error("shutdown operator api")
			}
		}()
	}

	stages := compactor.NewStages(cfg.Compactor, markers, metrics.PartitionFilterCount, log)
	for _, stage := range stages {
		log.WithField("action", "startup").
			WithField("stage", stage.Name).
			WithField("filter", stage.Filter.String()).
			Info("configured partition filter stage")
	}

	driver := compactor.NewDriver(catalog, compactor.NewDryRun(log), stages, markers,
		cfg.Compactor, metrics, log)

	if opts.Once {
		summary, err := driver.RunOnce(ctx)
		if summary != nil {
			log.WithFields(logrus.Fields{
				"action":       "compaction_cycle",
				"listed":       summary.Listed,
				"proceeded":    summary.Count(compactor.OutcomeProceeded),
				"filtered_out": summary.Count(compactor.OutcomeFilteredOut),
				"skipped":      summary.Count(compactor.OutcomeSkipped),
			}).Info("compaction cycle finished")
		}
		return err
	}

	log.WithField("action", "startup").
		WithField("interval", cfg.Compactor.Interval.String()).
		Info("compactor started")
	driver.Run(ctx, cfg.Compactor.Interval)
	log.WithField("action", "shutdown").Info("compactor stopped")
	return nil
}

func newCatalog(cfg config.Storage, log logrus.FieldLogger) (compactor.Catalog, error) {
	var catalog compactor.Catalog
	switch cfg.Backend {
	case config.StorageBackendS3:
		client, err := parquetfiles.NewMinioClient(cfg.S3.Endpoint, cfg.S3.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("s3 catalog: %w", err)
		}
		catalog = parquetfiles.NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix, cfg.ReadFooters, log)
	default:
		catalog = parquetfiles.NewFilesystem(cfg.Path, cfg.ReadFooters, log)
	}
	return compactor.NewRateLimitedCatalog(catalog, ratelimiter.New(cfg.RequestsPerSecond)), nil
}

func newMarkerStore(cfg config.Persistence, log logrus.FieldLogger) (skipped.Store, func(), error) {
	if cfg.DataPath == "" {
		log.WithField("action", "startup").
			Warn("no persistence.data_path configured, skip markers are kept in memory")
		return skipped.NewMemory(), func() {}, nil
	}

	store := skippedrepo.NewStore(cfg.DataPath, log)
	if err := store.Open(); err != nil {
		return nil, nil, fmt.Errorf("open skip marker store: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("close skip marker store")
		}
	}, nil
}
