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
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
	enterrors "github.com/weaviate/compactor/entities/errors"
	entsentry "github.com/weaviate/compactor/entities/sentry"
	"github.com/weaviate/compactor/usecases/compactor/skipped"
	"github.com/weaviate/compactor/usecases/config"
	"github.com/weaviate/compactor/usecases/monitoring"
)

const listRetryInitialInterval = 100 * time.Millisecond

// Driver runs compaction cycles: list partitions, run every partition
// through the stages, compact what passes and mark what fails.
type Driver struct {
	catalog     Catalog
	compactor   Compactor
	stages      []Stage
	markers     skipped.Store
	concurrency int
	dryRun      bool
	metrics     *monitoring.PrometheusMetrics
	logger      logrus.FieldLogger

	listBackoff func() backoff.BackOff
	now         func() time.Time
}

func NewDriver(catalog Catalog, compactor Compactor, stages []Stage,
	markers skipped.Store, cfg config.Compactor,
	metrics *monitoring.PrometheusMetrics, logger logrus.FieldLogger,
) *Driver {
	maxElapsed := cfg.ListRetryMaxElapsed
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		// errgroup blocks forever on a limit of zero
		concurrency = 1
	}
	return &Driver{
		catalog:     catalog,
		compactor:   compactor,
		stages:      stages,
		markers:     markers,
		concurrency: concurrency,
		dryRun:      cfg.DryRun,
		metrics:     metrics,
		logger:      logger,
		listBackoff: func() backoff.BackOff {
			if maxElapsed <= 0 {
				return &backoff.StopBackOff{}
			}
			eb := backoff.NewExponentialBackOff()
			eb.InitialInterval = listRetryInitialInterval
			eb.MaxElapsedTime = maxElapsed
			return eb
		},
		now: time.Now,
	}
}

// Run executes a cycle immediately and then every interval until ctx is
// done.
func (d *Driver) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		d.runCycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *Driver) runCycle(ctx context.Context) {
	logger := d.logger.WithField("action", "compaction_cycle")

	summary, err := d.RunOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.WithError(err).Info("compaction cycle cancelled")
			return
		}
		logger.WithError(err).Error("compaction cycle failed")
	}
	if summary == nil {
		return
	}

	logger.WithFields(logrus.Fields{
		"listed":       summary.Listed,
		"proceeded":    summary.Count(OutcomeProceeded),
		"filtered_out": summary.Count(OutcomeFilteredOut),
		"skipped":      summary.Count(OutcomeSkipped),
		"abandoned":    summary.Abandoned(),
	}).Info("compaction cycle finished")
}

// RunOnce runs a single cycle. The summary is returned even if persisting
// some skip markers failed. A cancelled cycle returns the context error
// along with the results gathered so far.
func (d *Driver) RunOnce(ctx context.Context) (*Summary, error) {
	timer := prometheus.NewTimer(d.metrics.CompactionCycleDurations)
	defer timer.ObserveDuration()

	if entsentry.Enabled() {
		span := sentry.StartSpan(ctx, "compactor.cycle",
			sentry.WithOpName("compaction_cycle"),
			sentry.WithDescription("Evaluate and compact all partitions"),
		)
		ctx = span.Context()
		defer span.Finish()
	}

	ids, err := d.listPartitions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list partitions")
	}
	d.metrics.PartitionsListed.Set(float64(len(ids)))

	var (
		mu         sync.Mutex
		results    = make([]Result, 0, len(ids))
		markerErrs *multierror.Error
	)

	eg := enterrors.NewErrorGroupWrapper(d.logger, "action", "compaction_cycle")
	eg.SetLimit(d.concurrency)
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			res, ok, err := d.processPartition(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				markerErrs = multierror.Append(markerErrs, err)
			}
			if ok {
				results = append(results, res)
			}
			return nil
		}, "partition_id", id)
	}
	if err := eg.Wait(); err != nil {
		markerErrs = multierror.Append(markerErrs, err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].PartitionID < results[j].PartitionID
	})
	summary := &Summary{Listed: len(ids), Results: results}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, markerErrs.ErrorOrNil()
}

func (d *Driver) listPartitions(ctx context.Context) ([]compaction.PartitionID, error) {
	var ids []compaction.PartitionID
	err := backoff.Retry(func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		var err error
		ids, err = d.catalog.Partitions(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !enterrors.IsTransient(err) {
			return backoff.Permanent(err)
		}
		d.logger.WithField("action", "compaction_list_partitions").
			WithError(err).
			Warn("listing partitions failed, retrying")
		return err
	}, backoff.WithContext(d.listBackoff(), ctx))
	return ids, err
}

// processPartition returns false if the partition was abandoned because ctx
// is done. The error is only set if recording a skip marker failed.
func (d *Driver) processPartition(ctx context.Context, id compaction.PartitionID) (Result, bool, error) {
	files, err := d.catalog.Files(ctx, id)
	if ctx.Err() != nil {
		return Result{}, false, nil
	}
	if err != nil {
		res, err := d.skip(ctx, id, nil, "", err)
		return res, true, err
	}

	for _, stage := range d.stages {
		ok, err := stage.Filter.Apply(ctx, id, files)
		if ctx.Err() != nil {
			return Result{}, false, nil
		}
		if err != nil {
			res, err := d.skip(ctx, id, files, stage.Name, err)
			return res, true, err
		}
		if ok {
			continue
		}
		if stage.SkipOnReject {
			res, err := d.skip(ctx, id, files, stage.Name,
				enterrors.NewOutOfMemory(fmt.Sprintf("partition exceeds %s limits", stage.Name)))
			return res, true, err
		}
		return d.done(Result{PartitionID: id, Outcome: OutcomeFilteredOut, Stage: stage.Name}), true, nil
	}

	err = d.compactor.Compact(ctx, id, files)
	if ctx.Err() != nil {
		return Result{}, false, nil
	}
	if err != nil {
		res, err := d.skip(ctx, id, files, "compact", err)
		return res, true, err
	}
	return d.done(Result{PartitionID: id, Outcome: OutcomeProceeded}), true, nil
}

// skip excludes the partition from this cycle. Unless the cause is
// transient, a marker is recorded so that later cycles leave it alone.
func (d *Driver) skip(ctx context.Context, id compaction.PartitionID,
	files []compaction.ParquetFile, stage string, cause error,
) (Result, error) {
	kind := enterrors.Classify(cause)
	res := Result{
		PartitionID: id,
		Outcome:     OutcomeSkipped,
		Stage:       stage,
		Reason:      cause.Error(),
		Kind:        string(kind),
	}

	transient := enterrors.IsTransient(cause)
	logger := d.logger.WithFields(logrus.Fields{
		"action":       "compaction_skip_partition",
		"partition_id": id,
		"stage":        stage,
		"kind":         kind,
		"transient":    transient,
		"num_files":    len(files),
		"dry_run":      d.dryRun,
	}).WithError(cause)

	if transient {
		logger.Warn("skipping partition for this cycle")
		return d.done(res), nil
	}
	logger.Warn("skipping partition")

	if d.dryRun {
		return d.done(res), nil
	}

	err := d.markers.Record(ctx, compaction.SkippedCompaction{
		PartitionID: id,
		Reason:      res.Reason,
		Kind:        res.Kind,
		SkippedAt:   d.now().UTC(),
		NumFiles:    len(files),
		TotalBytes:  compaction.TotalSizeBytes(files),
	})
	if err != nil {
		err = errors.Wrapf(err, "record skip marker of partition %s", id)
	}

	return d.done(res), err
}

func (d *Driver) done(res Result) Result {
	d.metrics.PartitionOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	if res.Outcome != OutcomeSkipped {
		d.logger.WithFields(logrus.Fields{
			"action":       "compaction_partition",
			"partition_id": res.PartitionID,
			"outcome":      res.Outcome,
			"stage":        res.Stage,
		}).Debug("partition evaluated")
	}
	return res
}
