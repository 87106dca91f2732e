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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	entcfg "github.com/weaviate/compactor/entities/config"
)

// FromEnv overrides cfg with every compactor environment variable that is
// set.
func FromEnv(cfg *Config) error {
	if err := parseDuration("COMPACTOR_INTERVAL", func(v time.Duration) {
		cfg.Compactor.Interval = v
	}); err != nil {
		return err
	}

	if err := parsePositiveInt("COMPACTOR_CONCURRENCY", func(v int) {
		cfg.Compactor.Concurrency = v
	}); err != nil {
		return err
	}

	if err := parsePositiveInt("COMPACTOR_MAX_FILES", func(v int) {
		cfg.Compactor.MaxFiles = v
	}); err != nil {
		return err
	}

	if v := os.Getenv("COMPACTOR_MAX_PARQUET_BYTES"); v != "" {
		asBytes, err := entcfg.ParseBytes(v)
		if err != nil {
			return errors.Wrapf(err, "parse COMPACTOR_MAX_PARQUET_BYTES as size")
		}
		cfg.Compactor.MaxParquetBytes = asBytes
	}

	if v := os.Getenv("COMPACTOR_MIN_L0_FILES"); v != "" {
		asInt, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse COMPACTOR_MIN_L0_FILES as int")
		}
		if asInt < 0 {
			return fmt.Errorf("COMPACTOR_MIN_L0_FILES must not be negative. Got: %d", asInt)
		}
		cfg.Compactor.MinL0Files = asInt
	}

	if entcfg.Enabled(os.Getenv("COMPACTOR_IGNORE_SKIP_MARKER")) {
		cfg.Compactor.IgnorePartitionSkipMarker = true
	}

	if entcfg.Enabled(os.Getenv("COMPACTOR_DRY_RUN")) {
		cfg.Compactor.DryRun = true
	}

	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}

	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	if v := os.Getenv("STORAGE_READ_FOOTERS"); v != "" {
		cfg.Storage.ReadFooters = entcfg.Enabled(v)
	}

	if v := os.Getenv("STORAGE_REQUESTS_PER_SECOND"); v != "" {
		asFloat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "parse STORAGE_REQUESTS_PER_SECOND as float")
		}
		cfg.Storage.RequestsPerSecond = asFloat
	}

	if v := os.Getenv("STORAGE_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}

	if v := os.Getenv("STORAGE_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}

	if v := os.Getenv("STORAGE_S3_PREFIX"); v != "" {
		cfg.Storage.S3.Prefix = v
	}

	if entcfg.Enabled(os.Getenv("STORAGE_S3_USE_SSL")) {
		cfg.Storage.S3.UseSSL = true
	}

	if v := os.Getenv("PERSISTENCE_DATA_PATH"); v != "" {
		cfg.Persistence.DataPath = v
	}

	if entcfg.Enabled(os.Getenv("PROMETHEUS_MONITORING_ENABLED")) {
		cfg.Monitoring.Enabled = true
	}

	if err := parsePositiveInt("PROMETHEUS_MONITORING_PORT", func(v int) {
		cfg.Monitoring.Port = v
	}); err != nil {
		return err
	}

	return nil
}

func parsePositiveInt(varName string, cb func(val int)) error {
	v := os.Getenv(varName)
	if v == "" {
		return nil
	}

	asInt, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s as int", varName)
	}
	if asInt <= 0 {
		return fmt.Errorf("%s must be a positive value larger 0. Got: %d", varName, asInt)
	}

	cb(asInt)
	return nil
}

func parseDuration(varName string, cb func(val time.Duration)) error {
	v := os.Getenv(varName)
	if v == "" {
		return nil
	}

	asDuration, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s as duration", varName)
	}
	if asDuration <= 0 {
		return fmt.Errorf("%s must be a positive duration. Got: %s", varName, asDuration)
	}

	cb(asDuration)
	return nil
}
