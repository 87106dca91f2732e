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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/weaviate/compactor/usecases/monitoring"
)

const DefaultConfigFile string = "./compactor.conf.yaml"

const (
	DefaultCompactionInterval  = time.Minute
	DefaultConcurrency         = 4
	DefaultMaxFiles            = 200
	DefaultMaxParquetBytes     = int64(256 * 1024 * 1024)
	DefaultMinL0Files          = 1
	DefaultListRetryMaxElapsed = 30 * time.Second
	DefaultMonitoringPort      = 2112
)

const (
	StorageBackendFilesystem = "filesystem"
	StorageBackendS3         = "s3"
)

// Flags are the command line options of the compactor binary.
type Flags struct {
	ConfigFile string `long:"config-file" description:"path to config file (default: ./compactor.conf.yaml)"`
	Once       bool   `long:"once" description:"run a single compaction cycle and exit"`
}

type Config struct {
	Compactor   Compactor         `json:"compactor" yaml:"compactor"`
	Storage     Storage           `json:"storage" yaml:"storage"`
	Persistence Persistence       `json:"persistence" yaml:"persistence"`
	Monitoring  monitoring.Config `json:"monitoring" yaml:"monitoring"`
}

type Compactor struct {
	Interval    time.Duration `json:"interval" yaml:"interval"`
	Concurrency int           `json:"concurrency" yaml:"concurrency"`
	// MaxFiles and MaxParquetBytes bound the resources a single partition
	// compaction may use. Larger partitions are marked as skipped.
	MaxFiles        int   `json:"max_files" yaml:"max_files"`
	MaxParquetBytes int64 `json:"max_parquet_bytes" yaml:"max_parquet_bytes"`
	// MinL0Files is the number of level 0 files a partition needs before it
	// is worth compacting.
	MinL0Files                int           `json:"min_l0_files" yaml:"min_l0_files"`
	IgnorePartitionSkipMarker bool          `json:"ignore_partition_skip_marker" yaml:"ignore_partition_skip_marker"`
	ListRetryMaxElapsed       time.Duration `json:"list_retry_max_elapsed" yaml:"list_retry_max_elapsed"`
	// DryRun evaluates partitions without persisting skip markers.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

func (c Compactor) Validate() error {
	if c.Interval <= 0 {
		return errors.Errorf("compactor.interval must be positive, got %s", c.Interval)
	}
	if c.Concurrency < 1 {
		return errors.Errorf("compactor.concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxFiles < 1 {
		return errors.Errorf("compactor.max_files must be at least 1, got %d", c.MaxFiles)
	}
	if c.MaxParquetBytes < 1 {
		return errors.Errorf("compactor.max_parquet_bytes must be at least 1, got %d", c.MaxParquetBytes)
	}
	if c.MinL0Files < 0 {
		return errors.Errorf("compactor.min_l0_files must not be negative, got %d", c.MinL0Files)
	}
	if c.ListRetryMaxElapsed < 0 {
		return errors.Errorf("compactor.list_retry_max_elapsed must not be negative, got %s", c.ListRetryMaxElapsed)
	}
	return nil
}

type Storage struct {
	Backend string `json:"backend" yaml:"backend"`
	// Path is the root directory of the filesystem backend.
	Path string `json:"path" yaml:"path"`
	// ReadFooters enables reading row counts and time ranges from the
	// parquet footers. Without it only sizes and levels are known.
	ReadFooters bool `json:"read_footers" yaml:"read_footers"`
	// RequestsPerSecond limits listing and footer requests. Zero means
	// unlimited.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	S3                S3      `json:"s3" yaml:"s3"`
}

type S3 struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Bucket   string `json:"bucket" yaml:"bucket"`
	Prefix   string `json:"prefix" yaml:"prefix"`
	UseSSL   bool   `json:"use_ssl" yaml:"use_ssl"`
}

func (s Storage) Validate() error {
	if s.RequestsPerSecond < 0 {
		return errors.Errorf("storage.requests_per_second must not be negative, got %v", s.RequestsPerSecond)
	}

	switch s.Backend {
	case StorageBackendFilesystem:
		if s.Path == "" {
			return errors.New("storage.path is required for the filesystem backend")
		}
	case StorageBackendS3:
		if s.S3.Endpoint == "" {
			return errors.New("storage.s3.endpoint is required for the s3 backend")
		}
		if s.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return errors.Errorf("unknown storage.backend %q, use %q or %q", s.Backend,
			StorageBackendFilesystem, StorageBackendS3)
	}
	return nil
}

type Persistence struct {
	// DataPath holds the skip marker database. Markers are kept in memory
	// when empty.
	DataPath string `json:"data_path" yaml:"data_path"`
}

func Defaults() Config {
	return Config{
		Compactor: Compactor{
			Interval:            DefaultCompactionInterval,
			Concurrency:         DefaultConcurrency,
			MaxFiles:            DefaultMaxFiles,
			MaxParquetBytes:     DefaultMaxParquetBytes,
			MinL0Files:          DefaultMinL0Files,
			ListRetryMaxElapsed: DefaultListRetryMaxElapsed,
		},
		Storage: Storage{
			Backend:     StorageBackendFilesystem,
			ReadFooters: true,
		},
		Monitoring: monitoring.Config{
			Port: DefaultMonitoringPort,
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Compactor.Validate(); err != nil {
		return configErr(err)
	}

	if err := c.Storage.Validate(); err != nil {
		return configErr(err)
	}

	if c.Monitoring.Enabled && (c.Monitoring.Port <= 0 || c.Monitoring.Port > 65535) {
		return configErr(errors.Errorf("monitoring.port out of range: %d", c.Monitoring.Port))
	}

	return nil
}

// Load builds the configuration from the defaults, the optional config
// file, and the environment, in that order of precedence.
func Load(flags Flags, logger logrus.FieldLogger) (Config, error) {
	cfg := Defaults()

	configFileName := flags.ConfigFile
	explicit := configFileName != ""
	if !explicit {
		configFileName = DefaultConfigFile
	}

	file, err := os.ReadFile(configFileName)
	if err != nil && (explicit || !os.IsNotExist(err)) {
		return cfg, configErr(errors.Wrapf(err, "read config file %q", configFileName))
	}

	if len(file) > 0 {
		logger.WithField("action", "config_load").
			WithField("config_file_path", configFileName).
			Info("loading config file")
		if err := parseConfigFile(file, configFileName, &cfg); err != nil {
			return cfg, configErr(err)
		}
	}

	if err := FromEnv(&cfg); err != nil {
		return cfg, configErr(err)
	}

	return cfg, cfg.Validate()
}

func parseConfigFile(file []byte, name string, cfg *Config) error {
	switch filepath.Ext(name) {
	case ".json":
		var raw any
		if err := json.Unmarshal(file, &raw); err != nil {
			return fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
		// JSON is valid YAML, and the YAML decoder accepts durations such as
		// "1m" where encoding/json only takes nanoseconds.
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q, use .yaml or .json", filepath.Ext(name))
	}
	return nil
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
