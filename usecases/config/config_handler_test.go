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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := writeConfigFile(t, "compactor.yaml", `
compactor:
  interval: 30s
  concurrency: 2
  max_files: 10
  max_parquet_bytes: 1048576
  min_l0_files: 3
  ignore_partition_skip_marker: true
storage:
  backend: filesystem
  path: /data/parquet
  read_footers: false
persistence:
  data_path: /data/state
monitoring:
  enabled: true
  port: 9100
`)

	cfg, err := Load(Flags{ConfigFile: path}, logger)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Compactor.Interval)
	assert.Equal(t, 2, cfg.Compactor.Concurrency)
	assert.Equal(t, 10, cfg.Compactor.MaxFiles)
	assert.Equal(t, int64(1048576), cfg.Compactor.MaxParquetBytes)
	assert.Equal(t, 3, cfg.Compactor.MinL0Files)
	assert.True(t, cfg.Compactor.IgnorePartitionSkipMarker)
	// not in the file, default kept
	assert.Equal(t, DefaultListRetryMaxElapsed, cfg.Compactor.ListRetryMaxElapsed)
	assert.Equal(t, "/data/parquet", cfg.Storage.Path)
	assert.False(t, cfg.Storage.ReadFooters)
	assert.Equal(t, "/data/state", cfg.Persistence.DataPath)
	assert.True(t, cfg.Monitoring.Enabled)
	assert.Equal(t, 9100, cfg.Monitoring.Port)
}

func TestLoadJSON(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := writeConfigFile(t, "compactor.json",
		`{
  "compactor": {"interval": "90s", "list_retry_max_elapsed": "2m", "max_files": 50},
  "storage": {"backend": "s3", "s3": {"endpoint": "minio:9000", "bucket": "tables"}}
}`)

	cfg, err := Load(Flags{ConfigFile: path}, logger)
	require.NoError(t, err)

	assert.Equal(t, StorageBackendS3, cfg.Storage.Backend)
	assert.Equal(t, "minio:9000", cfg.Storage.S3.Endpoint)
	assert.Equal(t, "tables", cfg.Storage.S3.Bucket)
	assert.Equal(t, 90*time.Second, cfg.Compactor.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Compactor.ListRetryMaxElapsed)
	assert.Equal(t, 50, cfg.Compactor.MaxFiles)
	assert.Equal(t, DefaultConcurrency, cfg.Compactor.Concurrency)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := writeConfigFile(t, "compactor.yml", `
compactor:
  max_files: 10
storage:
  path: /from/file
`)
	t.Setenv("COMPACTOR_MAX_FILES", "20")

	cfg, err := Load(Flags{ConfigFile: path}, logger)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Compactor.MaxFiles)
	assert.Equal(t, "/from/file", cfg.Storage.Path)
}

func TestLoadErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("explicit file missing", func(t *testing.T) {
		_, err := Load(Flags{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")}, logger)
		assert.ErrorContains(t, err, "invalid config")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfigFile(t, "compactor.toml", "interval = 1")
		_, err := Load(Flags{ConfigFile: path}, logger)
		assert.ErrorContains(t, err, "unsupported config file extension")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "compactor.yaml", "compactor: [")
		_, err := Load(Flags{ConfigFile: path}, logger)
		assert.ErrorContains(t, err, "yaml")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeConfigFile(t, "compactor.json", `{"compactor": `)
		_, err := Load(Flags{ConfigFile: path}, logger)
		assert.ErrorContains(t, err, "json")
	})

	t.Run("filesystem backend without path", func(t *testing.T) {
		path := writeConfigFile(t, "compactor.yaml", "storage:\n  backend: filesystem\n")
		_, err := Load(Flags{ConfigFile: path}, logger)
		assert.ErrorContains(t, err, "storage.path")
	})
}

func TestLoadWithoutDefaultFile(t *testing.T) {
	logger, _ := test.NewNullLogger()
	// the default file is resolved relative to the working directory
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("STORAGE_PATH", "/data")

	cfg, err := Load(Flags{}, logger)
	require.NoError(t, err)
	assert.Equal(t, Defaults().Compactor, cfg.Compactor)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Defaults()
		cfg.Storage.Path = "/data"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with path", func(*Config) {}, ""},
		{"zero interval", func(c *Config) { c.Compactor.Interval = 0 }, "compactor.interval"},
		{"zero concurrency", func(c *Config) { c.Compactor.Concurrency = 0 }, "compactor.concurrency"},
		{"zero max files", func(c *Config) { c.Compactor.MaxFiles = 0 }, "compactor.max_files"},
		{"zero max bytes", func(c *Config) { c.Compactor.MaxParquetBytes = 0 }, "compactor.max_parquet_bytes"},
		{"negative min l0", func(c *Config) { c.Compactor.MinL0Files = -1 }, "compactor.min_l0_files"},
		{"negative request rate", func(c *Config) { c.Storage.RequestsPerSecond = -1 }, "storage.requests_per_second"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "gcs" }, "unknown storage.backend"},
		{"s3 without bucket", func(c *Config) {
			c.Storage.Backend = StorageBackendS3
			c.Storage.S3.Endpoint = "minio:9000"
		}, "storage.s3.bucket"},
		{"monitoring port", func(c *Config) {
			c.Monitoring.Enabled = true
			c.Monitoring.Port = 70000
		}, "monitoring.port"},
		{"monitoring port ignored when disabled", func(c *Config) { c.Monitoring.Port = 0 }, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.mutate(&cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, test.wantErr)
		})
	}
}
