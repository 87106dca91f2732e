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

package sentry

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/weaviate/compactor/entities/config"
)

const tagPrefix = "SENTRY_TAG_"

// ConfigOpts all map to environment variables. For example:
//   - SENTRY_ENABLED=true -> ConfigOpts.Enabled=true
//   - SENTRY_TAG_cluster=eu -> ConfigOpts.Tags["cluster"]="eu"
type ConfigOpts struct {
	Enabled          bool              `json:"enabled" yaml:"enabled"`
	DSN              string            `json:"dsn" yaml:"dsn"`
	Debug            bool              `json:"debug" yaml:"debug"`
	Environment      string            `json:"environment" yaml:"environment"`
	TracesSampleRate float64           `json:"traces_sample_rate" yaml:"traces_sample_rate"`
	Tags             map[string]string `json:"tags" yaml:"tags"`
}

// Config is process wide, panics are recovered in every goroutine wrapper.
var Config *ConfigOpts

// InitSentryConfig from environment. Errors if called more than once.
func InitSentryConfig() (*ConfigOpts, error) {
	if Config != nil {
		return nil, fmt.Errorf("sentry config already initialized")
	}
	cfg := &ConfigOpts{}

	cfg.Enabled = config.Enabled(os.Getenv("SENTRY_ENABLED"))
	if !cfg.Enabled {
		Config = cfg
		return cfg, nil
	}

	cfg.DSN = os.Getenv("SENTRY_DSN")
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sentry enabled but no DSN provided")
	}

	cfg.Debug = config.Enabled(os.Getenv("SENTRY_DEBUG"))
	cfg.Environment = os.Getenv("SENTRY_ENVIRONMENT")

	if v := os.Getenv("SENTRY_TRACES_SAMPLE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 || rate > 1 {
			return nil, fmt.Errorf("SENTRY_TRACES_SAMPLE_RATE must be between 0 and 1, got %q", v)
		}
		cfg.TracesSampleRate = rate
	}

	cfg.Tags = map[string]string{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, tagPrefix) || len(key) == len(tagPrefix) {
			continue
		}
		cfg.Tags[strings.TrimPrefix(key, tagPrefix)] = value
	}

	Config = cfg
	return cfg, nil
}

func Enabled() bool {
	if Config == nil {
		return false
	}
	return Config.Enabled
}

// Init starts the sentry client. The returned func flushes buffered events
// and must be called before the process exits.
func Init(cfg *ConfigOpts) (func(), error) {
	if cfg == nil || !cfg.Enabled {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Debug:            cfg.Debug,
		Environment:      cfg.Environment,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	for k, v := range cfg.Tags {
		sentry.CurrentHub().Scope().SetTag(k, v)
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Recover reports a recovered panic value if sentry is enabled.
func Recover(r interface{}) {
	if !Enabled() {
		return
	}
	sentry.CurrentHub().Recover(r)
}
