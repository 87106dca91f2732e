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

package rest

import (
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

const serviceName = "compactor"

type CompactorJSONFormatter struct {
	*logrus.JSONFormatter
	service, goVersion string
}

func NewCompactorJSONFormatter() logrus.Formatter {
	return &CompactorJSONFormatter{
		&logrus.JSONFormatter{},
		serviceName,
		runtime.Version(),
	}
}

func (cf *CompactorJSONFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Data["service"] = cf.service
	e.Data["build_go_version"] = cf.goVersion
	return cf.JSONFormatter.Format(e)
}

// NewLogger configures a logger from LOG_FORMAT and LOG_LEVEL. Output is
// JSON unless LOG_FORMAT=text, the level defaults to info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	if os.Getenv("LOG_FORMAT") != "text" {
		logger.SetFormatter(NewCompactorJSONFormatter())
	}

	logger.SetLevel(logrus.InfoLevel)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := logLevelFromString(v)
		if err != nil {
			logger.WithField("action", "startup").
				WithField("log_level", v).
				Warn("log level not recognized, using info")
		} else {
			logger.SetLevel(level)
		}
	}

	return logger
}

var errlogLevelNotRecognized = errors.New("log level not recognized")

// logLevelFromString converts a string to a logrus log level, returns a logLevelNotRecognized
// error if the string is not recognized. level is case insensitive.
func logLevelFromString(level string) (logrus.Level, error) {
	switch strings.ToLower(level) {
	case "panic":
		return logrus.PanicLevel, nil
	case "fatal":
		return logrus.FatalLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "trace":
		return logrus.TraceLevel, nil
	default:
		return 0, errlogLevelNotRecognized
	}
}
