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

package errors

import (
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	entcfg "github.com/weaviate/compactor/entities/config"
	entsentry "github.com/weaviate/compactor/entities/sentry"
)

// GoWrapper runs f in a new goroutine and logs instead of crashing the
// process if f panics. Setting DISABLE_RECOVERY_ON_PANIC lets the panic
// through.
func GoWrapper(f func(), logger logrus.FieldLogger) {
	go func() {
		defer func() {
			if !entcfg.Enabled(os.Getenv("DISABLE_RECOVERY_ON_PANIC")) {
				if r := recover(); r != nil {
					logger.WithField("action", "go_wrapper").
						Errorf("Recovered from panic: %v", r)
					debug.PrintStack()
					entsentry.Recover(r)
				}
			}
		}()
		f()
	}()
}
