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
	"context"
	"errors"
	"fmt"
)

var (
	OutOfMemory = errors.New("not enough memory")
	ObjectStore = errors.New("object store")
	Timeout     = errors.New("timeout")
)

// Kind is the label a skipped partition is tagged with so that operators can
// tell storage trouble from budget overruns.
type Kind string

const (
	KindObjectStore Kind = "object_store"
	KindOutOfMemory Kind = "out_of_memory"
	KindTimeout     Kind = "timeout"
	KindUnknown     Kind = "unknown"
)

func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, Timeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, OutOfMemory):
		return KindOutOfMemory
	case errors.Is(err, ObjectStore):
		return KindObjectStore
	default:
		return KindUnknown
	}
}

// IsTransient reports whether retrying the failed operation may succeed.
func IsTransient(err error) bool {
	switch Classify(err) {
	case KindObjectStore, KindTimeout:
		return true
	default:
		return false
	}
}

func NewOutOfMemory(msg string) error {
	return fmt.Errorf("%s: %w", msg, OutOfMemory)
}

func NewObjectStore(err error, msg string) error {
	return fmt.Errorf("%w: %s: %w", ObjectStore, msg, err)
}

func NewTimeout(err error, msg string) error {
	return fmt.Errorf("%w: %s: %w", Timeout, msg, err)
}
