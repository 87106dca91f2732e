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

package parquetfiles

import (
	"io"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"github.com/weaviate/compactor/entities/compaction"
)

// FooterError reports a parquet footer that was read but could not be
// decoded.
type FooterError struct {
	Path string
	Err  error
}

func (e *FooterError) Error() string {
	return "footer of " + strconv.Quote(e.Path) + ": " + e.Err.Error()
}

func (e *FooterError) Unwrap() error {
	return e.Err
}

// readFooter fills the row count and time range of file from the parquet
// footer. Only the footer is read, page indexes and bloom filters are
// skipped.
func readFooter(r io.ReaderAt, file *compaction.ParquetFile) error {
	f, err := parquet.OpenFile(r, file.FileSizeBytes,
		parquet.SkipPageIndex(true),
		parquet.SkipBloomFilters(true),
	)
	if err != nil {
		return &FooterError{Path: file.Path, Err: err}
	}

	file.RowCount = f.NumRows()

	if v, ok := f.Lookup(metaMinTime); ok {
		if file.MinTime, err = parseFooterTime(v); err != nil {
			return &FooterError{Path: file.Path, Err: errors.Wrap(err, metaMinTime)}
		}
	}
	if v, ok := f.Lookup(metaMaxTime); ok {
		if file.MaxTime, err = parseFooterTime(v); err != nil {
			return &FooterError{Path: file.Path, Err: errors.Wrap(err, metaMaxTime)}
		}
	}

	return nil
}

func parseFooterTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatFooterTime is the encoding expected for the min_time and max_time
// footer metadata.
func FormatFooterTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
