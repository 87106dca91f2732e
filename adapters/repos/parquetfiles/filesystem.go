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
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
	enterrors "github.com/weaviate/compactor/entities/errors"
)

// Filesystem is a catalog over parquet files stored below a local root
// directory.
type Filesystem struct {
	root        string
	readFooters bool
	logger      logrus.FieldLogger
}

func NewFilesystem(root string, readFooters bool, logger logrus.FieldLogger) *Filesystem {
	return &Filesystem{
		root:        root,
		readFooters: readFooters,
		logger:      logger,
	}
}

// Partitions returns the ids of all partition directories in ascending
// order. A missing root directory holds no partitions.
func (f *Filesystem) Partitions(ctx context.Context) ([]compaction.PartitionID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(f.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, enterrors.NewObjectStore(err, "list partitions")
	}

	ids := make([]compaction.PartitionID, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := compaction.ParsePartitionID(entry.Name())
		if err != nil {
			f.logger.WithField("action", "list_partitions").
				WithField("dir", entry.Name()).
				Debug("ignoring non-partition directory")
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Files returns the parquet files of a partition sorted by path.
func (f *Filesystem) Files(ctx context.Context, partitionID compaction.PartitionID,
) ([]compaction.ParquetFile, error) {
	dir := filepath.Join(f.root, partitionID.String())

	var files []compaction.ParquetFile
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		key, err := parseObjectKey("", filepath.ToSlash(rel))
		if err != nil {
			f.logger.WithField("action", "list_parquet_files").
				WithField("partition_id", partitionID).
				WithError(err).
				Debug("ignoring file outside of layout")
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		file := compaction.ParquetFile{
			PartitionID:     key.partitionID,
			ObjectStoreID:   key.id,
			Path:            path,
			CompactionLevel: key.level,
			FileSizeBytes:   info.Size(),
			CreatedAt:       info.ModTime().UTC(),
		}
		if f.readFooters {
			if err := f.readFooter(&file); err != nil {
				return err
			}
		}

		files = append(files, file)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// a local file that does not decode will not get better on retry
		var footerErr *FooterError
		if errors.As(err, &footerErr) {
			return nil, errors.Wrapf(err, "list files of partition %s", partitionID)
		}
		return nil, enterrors.NewObjectStore(err, "list files of partition "+partitionID.String())
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (f *Filesystem) readFooter(file *compaction.ParquetFile) error {
	r, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	return readFooter(r, file)
}
