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
	"net"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/compactor/entities/compaction"
	enterrors "github.com/weaviate/compactor/entities/errors"
)

const (
	AWS_ROLE_ARN                = "AWS_ROLE_ARN"
	AWS_WEB_IDENTITY_TOKEN_FILE = "AWS_WEB_IDENTITY_TOKEN_FILE"
	AWS_REGION                  = "AWS_REGION"
	AWS_DEFAULT_REGION          = "AWS_DEFAULT_REGION"
)

// S3 is a catalog over parquet files stored in an S3 compatible bucket.
type S3 struct {
	client      *minio.Client
	bucket      string
	prefix      string
	readFooters bool
	logger      logrus.FieldLogger
}

// NewMinioClient creates a client authenticated from the AWS environment
// variables, or from the web identity token when running with an IAM role.
func NewMinioClient(endpoint string, useSSL bool) (*minio.Client, error) {
	region := os.Getenv(AWS_REGION)
	if len(region) == 0 {
		region = os.Getenv(AWS_DEFAULT_REGION)
	}
	creds := credentials.NewEnvAWS()
	if len(os.Getenv(AWS_WEB_IDENTITY_TOKEN_FILE)) > 0 && len(os.Getenv(AWS_ROLE_ARN)) > 0 {
		creds = credentials.NewIAM("")
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Region: region,
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}
	return client, nil
}

func NewS3(client *minio.Client, bucket, prefix string, readFooters bool,
	logger logrus.FieldLogger,
) *S3 {
	return &S3{
		client:      client,
		bucket:      bucket,
		prefix:      strings.Trim(prefix, "/"),
		readFooters: readFooters,
		logger:      logger,
	}
}

// Partitions returns the ids of all partitions below the prefix in
// ascending order.
func (s *S3) Partitions(ctx context.Context) ([]compaction.PartitionID, error) {
	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}

	var ids []compaction.PartitionID
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    listPrefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, s.wrapErr(ctx, obj.Err, "list partitions")
		}
		// only common prefixes are partitions
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		name := path.Base(strings.TrimSuffix(obj.Key, "/"))
		id, err := compaction.ParsePartitionID(name)
		if err != nil {
			s.logger.WithField("action", "list_partitions").
				WithField("prefix", obj.Key).
				Debug("ignoring non-partition prefix")
			continue
		}
		ids = append(ids, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Files returns the parquet files of a partition sorted by key.
func (s *S3) Files(ctx context.Context, partitionID compaction.PartitionID,
) ([]compaction.ParquetFile, error) {
	var files []compaction.ParquetFile
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    partitionPrefix(s.prefix, partitionID),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, s.wrapErr(ctx, obj.Err, "list files of partition "+partitionID.String())
		}
		key, err := parseObjectKey(s.prefix, obj.Key)
		if err != nil {
			s.logger.WithField("action", "list_parquet_files").
				WithField("partition_id", partitionID).
				WithError(err).
				Debug("ignoring object outside of layout")
			continue
		}

		file := compaction.ParquetFile{
			PartitionID:     key.partitionID,
			ObjectStoreID:   key.id,
			Path:            obj.Key,
			CompactionLevel: key.level,
			FileSizeBytes:   obj.Size,
			CreatedAt:       obj.LastModified.UTC(),
		}
		if s.readFooters {
			if err := s.readFooter(ctx, &file); err != nil {
				return nil, s.wrapErr(ctx, err, "read footer")
			}
		}
		files = append(files, file)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (s *S3) readFooter(ctx context.Context, file *compaction.ParquetFile) error {
	obj, err := s.client.GetObject(ctx, s.bucket, file.Path, minio.GetObjectOptions{})
	if err != nil {
		return errors.Wrapf(err, "get object '%s'", file.Path)
	}
	defer obj.Close()

	return readFooter(obj, file)
}

func (s *S3) wrapErr(ctx context.Context, err error, msg string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return enterrors.NewTimeout(err, msg)
	}
	return enterrors.NewObjectStore(err, msg)
}
