package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/stefanologica/firebear-importexport/config"
	"github.com/stefanologica/firebear-importexport/core/log"
)

// MinioDirectory keeps media in an S3 compatible bucket. Directories are implicit,
// so Create only checks the bucket.
type MinioDirectory struct {
	client *minio.Client
	bucket string
}

// NewMinioDirectory connects and creates the bucket when missing.
func NewMinioDirectory(ctx context.Context, cfg config.MinIOConfig) (*MinioDirectory, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}
	if !exists {
		log.Infof("bucket '%s' missing, creating", cfg.BucketName)
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}
	}
	return &MinioDirectory{client: client, bucket: cfg.BucketName}, nil
}

func objectKey(p string) string {
	return strings.TrimPrefix(clean(p), "/")
}

func (d *MinioDirectory) Exists(ctx context.Context, p string) (bool, error) {
	_, err := d.client.StatObject(ctx, d.bucket, objectKey(p), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

func (d *MinioDirectory) Delete(ctx context.Context, p string) error {
	return d.client.RemoveObject(ctx, d.bucket, objectKey(p), minio.RemoveObjectOptions{})
}

func (d *MinioDirectory) AbsolutePath(p string) string {
	return "s3://" + path.Join(d.bucket, objectKey(p))
}

func (d *MinioDirectory) Create(ctx context.Context, _ string) error {
	ok, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("bucket " + d.bucket + " does not exist")
	}
	return nil
}

func (d *MinioDirectory) IsReadable(ctx context.Context, _ string) bool {
	ok, err := d.client.BucketExists(ctx, d.bucket)
	return err == nil && ok
}

func (d *MinioDirectory) IsWritable(ctx context.Context, p string) bool {
	return d.IsReadable(ctx, p)
}

func (d *MinioDirectory) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, objectKey(p), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before the first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (d *MinioDirectory) Write(ctx context.Context, p string, r io.Reader) error {
	_, err := d.client.PutObject(ctx, d.bucket, objectKey(p), r, -1, minio.PutObjectOptions{})
	return err
}
