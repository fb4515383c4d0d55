// Package storage archives raw bot exports in S3-compatible object storage
// so completed analyses can always be traced back to their input.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/agentlift/agentlift/internal/config"
)

// ExportStore wraps the MinIO client
type ExportStore struct {
	client     *minio.Client
	bucketName string
	exportPath string
}

// New creates a new export store
func New(cfg config.StorageConfig) (*ExportStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	exportPath := cfg.ExportPath
	if exportPath == "" {
		exportPath = "exports"
	}

	return &ExportStore{
		client:     client,
		bucketName: cfg.Bucket,
		exportPath: exportPath,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ExportStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("checking bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
	}

	return nil
}

// ArchiveExport stores the raw export for an analysis run and returns its
// S3-style URI
func (s *ExportStore) ArchiveExport(ctx context.Context, runID uuid.UUID, filename string, raw []byte) (string, error) {
	key := path.Join(s.exportPath, runID.String(), path.Base(filename))
	return s.Upload(ctx, key, raw, exportContentType(filename))
}

// Upload uploads any object and returns its S3-style URI
func (s *ExportStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)

	_, err := s.client.PutObject(ctx, s.bucketName, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucketName, key), nil
}

// Download downloads an object
func (s *ExportStore) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting object: %w", err)
	}
	defer obj.Close()

	return io.ReadAll(obj)
}

// Delete deletes an object
func (s *ExportStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
}

// DeleteRunExports removes every archived object for an analysis run
func (s *ExportStore) DeleteRunExports(ctx context.Context, runID uuid.UUID) error {
	keys, err := s.ListObjects(ctx, path.Join(s.exportPath, runID.String())+"/")
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// ObjectKey extracts the object key from an s3://bucket/key URI
func ObjectKey(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", false
	}
	_, key, ok := strings.Cut(rest, "/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// GetPresignedURL returns a presigned URL for downloading an archived export
func (s *ExportStore) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("generating presigned URL: %w", err)
	}
	return url.String(), nil
}

// ListObjects lists objects with a given prefix
func (s *ExportStore) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, object.Err
		}
		keys = append(keys, object.Key)
	}

	return keys, nil
}

func exportContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "text/plain"
	}
}
