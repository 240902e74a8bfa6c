package service

import (
	"context"

	"github.com/minio/minio-go/v7"

	"video-edit-worker/config"
)

// Archiver mirrors completed outputs to object storage. Archival is best
// effort and never feeds back into job state.
type Archiver interface {
	Store(ctx context.Context, localPath, objectName string) error
}

type minioArchiver struct {
	client *minio.Client
	bucket string
}

// NewArchiver returns nil when archiving is disabled; the executor treats a
// nil archiver as "no mirror".
func NewArchiver(cfg *config.Config) Archiver {
	if !cfg.Archive.Enabled || cfg.Storage == nil {
		return nil
	}
	return &minioArchiver{
		client: cfg.Storage,
		bucket: cfg.Archive.Bucket,
	}
}

func (a *minioArchiver) Store(ctx context.Context, localPath, objectName string) error {
	_, err := a.client.FPutObject(ctx, a.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: "video/mp4",
	})
	return err
}
