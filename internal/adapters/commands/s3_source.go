package commands

import (
	"context"
	"fmt"
	"io"
	"place-map-service/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectGetter is the part of *minio.Client used here.
type objectGetter interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// S3Source reads the command document from an S3-compatible object store.
type S3Source struct {
	client objectGetter
	bucket string
	object string
}

// NewS3Source connects to MinIO using MINIO_ENDPOINT, MINIO_ACCESS_KEY,
// MINIO_SECRET_KEY and MINIO_USE_SSL.
func NewS3Source(bucket, object string) (*S3Source, error) {
	endpoint := config.Get("MINIO_ENDPOINT", "")
	accessKey := config.Get("MINIO_ACCESS_KEY", "")
	secretKey := config.Get("MINIO_SECRET_KEY", "")
	useSSL := config.GetBool("MINIO_USE_SSL", false)

	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	return &S3Source{client: client, bucket: bucket, object: object}, nil
}

func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get command object %s/%s: %w", s.bucket, s.object, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(io.LimitReader(obj, maxCommandSize))
	if err != nil {
		return nil, fmt.Errorf("read command object %s/%s: %w", s.bucket, s.object, err)
	}
	return b, nil
}
