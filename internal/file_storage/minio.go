package filestorage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/errs"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const uniquePrefixLength = 12

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *zap.SugaredLogger
}

func NewMinioStore(client *minio.Client, cfg *config.MinioConfig, logger *zap.SugaredLogger) *MinioStore {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	return &MinioStore{
		client:  client,
		bucket:  cfg.BUCKET,
		baseURL: publicBaseURL(cfg),
		logger:  logger,
	}
}

func publicBaseURL(cfg *config.MinioConfig) string {
	if cfg.PUBLIC_URL != "" {
		return strings.TrimRight(cfg.PUBLIC_URL, "/")
	}

	scheme := "http"
	if cfg.USE_SSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, strings.TrimRight(cfg.ENDPOINT, "/"))
}

func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
		s.logger.Infof("Created bucket %s", s.bucket)
	}

	return nil
}

func (s *MinioStore) Put(ctx context.Context, blob Blob, folder string) (Locator, error) {
	prefix, err := util.GenerateNChar(uniquePrefixLength)
	if err != nil {
		return Locator{}, fmt.Errorf("%w: %v", errs.ErrUploadRejected, err)
	}

	key := util.ToObjectKey(folder, util.AddUniquePrefixToFileName(prefix, blob.Name))
	s.logger.Debugf("Put object %s (%d bytes) into bucket %s", key, blob.Size, s.bucket)

	info, err := s.client.PutObject(ctx, s.bucket, key, blob.Body, blob.Size, minio.PutObjectOptions{
		ContentType: blob.ContentType,
	})
	if err != nil {
		// Multipart uploads are aborted by the client, this catches anything that got committed anyway.
		if rmErr := s.client.RemoveObject(context.WithoutCancel(ctx), s.bucket, key, minio.RemoveObjectOptions{}); rmErr != nil {
			s.logger.Warnf("Failed to remove partial object %s: %v", key, rmErr)
		}
		return Locator{}, classifyPutError(key, err)
	}

	return Locator{
		URL:    s.ObjectURL(info.Key),
		Handle: info.Key,
	}, nil
}

func (s *MinioStore) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}

	s.logger.Debugf("Remove object %s from bucket %s", handle, s.bucket)

	if err := s.client.RemoveObject(ctx, s.bucket, handle, minio.RemoveObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("failed to remove object %s: %w", handle, err)
	}

	return nil
}

// ObjectURL builds the public url of an object key.
func (s *MinioStore) ObjectURL(key string) string {
	u, err := url.JoinPath(s.baseURL, s.bucket, key)
	if err != nil {
		return s.baseURL + "/" + s.bucket + "/" + key
	}
	return u
}

func classifyPutError(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		return fmt.Errorf("%w: %s: %s", errs.ErrUploadRejected, key, resp.Message)
	}
	return fmt.Errorf("%w: %s: %v", errs.ErrStoreUnavailable, key, err)
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
