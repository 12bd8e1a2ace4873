package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// BlobStore is the object storage collaborator. Paths follow the
// user_<userId>/<categoryName>/[wishlist/]<uuid><ext> convention; every
// caller is responsible for resolving paths only inside prefixes it owns.
type BlobStore interface {
	Upload(path string, body io.Reader, contentType string) error
	PresignedGet(path string) (string, error)
	Delete(path string) error
	Copy(srcPath string, dstPath string) error
	ListByPrefix(prefix string) ([]string, error)
	DeleteByPrefix(prefix string) (int, error)
}

var Storage BlobStore

// deleteBatchSize is the DeleteObjects request limit imposed by S3.
const deleteBatchSize = 1000

type s3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	timeout time.Duration
}

func SetupStorage() {
	storageConfig := ServiceConfig.Storage

	if storageConfig.AccessKey == "" || storageConfig.SecretKey == "" || storageConfig.Bucket == "" || storageConfig.Region == "" {
		panic("missing required storage configuration")
	}

	cfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(storageConfig.Region),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(storageConfig.AccessKey, storageConfig.SecretKey, "")),
	)

	if err != nil {
		panic(fmt.Sprintf("failed to load storage config: %v", err))
	}

	client := s3.NewFromConfig(cfg)

	ttl := time.Duration(storageConfig.PresignSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	timeout := time.Duration(storageConfig.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	Storage = &s3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  storageConfig.Bucket,
		ttl:     ttl,
		timeout: timeout,
	}
}

func (s *s3Store) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *s3Store) Upload(path string, body io.Reader, contentType string) error {
	ctx, cancel := s.operationContext()
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        body,
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return nil
}

func (s *s3Store) PresignedGet(path string) (string, error) {
	ctx, cancel := s.operationContext()
	defer cancel()

	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.ttl
	})

	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", path, err)
	}

	return request.URL, nil
}

func (s *s3Store) Delete(path string) error {
	ctx, cancel := s.operationContext()
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})

	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}

	return nil
}

func (s *s3Store) Copy(srcPath string, dstPath string) error {
	ctx, cancel := s.operationContext()
	defer cancel()

	// CopySource must be URL-encoded and include the bucket.
	source := url.PathEscape(s.bucket + "/" + srcPath)

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(source),
		Key:        aws.String(dstPath),
	})

	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", srcPath, dstPath, err)
	}

	return nil
}

func (s *s3Store) ListByPrefix(prefix string) ([]string, error) {
	ctx, cancel := s.operationContext()
	defer cancel()

	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)

		if err != nil {
			return nil, fmt.Errorf("failed to list prefix %s: %w", prefix, err)
		}

		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}

	return keys, nil
}

func (s *s3Store) DeleteByPrefix(prefix string) (int, error) {
	keys, err := s.ListByPrefix(prefix)

	if err != nil {
		return 0, err
	}

	if len(keys) == 0 {
		return 0, nil
	}

	ctx, cancel := s.operationContext()
	defer cancel()

	deleted := 0

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		batch := make([]types.ObjectIdentifier, 0, end-start)

		for _, key := range keys[start:end] {
			batch = append(batch, types.ObjectIdentifier{Key: aws.String(key)})
		}

		_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: batch},
		})

		if err != nil {
			return deleted, fmt.Errorf("failed to delete prefix %s: %w", prefix, err)
		}

		deleted += len(batch)
	}

	return deleted, nil
}

// ObjectPath builds the canonical blob path for a new upload.
func ObjectPath(userId uint, categoryName string, isWishlist bool, filename string) string {
	name := uuid.NewString() + filepath.Ext(filename)

	if isWishlist {
		return fmt.Sprintf("user_%d/%s/wishlist/%s", userId, categoryName, name)
	}

	return fmt.Sprintf("user_%d/%s/%s", userId, categoryName, name)
}

// UserPrefix is the blob namespace owned by a user.
func UserPrefix(userId uint) string {
	return fmt.Sprintf("user_%d/", userId)
}

// CategoryPrefix is the blob folder holding a category's objects,
// including its wishlist subfolder.
func CategoryPrefix(userId uint, categoryName string) string {
	return fmt.Sprintf("user_%d/%s/", userId, categoryName)
}

// PresignedOrEmpty resolves a display URL for a stored path. Presign
// failures are logged and reported as "no image" rather than failing the
// surrounding request.
func PresignedOrEmpty(path string) string {
	if path == "" {
		return ""
	}

	link, err := Storage.PresignedGet(path)

	if err != nil {
		log.Printf("presign failed for %s: %s", path, err)
		return ""
	}

	return link
}
