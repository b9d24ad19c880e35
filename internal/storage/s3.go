package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/config"
)

// ObjectAPI is the part of the S3 client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// File is an upload as received from the caller.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object locates a stored file.
type Object struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// S3Store keeps files in one bucket of an S3-compatible service.
type S3Store struct {
	api           ObjectAPI
	bucket        string
	publicBaseURL string
}

// NewS3Store builds a store from configuration. Static credentials are used
// when an access key is configured, the default chain otherwise.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" && cfg.Endpoint != "" {
		publicBase = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return NewS3StoreWithAPI(client, cfg.Bucket, publicBase), nil
}

// NewS3StoreWithAPI builds a store over an existing client.
func NewS3StoreWithAPI(api ObjectAPI, bucket, publicBaseURL string) *S3Store {
	return &S3Store{
		api:           api,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload checks file against policy and stores it under folder with a fresh
// name. Policy violations are validation errors and never reach the network.
func (s *S3Store) Upload(ctx context.Context, file File, folder string, policy Policy) (Object, error) {
	if err := policy.Check(file); err != nil {
		return Object{}, err
	}
	dir, err := cleanFolder(folder)
	if err != nil {
		return Object{}, err
	}

	key := path.Join(dir, uuid.NewString()+strings.ToLower(path.Ext(file.Name)))
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentType:   aws.String(normalizeType(file.ContentType)),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		log.WithFields(log.Fields{"bucket": s.bucket, "key": key}).WithError(err).Error("upload failed")
		return Object{}, &apperr.StorageError{Op: "upload", Path: key, Err: err}
	}

	log.WithFields(log.Fields{"key": key, "size": file.Size}).Info("file uploaded")
	return Object{URL: s.PublicURL(key), Path: key}, nil
}

// Remove deletes the object at key.
func (s *S3Store) Remove(ctx context.Context, key string) error {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") {
		verr := apperr.NewValidationError()
		verr.Reject("path", "is not a valid object path")
		return verr
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &apperr.StorageError{Op: "remove", Path: key, Err: err}
	}
	log.WithField("key", key).Info("file removed")
	return nil
}

// PublicURL is the address at which key is served.
func (s *S3Store) PublicURL(key string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}

func cleanFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return "uploads", nil
	}
	for _, part := range strings.Split(folder, "/") {
		if part == "" || part == "." || part == ".." {
			verr := apperr.NewValidationError()
			verr.Reject("folder", "is not a valid folder name")
			return "", verr
		}
	}
	return folder, nil
}
