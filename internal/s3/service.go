package s3

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/invixio/invixio/internal/config"
	ierr "github.com/invixio/invixio/internal/errors"
)

const defaultPresignExpiryDuration = 30 * time.Minute

var validDocumentTypes = []DocumentType{DocumentTypeInvoice, DocumentTypeLogo}

type Service interface {
	UploadDocument(ctx context.Context, document *Document) error
	GetPresignedUrl(ctx context.Context, key string, docType DocumentType) (string, error)
	PublicUrl(key string, docType DocumentType) (string, error)
	DeleteDocument(ctx context.Context, key string, docType DocumentType) error
	Exists(ctx context.Context, key string, docType DocumentType) (bool, error)
}

type s3ServiceImpl struct {
	client *s3.Client
	config *config.S3Config
}

// NewService returns nil when object storage is disabled; callers treat a
// nil service as a skipped collaborator.
func NewService(cfg *config.Configuration) (Service, error) {
	if !cfg.S3.Enabled {
		return nil, nil
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.S3.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return &s3ServiceImpl{
		config: &cfg.S3,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *s3ServiceImpl) getObjectKey(key string, docType DocumentType) (string, error) {
	switch docType {
	case DocumentTypeInvoice:
		if s.config.InvoiceKeyPrefix != "" {
			return fmt.Sprintf("%s/%s.pdf", s.config.InvoiceKeyPrefix, key), nil
		}
		return fmt.Sprintf("%s.pdf", key), nil
	case DocumentTypeLogo:
		if s.config.LogoKeyPrefix != "" {
			return fmt.Sprintf("%s/%s", s.config.LogoKeyPrefix, key), nil
		}
		return key, nil
	default:
		return "", ierr.NewErrorf("invalid doc type: %s", docType).
			WithHintf("valid doc types are: %v", validDocumentTypes).
			Mark(ierr.ErrSystem)
	}
}

func (s *s3ServiceImpl) getContentType(document *Document) string {
	if document.ContentType != "" {
		return document.ContentType
	}
	switch document.Kind {
	case DocumentKindPdf:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Exists implements Service.
func (s *s3ServiceImpl) Exists(ctx context.Context, key string, docType DocumentType) (bool, error) {
	objectKey, err := s.getObjectKey(key, docType)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		var nf *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nf) {
			return false, nil
		}
		return false, ierr.WithError(err).
			WithHint("failed to check if document exists").
			Mark(ierr.ErrHTTPClient)
	}
	return true, nil
}

// GetPresignedUrl implements Service.
func (s *s3ServiceImpl) GetPresignedUrl(ctx context.Context, key string, docType DocumentType) (string, error) {
	objectKey, err := s.getObjectKey(key, docType)
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(s.client)
	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(defaultPresignExpiryDuration))
	if err != nil {
		return "", ierr.WithError(err).WithHint("failed to get presigned url").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, objectKey).
			Mark(ierr.ErrHTTPClient)
	}
	return result.URL, nil
}

// PublicUrl returns the non-presigned object URL, used for logo images in
// buckets with public read.
func (s *s3ServiceImpl) PublicUrl(key string, docType DocumentType) (string, error) {
	objectKey, err := s.getObjectKey(key, docType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, objectKey), nil
}

// UploadDocument implements Service.
func (s *s3ServiceImpl) UploadDocument(ctx context.Context, document *Document) error {
	objectKey, err := s.getObjectKey(document.Key, document.Type)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(document.Data),
		ContentType: aws.String(s.getContentType(document)),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to upload document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, objectKey).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

// DeleteDocument implements Service.
func (s *s3ServiceImpl) DeleteDocument(ctx context.Context, key string, docType DocumentType) error {
	objectKey, err := s.getObjectKey(key, docType)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to delete document").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, objectKey).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}
