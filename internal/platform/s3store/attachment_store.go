// Package s3store implements attachment storage on S3: base64 payload
// decoding, storage key derivation, and time-limited retrieval URLs.
package s3store

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

// presignExpiry is the validity window of generated retrieval URLs.
const presignExpiry = 7 * 24 * time.Hour

// API is the subset of the S3 client used by the attachment store.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used to generate
// retrieval URLs.
type PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// AttachmentStore writes task attachment blobs to an S3 bucket and
// produces presigned retrieval URLs for them.
type AttachmentStore struct {
	client  API
	presign PresignAPI
	bucket  string
	logger  *slog.Logger
	now     func() time.Time
}

// NewAttachmentStore creates an AttachmentStore for the given bucket.
// If logger is nil, a default logger will be used.
func NewAttachmentStore(client API, presign PresignAPI, bucket string, logger *slog.Logger) *AttachmentStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if presign == nil {
		panic("presign cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AttachmentStore{
		client:  client,
		presign: presign,
		bucket:  bucket,
		logger:  logger.With(slog.String("component", "attachment_store")),
		now:     time.Now,
	}
}

// Store decodes the base64 payload and writes it under a key derived
// from the owner, task, upload timestamp and original filename. Returns
// (nil, nil) when there is no payload or filename to store. Any storage
// failure is returned wrapped: a task record referencing an unstored
// attachment would be invalid, so the caller treats this as fatal.
func (s *AttachmentStore) Store(
	ctx context.Context,
	payload, filename, taskID, ownerID string,
) (*domain.Attachment, error) {
	if payload == "" || filename == "" {
		return nil, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	// Browsers submit data-URI payloads; anything before the comma is
	// the scheme prefix.
	if comma := strings.Index(payload, ","); comma >= 0 {
		payload = payload[comma+1:]
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("file upload failed: invalid base64 payload: %w", err)
	}

	// The timestamp component keeps keys collision-resistant across
	// re-uploads of the same filename.
	key := fmt.Sprintf("tasks/%s/%s/%d_%s", ownerID, taskID, s.now().UTC().Unix(), filename)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(ContentType(filename)),
		Metadata: map[string]string{
			"task-id":           taskID,
			"user-id":           ownerID,
			"original-filename": filename,
		},
	})
	if err != nil {
		log.Error("failed to put attachment object",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return nil, fmt.Errorf("file upload failed: %w", err)
	}

	presigned, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		log.Error("failed to presign attachment URL",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return nil, fmt.Errorf("file upload failed: %w", err)
	}

	log.Info("attachment stored",
		slog.String("key", key),
		slog.Int("size_bytes", len(content)))

	return &domain.Attachment{
		URL:        presigned.URL,
		FileName:   filename,
		StorageKey: key,
	}, nil
}

// Delete removes the blob under the given storage key. Used by the task
// delete path for best-effort attachment cleanup.
func (s *AttachmentStore) Delete(ctx context.Context, key string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error("failed to delete attachment object",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return err
	}

	return nil
}
