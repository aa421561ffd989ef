package s3store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records puts and deletes.
type fakeS3 struct {
	putErr    error
	deleteErr error

	puts    []*s3.PutObjectInput
	deletes []*s3.DeleteObjectInput
}

func (f *fakeS3) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(
	ctx context.Context,
	params *s3.DeleteObjectInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletes = append(f.deletes, params)
	return &s3.DeleteObjectOutput{}, nil
}

// fakePresign returns a deterministic URL for the requested key.
type fakePresign struct {
	err error
}

func (f *fakePresign) PresignGetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{
		URL: fmt.Sprintf("https://bucket.example.com/%s?signed", aws.ToString(params.Key)),
	}, nil
}

func newTestStore(t *testing.T, client *fakeS3, presign *fakePresign) *AttachmentStore {
	t.Helper()
	store := NewAttachmentStore(client, presign, "attachments", nil)
	store.now = func() time.Time {
		return time.Unix(1700000000, 0)
	}
	return store
}

func TestAttachmentStoreStore(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads payload under derived key", func(t *testing.T) {
		client := &fakeS3{}
		store := newTestStore(t, client, &fakePresign{})

		payload := base64.StdEncoding.EncodeToString([]byte("file contents"))
		attachment, err := store.Store(ctx, payload, "report.pdf", "task-1", "user-1")

		require.NoError(t, err)
		require.NotNil(t, attachment)

		wantKey := "tasks/user-1/task-1/1700000000_report.pdf"
		assert.Equal(t, wantKey, attachment.StorageKey)
		assert.Equal(t, "report.pdf", attachment.FileName)
		assert.Equal(t, "https://bucket.example.com/"+wantKey+"?signed", attachment.URL)

		require.Len(t, client.puts, 1)
		put := client.puts[0]
		assert.Equal(t, "attachments", aws.ToString(put.Bucket))
		assert.Equal(t, wantKey, aws.ToString(put.Key))
		assert.Equal(t, "application/pdf", aws.ToString(put.ContentType))
		assert.Equal(t, "task-1", put.Metadata["task-id"])
		assert.Equal(t, "user-1", put.Metadata["user-id"])
		assert.Equal(t, "report.pdf", put.Metadata["original-filename"])

		body, err := io.ReadAll(put.Body)
		require.NoError(t, err)
		assert.Equal(t, "file contents", string(body))
	})

	t.Run("strips data-URI prefix", func(t *testing.T) {
		client := &fakeS3{}
		store := newTestStore(t, client, &fakePresign{})

		encoded := base64.StdEncoding.EncodeToString([]byte("png bytes"))
		payload := "data:image/png;base64," + encoded

		attachment, err := store.Store(ctx, payload, "photo.png", "task-1", "user-1")

		require.NoError(t, err)
		require.NotNil(t, attachment)
		require.Len(t, client.puts, 1)

		body, err := io.ReadAll(client.puts[0].Body)
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(body))
	})

	t.Run("returns nil for empty payload or filename", func(t *testing.T) {
		client := &fakeS3{}
		store := newTestStore(t, client, &fakePresign{})

		attachment, err := store.Store(ctx, "", "report.pdf", "task-1", "user-1")
		require.NoError(t, err)
		assert.Nil(t, attachment)

		attachment, err = store.Store(ctx, "cGF5bG9hZA==", "", "task-1", "user-1")
		require.NoError(t, err)
		assert.Nil(t, attachment)

		assert.Empty(t, client.puts)
	})

	t.Run("invalid base64 fails before any upload", func(t *testing.T) {
		client := &fakeS3{}
		store := newTestStore(t, client, &fakePresign{})

		_, err := store.Store(ctx, "not-base64!!!", "report.pdf", "task-1", "user-1")

		assert.ErrorContains(t, err, "file upload failed")
		assert.Empty(t, client.puts)
	})

	t.Run("put failure is wrapped", func(t *testing.T) {
		client := &fakeS3{putErr: errors.New("s3 down")}
		store := newTestStore(t, client, &fakePresign{})

		_, err := store.Store(ctx, "cGF5bG9hZA==", "report.pdf", "task-1", "user-1")

		assert.ErrorContains(t, err, "file upload failed")
	})

	t.Run("presign failure is wrapped", func(t *testing.T) {
		client := &fakeS3{}
		store := newTestStore(t, client, &fakePresign{err: errors.New("sign failed")})

		_, err := store.Store(ctx, "cGF5bG9hZA==", "report.pdf", "task-1", "user-1")

		assert.ErrorContains(t, err, "file upload failed")
	})
}

func TestAttachmentStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the object under the key", func(t *testing.T) {
		client := &fakeS3{}
		store := newTestStore(t, client, &fakePresign{})

		err := store.Delete(ctx, "tasks/user-1/task-1/1_report.pdf")

		require.NoError(t, err)
		require.Len(t, client.deletes, 1)
		assert.Equal(t, "attachments", aws.ToString(client.deletes[0].Bucket))
		assert.Equal(t, "tasks/user-1/task-1/1_report.pdf", aws.ToString(client.deletes[0].Key))
	})

	t.Run("propagates delete failures", func(t *testing.T) {
		client := &fakeS3{deleteErr: errors.New("s3 down")}
		store := newTestStore(t, client, &fakePresign{})

		err := store.Delete(ctx, "tasks/user-1/task-1/1_report.pdf")

		assert.Error(t, err)
	})
}
