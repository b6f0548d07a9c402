package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	objects map[string]string
	err     error
	lastKey string
}

func (f *fakeClient) GetObject(ctx context.Context, in *s3aws.GetObjectInput, _ ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	f.lastKey = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[f.lastKey]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3aws.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(body))),
		ETag:          aws.String(`"abc"`),
		LastModified:  aws.Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}, nil
}

func (f *fakeClient) HeadObject(ctx context.Context, in *s3aws.HeadObjectInput, _ ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
	f.lastKey = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[f.lastKey]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3aws.HeadObjectOutput{
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func newTestStorage(t *testing.T, client *fakeClient) *Storage {
	t.Helper()
	s, err := New(context.Background(), Config{Bucket: "receipts", Region: "us-east-1"}, WithClient(client))
	require.NoError(t, err)
	return s
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	client := &fakeClient{objects: map[string]string{"companies/1/a.pdf": "%PDF"}}
	s := newTestStorage(t, client)

	obj, err := s.Open(context.Background(), "/companies/1/a.pdf")
	require.NoError(t, err)
	defer obj.Body.Close()

	assert.Equal(t, "companies/1/a.pdf", client.lastKey)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.Equal(t, int64(4), obj.ContentLength)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body))

	_, err = s.Open(context.Background(), "companies/1/missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestStat(t *testing.T) {
	t.Parallel()

	s := newTestStorage(t, &fakeClient{objects: map[string]string{"a.pdf": "12345"}})

	info, err := s.Stat(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.ContentLength)

	_, err = s.Stat(context.Background(), "b.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestInvalidKeys(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	s := newTestStorage(t, client)

	for _, key := range []string{"", "  ", "/", "a/../b", "../etc/passwd"} {
		_, err := s.Open(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
	assert.Empty(t, client.lastKey, "invalid keys never reach the client")
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such key", &types.NoSuchKey{}, ErrObjectNotFound},
		{"not found", &types.NotFound{}, ErrObjectNotFound},
		{"no such bucket", &types.NoSuchBucket{}, ErrBucketNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrAccessDenied},
		{"slow down", &smithy.GenericAPIError{Code: "SlowDown"}, ErrServiceUnavailable},
		{"request timeout", &smithy.GenericAPIError{Code: "RequestTimeout"}, ErrOperationTimeout},
		{"deadline", context.DeadlineExceeded, ErrOperationTimeout},
		{"canceled", context.Canceled, ErrOperationCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, classifyError(tt.err, "get"), tt.want)
		})
	}

	t.Run("unknown api code keeps the cause", func(t *testing.T) {
		t.Parallel()
		cause := &smithy.GenericAPIError{Code: "InvalidRange"}
		err := classifyError(cause, "get")
		assert.Contains(t, err.Error(), "InvalidRange")
		var apiErr smithy.APIError
		assert.True(t, errors.As(err, &apiErr))
	})

	assert.NoError(t, classifyError(nil, "get"))
}

func TestOpenClassifiesClientErrors(t *testing.T) {
	t.Parallel()

	s := newTestStorage(t, &fakeClient{err: &smithy.GenericAPIError{Code: "AccessDenied"}})
	_, err := s.Open(context.Background(), "a.pdf")
	assert.ErrorIs(t, err, ErrAccessDenied)
}
