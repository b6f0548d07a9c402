package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the part of the S3 API the storage uses.
type Client interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key           string
	ContentType   string
	ContentLength int64
	ETag          string
	LastModified  time.Time
}

// Object is an open object. The caller must close Body.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
}

// Storage reads objects from one bucket.
type Storage struct {
	client Client
	bucket string
}

// Option configures Storage.
type Option func(*options)

type options struct {
	client        Client
	httpClient    *http.Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*s3aws.Options)
}

// WithClient sets a pre-configured client, mostly for tests.
func WithClient(client Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithHTTPClient sets the HTTP client used for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithConfigOption adds an AWS config load option.
func WithConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.configOptions = append(o.configOptions, option)
	}
}

// WithClientOption adds an S3 client option.
func WithClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, option)
	}
}

// New creates a Storage for cfg.Bucket. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config, opts ...Option) (*Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}
		awsOptions = append(awsOptions, o.configOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: load aws config: %w", ErrInvalidConfig, err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
			for _, opt := range o.clientOptions {
				opt(so)
			}
		})
	}

	return &Storage{client: client, bucket: cfg.Bucket}, nil
}

// Open starts a download of key. The returned body streams from S3.
func (s *Storage) Open(ctx context.Context, key string) (*Object, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyError(err, "get")
	}

	return &Object{
		ObjectInfo: ObjectInfo{
			Key:           key,
			ContentType:   aws.ToString(out.ContentType),
			ContentLength: aws.ToInt64(out.ContentLength),
			ETag:          aws.ToString(out.ETag),
			LastModified:  aws.ToTime(out.LastModified),
		},
		Body: out.Body,
	}, nil
}

// Stat returns the metadata of key without downloading it.
func (s *Storage) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyError(err, "head")
	}

	return &ObjectInfo{
		Key:           key,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		ETag:          aws.ToString(out.ETag),
		LastModified:  aws.ToTime(out.LastModified),
	}, nil
}

// normalizeKey strips leading slashes and rejects empty keys and parent
// directory segments.
func normalizeKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for part := range strings.SplitSeq(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
