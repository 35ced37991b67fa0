package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/imamik/stackplan/internal/util/retry"
)

// Options configures NewClient. Empty credentials fall back to the default
// AWS credential chain; an empty endpoint uses the AWS endpoint for Region.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PathStyle bool

	// RetryMaxAttempts is the total number of attempts per call, the first
	// included. RetryMaxAttempts and RetryInitialDelay tune
	// retry.WithExponentialBackoff; zero values keep the retry package
	// defaults.
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// Client wraps the S3 API with retries.
type Client struct {
	s3        *s3.Client
	region    string
	retryOpts []retry.Option
}

// NewClient creates a new S3 client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
		// Retries are handled by retry.WithExponentialBackoff.
		o.RetryMaxAttempts = 1
	})

	var retryOpts []retry.Option
	if opts.RetryMaxAttempts > 0 {
		retryOpts = append(retryOpts, retry.WithMaxRetries(opts.RetryMaxAttempts-1))
	}
	if opts.RetryInitialDelay > 0 {
		retryOpts = append(retryOpts, retry.WithInitialDelay(opts.RetryInitialDelay))
	}

	return &Client{s3: client, region: opts.Region, retryOpts: retryOpts}, nil
}

// Region returns the configured region.
func (c *Client) Region() string {
	return c.region
}

func (c *Client) retryOptions(op string) []retry.Option {
	return append([]retry.Option{retry.WithOperation(op)}, c.retryOpts...)
}

// classify marks client errors as fatal so they are not retried.
func classify(err error) error {
	if isNotFoundError(err) || isClientError(err) {
		return retry.Fatal(err)
	}
	return err
}

// ListObjects lists every key in a bucket under prefix, following
// continuation tokens.
func (c *Client) ListObjects(ctx context.Context, bucketName, prefix string) ([]string, error) {
	return retry.Value(ctx, func() ([]string, error) {
		input := &s3.ListObjectsV2Input{
			Bucket: aws.String(bucketName),
		}
		if prefix != "" {
			input.Prefix = aws.String(prefix)
		}

		var keys []string
		paginator := s3.NewListObjectsV2Paginator(c.s3, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, classify(fmt.Errorf("failed to list objects in bucket %s: %w", bucketName, err))
			}
			for _, obj := range page.Contents {
				if obj.Key != nil {
					keys = append(keys, *obj.Key)
				}
			}
		}
		return keys, nil
	}, c.retryOptions("list objects")...)
}

// PutObject uploads an object to a bucket.
func (c *Client) PutObject(ctx context.Context, bucketName, key string, data []byte) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucketName),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		if err != nil {
			return classify(fmt.Errorf("failed to put object %s in bucket %s: %w", key, bucketName, err))
		}
		return nil
	}, c.retryOptions("put object")...)
}

// GetObject downloads an object from a bucket.
func (c *Client) GetObject(ctx context.Context, bucketName, key string) ([]byte, error) {
	return retry.Value(ctx, func() ([]byte, error) {
		result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucketName),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, classify(fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucketName, err))
		}
		defer result.Body.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(result.Body); err != nil {
			return nil, fmt.Errorf("failed to read object body: %w", err)
		}
		return buf.Bytes(), nil
	}, c.retryOptions("get object")...)
}

// ObjectExists reports whether key exists in the bucket.
func (c *Client) ObjectExists(ctx context.Context, bucketName, key string) (bool, error) {
	return retry.Value(ctx, func() (bool, error) {
		_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucketName),
			Key:    aws.String(key),
		})
		if err != nil {
			if isNotFoundError(err) {
				return false, nil
			}
			return false, classify(fmt.Errorf("failed to check object %s in bucket %s: %w", key, bucketName, err))
		}
		return true, nil
	}, c.retryOptions("head object")...)
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// S3-compatible services do not always return the SDK's typed errors.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "NoSuchBucket" || code == "404"
	}

	return false
}

// isClientError reports a 4xx response other than throttling.
func isClientError(err error) bool {
	var respErr *smithyhttp.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	status := respErr.HTTPStatusCode()
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout
}
