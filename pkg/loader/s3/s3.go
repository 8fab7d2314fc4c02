// Package s3 provides an S3-backed loader source.
package s3

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

// BucketSource loads file contents from an S3 bucket (or an
// S3-compatible store like MinIO) with per-key caching.
type BucketSource struct {
	bucket string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewBucketSourceWithClient creates a BucketSource around an existing
// s3.Client, for reuse of a preconfigured AWS client.
func NewBucketSourceWithClient(bucket string, client *s3.Client) *BucketSource {
	return &BucketSource{
		bucket: bucket,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// NewBucketSourceParams defines the configuration for creating a
// BucketSource. Endpoint overrides the S3 endpoint for S3-compatible
// storage.
type NewBucketSourceParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewBucketSource creates a BucketSource with static credentials and
// the given endpoint/region.
func NewBucketSource(ctx context.Context, params NewBucketSourceParams) (*BucketSource, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	return NewBucketSourceWithClient(params.Bucket, s3.NewFromConfig(cfg)), nil
}

// GetFileBytes retrieves the object stored under key from the bucket.
// Results are cached; concurrent requests for one key share one fetch.
func (s *BucketSource) GetFileBytes(ctx context.Context, key string) ([]byte, error) {
	s.cacheMu.RLock()
	if cached, ok := s.cache[key]; ok {
		s.cacheMu.RUnlock()
		return cached, nil
	}
	s.cacheMu.RUnlock()

	result, err, _ := s.group.Do(key, func() (any, error) {
		s.cacheMu.RLock()
		if cached, ok := s.cache[key]; ok {
			s.cacheMu.RUnlock()
			return cached, nil
		}
		s.cacheMu.RUnlock()

		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}
		raw := buf.Bytes()

		s.cacheMu.Lock()
		s.cache[key] = raw
		s.cacheMu.Unlock()

		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
