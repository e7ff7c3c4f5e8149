package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// RemoteStore lets a session file be pushed to and pulled from a
// shared location by key, so a graph built on one machine can be
// picked up elsewhere instead of passed around as a local path.
type RemoteStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// COSConfig configures a Tencent Cloud COS-backed RemoteStore.
//
// Grounded on junjiewwang-perf-analysis/internal/storage/cos.go's
// COSConfig/NewCOSStorage, which is itself the only COS client
// construction pattern present anywhere in the example pack.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string
	Scheme    string
}

// COSStore is a RemoteStore backed by Tencent Cloud Object Storage.
type COSStore struct {
	client *cos.Client
	bucket string
	region string
	domain string
	scheme string
}

// NewCOSStore builds a COSStore from cfg, defaulting Domain to
// "myqcloud.com" and Scheme to "https" when left blank.
func NewCOSStore(cfg COSConfig) (*COSStore, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("session: COS bucket and region are required")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("session: COS credentials are required")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, fmt.Errorf("session: parsing COS bucket URL: %w", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, fmt.Errorf("session: parsing COS service URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSStore{client: client, bucket: cfg.Bucket, region: cfg.Region, domain: domain, scheme: scheme}, nil
}

// Put uploads data under key, overwriting any existing object.
func (s *COSStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.Object.Put(ctx, key, bytes.NewReader(data), nil)
	if err != nil {
		return fmt.Errorf("session: uploading %s to COS: %w", key, err)
	}
	return nil
}

// Get downloads the object stored under key.
func (s *COSStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("session: downloading %s from COS: %w", key, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("session: reading %s from COS: %w", key, err)
	}
	return data, nil
}

// URL returns the object's public URL under this store's bucket.
func (s *COSStore) URL(key string) string {
	return fmt.Sprintf("%s://%s.cos.%s.%s/%s", s.scheme, s.bucket, s.region, s.domain, key)
}
