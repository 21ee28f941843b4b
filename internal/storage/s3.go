package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"imageshare/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// objectStore carries the S3 mechanics shared by both providers.
type objectStore struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	provider  string
	publicURL string
}

func newObjectStore(region, accessKey, secretKey, bucket, endpoint, provider, publicURL string) (*objectStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &objectStore{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    bucket,
		provider:  provider,
		publicURL: publicURL,
	}, nil
}

func (o *objectStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func (o *objectStore) Delete(ctx context.Context, key string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func (o *objectStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := o.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", key, err)
	}
	return req.URL, nil
}

func (o *objectStore) PublicURL(key string) string {
	return o.publicURL + "/" + key
}

func (o *objectStore) Provider() string {
	return o.provider
}

// awsStorage targets plain AWS S3.
type awsStorage struct {
	*objectStore
}

func newAWSStorage(sc config.StorageConfig) (*awsStorage, error) {
	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", sc.AWSBucket, sc.AWSRegion)
	store, err := newObjectStore(sc.AWSRegion, sc.AWSAccessKeyID, sc.AWSSecretAccessKey,
		sc.AWSBucket, "", config.ProviderAWSS3, publicURL)
	if err != nil {
		return nil, err
	}
	return &awsStorage{objectStore: store}, nil
}

// r2Storage targets Cloudflare R2, optionally fronted by a custom
// (CDN) domain for public reads.
type r2Storage struct {
	*objectStore
}

func newR2Storage(sc config.StorageConfig) (*r2Storage, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", sc.R2AccountID)
	publicURL := sc.R2CustomDomain
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.%s.r2.cloudflarestorage.com", sc.R2Bucket, sc.R2AccountID)
	}
	store, err := newObjectStore("auto", sc.R2AccessKeyID, sc.R2SecretAccessKey,
		sc.R2Bucket, endpoint, config.ProviderCloudflareR2, publicURL)
	if err != nil {
		return nil, err
	}
	return &r2Storage{objectStore: store}, nil
}
