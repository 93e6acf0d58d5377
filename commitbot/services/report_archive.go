package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ReportArchive writes sweep and settlement reports to S3-compatible
// object storage so the channel history is not the only record of them.
type ReportArchive struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewReportArchive(key, secret, region, bucket, prefix string) (*ReportArchive, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load archive config: %w", err)
	}

	return &ReportArchive{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Store uploads one report under reports/<name>.txt. Archive failures are
// for the caller to log; they must never block report delivery.
func (a *ReportArchive) Store(ctx context.Context, name, content string) error {
	key := fmt.Sprintf("reports/%s.txt", name)
	if a.prefix != "" {
		key = a.prefix + "/" + key
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        strings.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("uploading report %s: %w", key, err)
	}
	return nil
}
