package storage

import (
	"bytes"
	"context"
	"fmt"

	"evidence-hand/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client erstellt einen S3-Client für die Raw-JSON-Ablage.
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.RawS3URL,
				SigningRegion:     cfg.RawS3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.RawS3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.RawS3Key, cfg.RawS3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// UploadRawJSON legt den Original-Payload eines Dokuments als Provenance-Objekt
// ab und gibt den Link zurück (landet in documents.raw_json_path).
func UploadRawJSON(ctx context.Context, client *s3.Client, cfg *config.Config, key string, data []byte) (string, error) {
	contentType := "application/json"
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &cfg.RawS3Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", cfg.RawS3URL, cfg.RawS3Bucket, key), nil
}
