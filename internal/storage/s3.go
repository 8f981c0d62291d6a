package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/foodgram/backend/internal/platform/logger"
)

// ObjectPutter is the subset of the S3 client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads images to a bucket and returns their public URL.
type S3Store struct {
	client     ObjectPutter
	bucket     string
	publicBase string
	log        *logger.Logger
}

// NewS3Store initializes the S3 client from the default AWS credential chain.
func NewS3Store(ctx context.Context, bucket, region, publicBase string, log *logger.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(awsCfg), bucket, publicBase, log), nil
}

func NewS3StoreWithClient(client ObjectPutter, bucket, publicBase string, log *logger.Logger) *S3Store {
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3Store{client: client, bucket: bucket, publicBase: publicBase, log: log.With("component", "s3")}
}

func (s *S3Store) Save(ctx context.Context, prefix, dataURI string) (string, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key := objectKey(prefix, img)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	url := s.publicBase + "/" + key
	s.log.Debug("uploaded image", "key", key, "bytes", len(img.Data))
	return url, nil
}
