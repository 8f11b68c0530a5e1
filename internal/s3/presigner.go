package s3

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"blog-api/internal/config"
)

// FilePresigner hands out short-lived upload URLs so image bytes never pass
// through the API process.
type FilePresigner struct {
	S3PresignClient *s3.PresignClient
	BucketName      string
	PublicBaseURL   string
}

func NewFilePresigner(cfg *config.Config) (*FilePresigner, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               cfg.S3Endpoint,
			SigningRegion:     region,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)

	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &FilePresigner{
		S3PresignClient: s3.NewPresignClient(s3Client),
		BucketName:      cfg.S3Bucket,
		PublicBaseURL:   cfg.S3Endpoint,
	}, nil
}

func (p *FilePresigner) GeneratePresignedUploadURL(objectKey string) (string, error) {
	request, err := p.S3PresignClient.PresignPutObject(
		context.TODO(),
		&s3.PutObjectInput{
			Bucket: aws.String(p.BucketName),
			Key:    aws.String(objectKey),
		},
		func(opts *s3.PresignOptions) {
			opts.Expires = 15 * time.Minute
		},
	)

	if err != nil {
		return "", err
	}

	return request.URL, nil
}

// PublicURL is where the object will be readable once uploaded.
func (p *FilePresigner) PublicURL(objectKey string) string {
	return p.PublicBaseURL + "/" + p.BucketName + "/" + objectKey
}
