package imageio

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// DefaultUploadTimeout bounds a single object upload
const DefaultUploadTimeout = 30 * time.Second

// S3Config holds the settings of an S3 compatible bucket
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// ACL applied to uploaded objects, e.g. "public-read". Empty keeps the bucket default.
	ACL     string
	Timeout time.Duration
}

// Validate checks that the bucket can be addressed
func (c S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.Wrap(core.ErrInvalidArgument, "s3 bucket is required")
	}
	if c.Region == "" {
		return errors.Wrap(core.ErrInvalidArgument, "s3 region is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return errors.Wrap(core.ErrInvalidArgument, "s3 access key and secret key must be set together")
	}
	return nil
}

// S3Uploader stores encoded images in a bucket
type S3Uploader struct {
	client s3iface.S3API
	config S3Config
}

// NewS3Uploader opens a session against the configured endpoint. Static
// credentials are used when given, otherwise the default AWS chain applies.
func NewS3Uploader(config S3Config) (*S3Uploader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create s3 session")
	}
	return newS3UploaderWithClient(s3.New(sess), config), nil
}

func newS3UploaderWithClient(client s3iface.S3API, config S3Config) *S3Uploader {
	if config.Timeout <= 0 {
		config.Timeout = DefaultUploadTimeout
	}
	return &S3Uploader{client: client, config: config}
}

// Upload puts data under key and returns the object URL
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.config.Timeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
	if u.config.ACL != "" {
		input.ACL = aws.String(u.config.ACL)
	}

	if _, err := u.client.PutObjectWithContext(ctx, input); err != nil {
		return "", errors.Wrapf(err, "failed to upload %s to bucket %s", key, u.config.Bucket)
	}
	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.config.Endpoint != "" {
		return u.config.Endpoint + "/" + u.config.Bucket + "/" + key
	}
	return "https://" + u.config.Bucket + ".s3." + u.config.Region + ".amazonaws.com/" + key
}
