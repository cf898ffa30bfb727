package imageio

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("upload without deadline")
	}
	f.input = input
	f.body, _ = io.ReadAll(input.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Config_Validate(t *testing.T) {
	valid := S3Config{Bucket: "renders", Region: "us-east-1"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		config S3Config
	}{
		{"no bucket", S3Config{Region: "us-east-1"}},
		{"no region", S3Config{Bucket: "renders"}},
		{"key without secret", S3Config{Bucket: "renders", Region: "us-east-1", AccessKey: "key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.config.Validate(), core.ErrInvalidArgument))
		})
	}
}

func TestS3Uploader_Upload(t *testing.T) {
	client := &fakeS3{}
	uploader := newS3UploaderWithClient(client, S3Config{
		Endpoint: "http://localhost:9000",
		Region:   "us-east-1",
		Bucket:   "renders",
		ACL:      "public-read",
	})

	url, err := uploader.Upload(context.Background(), "frames/a.png", []byte("pixels"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/renders/frames/a.png", url)

	require.NotNil(t, client.input)
	assert.Equal(t, "renders", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "frames/a.png", aws.StringValue(client.input.Key))
	assert.Equal(t, "image/png", aws.StringValue(client.input.ContentType))
	assert.Equal(t, "public-read", aws.StringValue(client.input.ACL))
	assert.Equal(t, int64(6), aws.Int64Value(client.input.ContentLength))
	assert.Equal(t, []byte("pixels"), client.body)
}

func TestS3Uploader_UploadError(t *testing.T) {
	client := &fakeS3{err: errors.New("access denied")}
	uploader := newS3UploaderWithClient(client, S3Config{Region: "eu-west-1", Bucket: "renders"})

	_, err := uploader.Upload(context.Background(), "a.bmp", []byte{1}, ContentType(FormatBMP))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Nil(t, client.input.ACL)
}

func TestS3Uploader_AWSURL(t *testing.T) {
	uploader := newS3UploaderWithClient(&fakeS3{}, S3Config{Region: "eu-west-1", Bucket: "renders"})
	assert.Equal(t, "https://renders.s3.eu-west-1.amazonaws.com/a.png", uploader.objectURL("a.png"))
}
