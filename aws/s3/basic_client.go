package s3

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// NewBasicClient uses the default AWS credential chain.
// Set endpoint to use an S3 compatible store such as MinIO, which also switches to path style addressing.
func NewBasicClient(b AwsS3Bucket, endpoint string) (BasicClient, error) {
	awsConfig := aws.NewConfig().WithRegion(b.Region)
	if endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	return NewBasicClientWithAPI(b, s3.New(sess)), nil
}

func NewBasicClientWithAPI(b AwsS3Bucket, api s3iface.S3API) BasicClient {
	return &basicClient{
		bucket: b.Name,
		region: b.Region,
		prefix: b.Prefix,
		api:    api,
	}
}

type basicClient struct {
	region string
	bucket string
	prefix string
	api    s3iface.S3API
}

func (s *basicClient) BufferPut(ctx context.Context, key string, dataBuf io.ReadSeeker) error {
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
		Body:   dataBuf,
	})
	return err
}

func (s *basicClient) getKeyWithPrefix(key string) string {
	if s.prefix != "" {
		return strings.TrimRight(s.prefix, "/") + "/" + key // ensure trailing slash after prefix.
	}
	return key
}
