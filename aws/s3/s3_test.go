package s3

import (
	"bytes"
	"context"
	"io/ioutil"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// fakeS3 stores objects in memory. Methods not overridden panic via the nil embedded interface.
type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	b, err := ioutil.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func TestParseDSN(t *testing.T) {
	b, err := ParseDSN("s3://my-bucket/exports/houses/", "eu-west-1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "my-bucket" || b.Prefix != "exports/houses" || b.Region != "eu-west-1" {
		t.Fatalf("unexpected bucket %+v", b)
	}
	if b.String() != "s3://my-bucket/exports/houses" {
		t.Fatalf("unexpected string %v", b.String())
	}
	b, err = ParseDSN("my-bucket", "eu-west-1")
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "my-bucket" || b.Prefix != "" {
		t.Fatalf("unexpected bucket %+v", b)
	}
	if _, err = ParseDSN("gs://bucket", "eu-west-1"); err == nil {
		t.Fatal("expected error for wrong scheme")
	}
	if _, err = ParseDSN("s3://bucket", ""); err == nil {
		t.Fatal("expected error for missing region")
	}
}

func TestBasicClient(t *testing.T) {
	ctx := context.Background()
	api := &fakeS3{objects: make(map[string][]byte)}
	c := NewBasicClientWithAPI(AwsS3Bucket{Name: "b", Prefix: "runs/", Region: "eu-west-1"}, api)
	if err := c.BufferPut(ctx, "a.tsv", bytes.NewReader([]byte("data"))); err != nil {
		t.Fatal(err)
	}
	got, ok := api.objects["b/runs/a.tsv"]
	if !ok {
		t.Fatalf("expected key with prefix; got %v", api.objects)
	}
	if string(got) != "data" {
		t.Fatalf("unexpected data %q", got)
	}
	// No prefix.
	c = NewBasicClientWithAPI(AwsS3Bucket{Name: "b", Region: "eu-west-1"}, api)
	if err := c.BufferPut(ctx, "c.tsv", bytes.NewReader(nil)); err != nil {
		t.Fatal(err)
	}
	if _, ok = api.objects["b/c.tsv"]; !ok {
		t.Fatalf("expected key without prefix; got %v", api.objects)
	}
}
