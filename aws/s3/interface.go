package s3

import (
	"context"
	"io"
)

type BasicClient interface {
	BufferPutter
}

// BufferPutter can be used to put a file to S3 since File implements Read and Seek.
type BufferPutter interface {
	BufferPut(ctx context.Context, key string, buf io.ReadSeeker) (err error)
}
