package actions

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/aws/s3"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
)

// PublishConfig controls the optional copy of output files to S3.
type PublishConfig struct {
	S3Url      string `json:"s3Url,omitempty"`
	S3Region   string `json:"s3Region,omitempty"`
	S3Endpoint string `json:"s3Endpoint,omitempty"`
}

// Enabled is true if an S3 URL has been supplied.
func (p PublishConfig) Enabled() bool {
	return p.S3Url != ""
}

// NewPublisher returns an S3 client for cfg. The region falls back to AWS_REGION.
func NewPublisher(cfg PublishConfig) (s3.BasicClient, error) {
	region := cfg.S3Region
	if region == "" {
		region = helper.ReadValueFromEnvWithDefault(constants.EnvVarAwsRegion, "")
	}
	b, err := s3.ParseDSN(cfg.S3Url, region)
	if err != nil {
		return nil, err
	}
	return s3.NewBasicClient(b, cfg.S3Endpoint)
}

// RunPublish uploads each file under a key made of the run time and the file's base name.
// It returns the keys written.
func RunPublish(ctx context.Context, log logger.Logger, client s3.BasicClient, runTime time.Time, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	folder := runTime.UTC().Format(constants.TimeFormatYearSeconds)
	for _, name := range files {
		if name == "" {
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			return keys, errors.Wrap(err, "unable to open file to publish")
		}
		key := folder + "/" + filepath.Base(name)
		err = client.BufferPut(ctx, key, f)
		_ = f.Close()
		if err != nil {
			return keys, errors.Wrapf(err, "unable to publish %v", name)
		}
		log.Info("Published ", name, " to key ", key)
		keys = append(keys, key)
	}
	return keys, nil
}
