package files

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
)

// Module wires the S3-backed product file store.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(p.Ctx, awsconfig.WithRegion(p.Config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if p.Config.FilesBucket == "" {
		p.Logger.Warn("FILES_BUCKET is not set, downloads will fail")
	}
	return NewS3Store(s3.NewFromConfig(awsCfg), p.Config.FilesBucket, p.Logger), nil
}
