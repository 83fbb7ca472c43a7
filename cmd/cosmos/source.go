package main

import (
	"context"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/cosmos/internal/config"
	"github.com/vango-dev/cosmos/internal/demo"
	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/preview"
)

// openSource returns the fixture source described by cfg. dir is non-nil
// only for directory sources, which can be watched.
func openSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (fixture.Source, *fixture.DirSource, error) {
	if cfg.UsesS3() {
		s3cfg := cfg.Fixtures.S3
		var opts []func(*awsconfig.LoadOptions) error
		if s3cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(s3cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, nil, errors.New("E203").WithSubject("s3://" + s3cfg.Bucket).Wrap(err)
		}
		logger.Debug("reading fixtures from s3", "bucket", s3cfg.Bucket, "prefix", s3cfg.Prefix)
		return fixture.NewS3Source(s3.NewFromConfig(awsCfg), s3cfg.Bucket, s3cfg.Prefix), nil, nil
	}

	logger.Debug("reading fixtures from directory", "dir", cfg.FixturesPath())
	dir := fixture.NewDirSource(cfg.FixturesPath(), fixture.WithLogger(logger))
	return dir, dir, nil
}

// newRegistry returns the components available to the CLI.
func newRegistry() *preview.Registry {
	reg := preview.NewRegistry()
	demo.Register(reg)
	return reg
}
