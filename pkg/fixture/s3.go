package fixture

import (
	"context"
	stderrors "errors"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/cosmos/internal/errors"
)

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source loads fixtures stored as objects under a bucket prefix.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := fixture.NewS3Source(s3.NewFromConfig(cfg), "design-fixtures", "cosmos/")
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source creates a source reading objects from bucket under prefix.
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// List implements Source.
func (s *S3Source) List(ctx context.Context) ([]string, error) {
	var names []string
	seen := make(map[string]bool)

	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}
	for {
		out, err := s.client.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, errors.New("E203").WithSubject("s3://" + s.bucket + "/" + s.prefix).Wrap(err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, s.prefix)
			// Only direct children of the prefix.
			if rel == "" || strings.Contains(rel, "/") || !IsFixtureFile(rel) {
				continue
			}
			name := NameFromPath(rel)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		in.ContinuationToken = out.NextContinuationToken
	}

	sort.Strings(names)
	return names, nil
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context, name string) (Named, error) {
	for _, ext := range Extensions {
		key := path.Join(s.prefix, name+ext)
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var nsk *types.NoSuchKey
			if stderrors.As(err, &nsk) {
				continue
			}
			return Named{}, errors.New("E203").WithSubject("s3://" + s.bucket + "/" + key).Wrap(err)
		}

		data, err := io.ReadAll(out.Body)
		out.Body.Close()
		if err != nil {
			return Named{}, errors.New("E203").WithSubject("s3://" + s.bucket + "/" + key).Wrap(err)
		}
		return Decode(name, ext, data)
	}
	return Named{}, errors.New("E200").WithSubject(name)
}
