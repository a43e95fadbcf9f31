package cloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// BucketAPI is the slice of the S3 client the bucket step needs.
// Tests implement it with a fake; production passes *s3.Client.
type BucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	PutBucketVersioning(ctx context.Context, params *s3.PutBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.PutBucketVersioningOutput, error)
}

// BucketExists, bucket'ın var olup olmadığını HeadBucket ile kontrol eder.
// Head yanıtlarının gövdesi olmadığından hata her zaman *types.NotFound
// olarak modellenmez; jenerik API hatasının koduna da bakılır.
func BucketExists(ctx context.Context, api BucketAPI, name string) (bool, error) {
	_, err := api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "NotFound", "NoSuchBucket":
				return false, nil
			}
		}
		return false, fmt.Errorf("head bucket %s: %w", name, err)
	}
	return true, nil
}

// EnsureBucket creates the bucket if needed. A bucket we already own is
// a skip, not an error; a name owned by someone else is fatal.
func EnsureBucket(ctx context.Context, api BucketAPI, name, region string) (bool, error) {
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	// us-east-1 is the API default and rejects an explicit constraint.
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	_, err := api.CreateBucket(ctx, input)
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return false, nil
		}
		var taken *types.BucketAlreadyExists
		if errors.As(err, &taken) {
			return false, fmt.Errorf("bucket name %s is taken by another account", name)
		}
		return false, fmt.Errorf("create bucket %s: %w", name, err)
	}
	return true, nil
}

// VersioningEnabled reports whether versioning is already on.
func VersioningEnabled(ctx context.Context, api BucketAPI, name string) (bool, error) {
	out, err := api.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(name)})
	if err != nil {
		return false, fmt.Errorf("get bucket versioning %s: %w", name, err)
	}
	return out.Status == types.BucketVersioningStatusEnabled, nil
}

// EnableVersioning turns versioning on; returns false when it already was.
func EnableVersioning(ctx context.Context, api BucketAPI, name string) (bool, error) {
	enabled, err := VersioningEnabled(ctx, api, name)
	if err != nil {
		return false, err
	}
	if enabled {
		return false, nil
	}

	_, err = api.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(name),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	})
	if err != nil {
		return false, fmt.Errorf("enable versioning on %s: %w", name, err)
	}
	return true, nil
}
