package steps_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/state"
	"github.com/melih-ucgun/bedrock/internal/steps"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

// fakeBucketAPI, bucket adımının gördüğü S3 dilimini taklit eder.
type fakeBucketAPI struct {
	exists     bool
	versioning s3types.BucketVersioningStatus

	created    []string
	putCalled  bool
	lastBucket string
}

func (f *fakeBucketAPI) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.lastBucket = *params.Bucket
	if !f.exists {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeBucketAPI) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = append(f.created, *params.Bucket)
	f.exists = true
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeBucketAPI) GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	return &s3.GetBucketVersioningOutput{Status: f.versioning}, nil
}

func (f *fakeBucketAPI) PutBucketVersioning(ctx context.Context, params *s3.PutBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.PutBucketVersioningOutput, error) {
	f.putCalled = true
	f.versioning = s3types.BucketVersioningStatusEnabled
	return &s3.PutBucketVersioningOutput{}, nil
}

func newMemStore() (*state.Store, *transport.MockFileSystem) {
	fs := &transport.MockFileSystem{Content: map[string]string{}}
	return state.NewStore("/state", fs), fs
}

func backendCfg() config.BackendConfig {
	return config.BackendConfig{
		Region:       "us-east-1",
		BucketPrefix: "tfstate",
		LockTable:    "terraform-locks",
		StateKey:     "global/s3/terraform.tfstate",
		Encrypt:      true,
		PollAttempts: 3,
		PollDelaySec: 0,
	}
}

func TestBucketStep_CreatesAndPersistsGeneratedName(t *testing.T) {
	api := &fakeBucketAPI{}
	store, fs := newMemStore()
	step := steps.NewBucketStep(api, backendCfg(), store)

	ctx := newTestCtx(transport.NewMockTransport())

	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	require.False(t, satisfied)

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	require.Len(t, api.created, 1)
	name := api.created[0]
	assert.True(t, strings.HasPrefix(name, "tfstate-"), "generated name %q should carry the prefix", name)
	assert.True(t, api.putCalled, "versioning must be enabled on a fresh bucket")

	published, _ := ctx.Output(steps.OutBucket)
	assert.Equal(t, name, published)

	// Ad outputs.json'a işlenmiş olmalı.
	var doc struct {
		Values map[string]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(fs.Content["/state/outputs.json"]), &doc))
	assert.Equal(t, name, doc.Values[steps.OutBucket])

	require.NoError(t, step.Verify(ctx))
}

func TestBucketStep_ReusesPersistedName(t *testing.T) {
	store, fs := newMemStore()
	fs.Content["/state/outputs.json"] = `{"version":"1.0","values":{"bucket_name":"tfstate-cafe1234"}}`

	api := &fakeBucketAPI{exists: true, versioning: s3types.BucketVersioningStatusEnabled}
	step := steps.NewBucketStep(api, backendCfg(), store)

	ctx := newTestCtx(transport.NewMockTransport())
	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	assert.True(t, satisfied)

	assert.Equal(t, "tfstate-cafe1234", api.lastBucket)
	published, _ := ctx.Output(steps.OutBucket)
	assert.Equal(t, "tfstate-cafe1234", published)
	assert.Empty(t, api.created)
}

func TestBucketStep_FixedNameWinsOverStore(t *testing.T) {
	store, fs := newMemStore()
	fs.Content["/state/outputs.json"] = `{"version":"1.0","values":{"bucket_name":"tfstate-old"}}`

	cfg := backendCfg()
	cfg.Bucket = "company-terraform-state"

	api := &fakeBucketAPI{exists: true, versioning: s3types.BucketVersioningStatusEnabled}
	step := steps.NewBucketStep(api, cfg, store)

	satisfied, err := step.Check(newTestCtx(transport.NewMockTransport()))
	require.NoError(t, err)
	assert.True(t, satisfied)
	assert.Equal(t, "company-terraform-state", api.lastBucket)
}

func TestBucketStep_EnablesVersioningOnExistingBucket(t *testing.T) {
	cfg := backendCfg()
	cfg.Bucket = "tfstate-fixed"

	api := &fakeBucketAPI{exists: true, versioning: s3types.BucketVersioningStatusSuspended}
	store, _ := newMemStore()
	step := steps.NewBucketStep(api, cfg, store)

	ctx := newTestCtx(transport.NewMockTransport())

	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	require.False(t, satisfied, "suspended versioning is not a satisfied state")

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Message, "versioning enabled")
	assert.Empty(t, api.created)
	assert.True(t, api.putCalled)
}

func TestBucketStep_ValidateNeedsNameOrPrefix(t *testing.T) {
	cfg := backendCfg()
	cfg.Bucket = ""
	cfg.BucketPrefix = ""
	store, _ := newMemStore()

	step := steps.NewBucketStep(&fakeBucketAPI{}, cfg, store)
	assert.Error(t, step.Validate())
}
