package steps_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/steps"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

func renderCtx(tr core.Transport) *core.RunContext {
	ctx := newTestCtx(tr)
	ctx.SetOutput(steps.OutBucket, "tfstate-cafe1234")
	ctx.SetOutput(steps.OutLockTable, "terraform-locks")
	return ctx
}

func TestRenderBackendStep_PrintsBlockToStdout(t *testing.T) {
	var out bytes.Buffer
	step := steps.NewRenderBackendStep(backendCfg(), &out, "/home/deploy")

	ctx := renderCtx(transport.NewMockTransport())

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.False(t, res.Changed, "stdout-only render does not change the system")

	text := out.String()
	assert.Contains(t, text, `backend "s3"`)
	assert.Contains(t, text, `bucket         = "tfstate-cafe1234"`)
	assert.Contains(t, text, `key            = "global/s3/terraform.tfstate"`)
	assert.Contains(t, text, `region         = "us-east-1"`)
	assert.Contains(t, text, `dynamodb_table = "terraform-locks"`)
	assert.Contains(t, text, `encrypt        = true`)
}

func TestRenderBackendStep_MissingOutputsFail(t *testing.T) {
	var out bytes.Buffer
	step := steps.NewRenderBackendStep(backendCfg(), &out, "/home/deploy")

	ctx := newTestCtx(transport.NewMockTransport())
	ctx.SetOutput(steps.OutBucket, "tfstate-cafe1234") // kilit tablosu eksik

	_, err := step.Apply(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock table")
}

func TestRenderBackendStep_WritesAndBecomesSatisfied(t *testing.T) {
	cfg := backendCfg()
	cfg.ConfigPath = "~/infra/backend.tf"

	var out bytes.Buffer
	step := steps.NewRenderBackendStep(cfg, &out, "/home/deploy")
	fs := &transport.MockFileSystem{Content: map[string]string{}}
	step.LocalFS = fs

	ctx := renderCtx(transport.NewMockTransport())

	// İlk geçiş dosyayı yazar.
	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	require.False(t, satisfied)

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	written := fs.Content["/home/deploy/infra/backend.tf"]
	assert.Contains(t, written, `bucket         = "tfstate-cafe1234"`)

	// İkinci geçişte içerik aynı: adım tatmin olur, blok yine basılır.
	out.Reset()
	satisfied, err = step.Check(ctx)
	require.NoError(t, err)
	assert.True(t, satisfied)
	assert.Contains(t, out.String(), `backend "s3"`)
}

func TestRenderBackendStep_RewritesDriftedFile(t *testing.T) {
	cfg := backendCfg()
	cfg.ConfigPath = "~/infra/backend.tf"

	var out bytes.Buffer
	step := steps.NewRenderBackendStep(cfg, &out, "/home/deploy")
	fs := &transport.MockFileSystem{Content: map[string]string{
		"/home/deploy/infra/backend.tf": "terraform {}\n",
	}}
	step.LocalFS = fs

	ctx := renderCtx(transport.NewMockTransport())

	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	require.False(t, satisfied)

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, strings.Contains(res.Message, "backend.tf"))

	written := fs.Content["/home/deploy/infra/backend.tf"]
	assert.Contains(t, written, "terraform-locks")
	assert.NotEqual(t, "terraform {}\n", written)
}

func TestRenderBackendStep_ValidateRequiresStateKey(t *testing.T) {
	cfg := backendCfg()
	cfg.StateKey = ""
	var out bytes.Buffer
	assert.Error(t, steps.NewRenderBackendStep(cfg, &out, "/home").Validate())
}
