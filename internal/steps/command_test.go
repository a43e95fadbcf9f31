package steps_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/bedrock/internal/core"
	"github.com/melih-ucgun/bedrock/internal/steps"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

func newTestCtx(tr core.Transport) *core.RunContext {
	rc := core.NewRunContext(context.Background(), tr, false)
	rc.Logger.SetLevel(core.LevelError)
	return rc
}

func TestCommandStep_UnlessSkips(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddResponse("test -f /etc/done", "") // exit 0 -> zaten yapılmış

	step := steps.NewCommandStep("mark", "touch /etc/done", "test -f /etc/done")
	ctx := newTestCtx(mock)

	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	assert.True(t, satisfied)
	assert.False(t, mock.AssertCalled("touch"))
}

func TestCommandStep_AppliesAndRecordsOutput(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddError("test -f /etc/done", fmt.Errorf("exit 1"))
	mock.AddResponse("touch /etc/done", "created\n")

	step := steps.NewCommandStep("mark", "touch /etc/done", "test -f /etc/done")
	ctx := newTestCtx(mock)

	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	require.False(t, satisfied)

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "created\n", res.Output)
}

func TestCommandStep_TemplatesRenderAgainstContext(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddResponse("echo web-01", "web-01\n")

	step := steps.NewCommandStep("hostname", "echo {{ .Hostname }}", "")
	ctx := newTestCtx(mock)
	ctx.Hostname = "web-01"

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, mock.AssertCalled("echo web-01"))
}

func TestCommandStep_FailureIncludesOutput(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.ExecuteFunc = func(ctx context.Context, cmd string) (string, error) {
		return "permission denied", fmt.Errorf("exit 1")
	}

	step := steps.NewCommandStep("broken", "rm /etc/shadow", "")
	ctx := newTestCtx(mock)

	_, err := step.Apply(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCommandStep_ValidateRequiresCommand(t *testing.T) {
	step := steps.NewCommandStep("empty", "  ", "")
	assert.Error(t, step.Validate())
}
