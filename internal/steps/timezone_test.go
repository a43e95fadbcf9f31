package steps_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/bedrock/internal/steps"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

func TestTimezoneStep_SatisfiedWhenCurrentMatches(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddResponse("timedatectl show -p Timezone --value", "Europe/Istanbul\n")

	step := steps.NewTimezoneStep("Europe/Istanbul")
	satisfied, err := step.Check(newTestCtx(mock))

	require.NoError(t, err)
	assert.True(t, satisfied)
}

func TestTimezoneStep_AppliesAndVerifies(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddResponse("timedatectl show -p Timezone --value", "UTC\n")
	mock.AddResponse("timedatectl set-timezone Europe/Istanbul", "")

	step := steps.NewTimezoneStep("Europe/Istanbul")
	ctx := newTestCtx(mock)

	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	require.False(t, satisfied)

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Message, "Europe/Istanbul")

	// Verify, ayarın ardından dilimi yeniden okur.
	mock.AddResponse("timedatectl show -p Timezone --value", "Europe/Istanbul\n")
	assert.NoError(t, step.Verify(ctx))
}

func TestTimezoneStep_FallsBackToEtcTimezone(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddError("timedatectl", fmt.Errorf("System has not been booted with systemd"))
	mock.FileContent["/etc/timezone"] = "UTC\n"

	step := steps.NewTimezoneStep("UTC")
	satisfied, err := step.Check(newTestCtx(mock))

	require.NoError(t, err)
	assert.True(t, satisfied)
}

func TestTimezoneStep_ValidateRejectsEmpty(t *testing.T) {
	assert.Error(t, steps.NewTimezoneStep(" ").Validate())
}
