package steps_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/steps"
	"github.com/melih-ucgun/bedrock/internal/transport"
)

func TestPublicIPStep_LocalTargetUsesHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "203.0.113.7")
	}))
	defer srv.Close()

	mock := transport.NewMockTransport()
	mock.Local = true

	step := steps.NewPublicIPStep(config.PublicIPConfig{
		Endpoints:  []string{srv.URL},
		File:       "~/projects/public-ip.txt",
		TimeoutSec: 2,
	})

	ctx := newTestCtx(mock)
	ctx.HomeDir = "/home/deploy"

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Message, "203.0.113.7")

	// Yerel hedefte curl çalıştırılmaz.
	assert.False(t, mock.AssertCalled("curl"))

	assert.Equal(t, "203.0.113.7\n", mock.FileContent["/home/deploy/projects/public-ip.txt"])

	ip, ok := ctx.Output(steps.OutPublicIP)
	require.True(t, ok)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestPublicIPStep_RemoteTargetUsesCurl(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddResponse("curl -fsS --max-time 2 https://checkip.amazonaws.com", "198.51.100.2\n")

	step := steps.NewPublicIPStep(config.PublicIPConfig{
		Endpoints:  []string{"https://checkip.amazonaws.com"},
		TimeoutSec: 2,
	})

	ctx := newTestCtx(mock)

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, mock.AssertCalled("curl -fsS"))

	ip, _ := ctx.Output(steps.OutPublicIP)
	assert.Equal(t, "198.51.100.2", ip)
}

func TestPublicIPStep_RemoteFallsThroughEndpoints(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddError("https://one.example", fmt.Errorf("timeout"))
	mock.AddResponse("https://two.example", "2001:db8::1\n")

	step := steps.NewPublicIPStep(config.PublicIPConfig{
		Endpoints:  []string{"https://one.example", "https://two.example"},
		TimeoutSec: 1,
	})

	ctx := newTestCtx(mock)
	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.Contains(t, res.Message, "2001:db8::1")
}

func TestPublicIPStep_GarbageResponseFailsStep(t *testing.T) {
	mock := transport.NewMockTransport()
	mock.AddResponse("curl", "<html>error</html>")

	step := steps.NewPublicIPStep(config.PublicIPConfig{
		Endpoints:  []string{"https://broken.example"},
		TimeoutSec: 1,
	})

	_, err := step.Apply(newTestCtx(mock))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an IP address")
}

func TestPublicIPStep_ValidateRequiresEndpoints(t *testing.T) {
	assert.Error(t, steps.NewPublicIPStep(config.PublicIPConfig{}).Validate())
}
