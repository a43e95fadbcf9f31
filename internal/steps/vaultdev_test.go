package steps_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/steps"
	"github.com/melih-ucgun/bedrock/internal/transport"
	"github.com/melih-ucgun/bedrock/internal/vault"
)

// stubVaultBinary, PATH'in başına sahte bir `vault` betiği ekler; gerçek
// sunucuyu httptest oynar.
func stubVaultBinary(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process supervision test needs a POSIX shell")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vault"), []byte("#!/bin/sh\n"+script+"\n"), 0755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// fakeVaultAPI, sağlık ve token lookup uçlarını taklit eder.
func fakeVaultAPI(t *testing.T, wantToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sys/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"initialized": true, "sealed": false, "standby": false,
		})
	})
	mux.HandleFunc("/v1/auth/token/lookup-self", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != wantToken {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{"errors": []string{"permission denied"}})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": wantToken, "policies": []string{"root"}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newVaultStep(t *testing.T, listenAddr string) (*steps.VaultDevStep, *transport.MockFileSystem, string) {
	t.Helper()
	dir := t.TempDir()
	fs := &transport.MockFileSystem{Content: map[string]string{}}

	step := steps.NewVaultDevStep(
		config.VaultConfig{
			ListenAddr:    listenAddr,
			TokenFile:     "~/projects/.vault-token",
			ReadyAttempts: 50,
			ReadyDelaySec: 0,
		},
		filepath.Join(dir, "vault-dev.log"),
		filepath.Join(dir, "vault-dev.pid"),
		"/home/deploy",
		clock.WallClock,
	)
	step.ReadyDelay = 20 * time.Millisecond
	step.LocalFS = fs
	return step, fs, dir
}

func TestVaultDevStep_ChecksForRunningServer(t *testing.T) {
	api := fakeVaultAPI(t, "hvs.TESTTOKEN")
	listen := strings.TrimPrefix(api.URL, "http://")

	step, fs, _ := newVaultStep(t, listen)
	ctx := newTestCtx(transport.NewMockTransport())

	// Sunucu hazır ama token dosyası yok: kazınamaz, hata.
	_, err := step.Check(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token file")

	// Token dosyası yerindeyse adım tatmin olmuştur.
	fs.Content["/home/deploy/projects/.vault-token"] = "hvs.TESTTOKEN\n"
	satisfied, err := step.Check(ctx)
	require.NoError(t, err)
	assert.True(t, satisfied)

	addr, _ := ctx.Output(steps.OutVaultAddr)
	assert.Equal(t, "http://"+listen, addr)
}

func TestVaultDevStep_CheckAppliesWhenNothingListens(t *testing.T) {
	step, _, _ := newVaultStep(t, "127.0.0.1:1") // kimse dinlemiyor

	satisfied, err := step.Check(newTestCtx(transport.NewMockTransport()))
	require.NoError(t, err)
	assert.False(t, satisfied)
}

func TestVaultDevStep_ApplyScrapesVerifiesAndDetaches(t *testing.T) {
	api := fakeVaultAPI(t, "hvs.TESTTOKEN")
	listen := strings.TrimPrefix(api.URL, "http://")

	stubVaultBinary(t, `echo "Root Token: hvs.TESTTOKEN"; exec sleep 30`)

	step, fs, dir := newVaultStep(t, listen)
	ctx := newTestCtx(transport.NewMockTransport())

	res, err := step.Apply(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	// Token 0600 ile yazılmış olmalı.
	assert.Equal(t, "hvs.TESTTOKEN\n", fs.Content["/home/deploy/projects/.vault-token"])
	assert.Equal(t, os.FileMode(0600), fs.Modes["/home/deploy/projects/.vault-token"])

	pidStr, ok := ctx.Output(steps.OutVaultPID)
	require.True(t, ok)
	pid, err := strconv.Atoi(pidStr)
	require.NoError(t, err)
	assert.Contains(t, fs.Content[filepath.Join(dir, "vault-dev.pid")], pidStr)

	tokenFile, _ := ctx.Output(steps.OutVaultTokenFile)
	assert.Equal(t, "/home/deploy/projects/.vault-token", tokenFile)

	// Detach edilen süreç yaşıyor; testten sleep artığı kalmasın.
	proc, err := os.FindProcess(pid)
	require.NoError(t, err)
	require.NoError(t, proc.Kill())
}

func TestVaultDevStep_PrematureExitStopsTheStep(t *testing.T) {
	api := fakeVaultAPI(t, "hvs.TESTTOKEN")
	listen := strings.TrimPrefix(api.URL, "http://")

	stubVaultBinary(t, `echo "Error initializing listener: address in use"; exit 1`)

	step, fs, _ := newVaultStep(t, listen)
	ctx := newTestCtx(transport.NewMockTransport())

	_, err := step.Apply(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, vault.ErrServerExited)

	// Token dosyası yazılmamış olmalı.
	_, exists := fs.Content["/home/deploy/projects/.vault-token"]
	assert.False(t, exists)
}

func TestVaultDevStep_RejectedTokenStopsTheServer(t *testing.T) {
	// API farklı bir token bekliyor: self-lookup 403 döner.
	api := fakeVaultAPI(t, "hvs.OTHERTOKEN")
	listen := strings.TrimPrefix(api.URL, "http://")

	stubVaultBinary(t, `echo "Root Token: hvs.TESTTOKEN"; exec sleep 30`)

	step, _, _ := newVaultStep(t, listen)
	ctx := newTestCtx(transport.NewMockTransport())

	_, err := step.Apply(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected the scraped root token")
}

func TestVaultDevStep_ValidateCatchesBadBudget(t *testing.T) {
	step := steps.NewVaultDevStep(
		config.VaultConfig{ListenAddr: "127.0.0.1:8200", TokenFile: "~/.vault-token"},
		"/tmp/log", "/tmp/pid", "/home/x", clock.WallClock,
	)
	assert.Error(t, step.Validate())
}
