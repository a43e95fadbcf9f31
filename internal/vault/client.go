package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// ErrNotReady, hazırlık bütçesi tükendiğinde döner. Sabit sleep yerine
// sağlık ucuna karşı sınırlı sayıda yoklama yapılır.
var ErrNotReady = errors.New("vault did not become ready")

var errStillStarting = errors.New("vault not ready yet")

// APIAddr, konfigürasyondaki listen adresini API adresine çevirir.
// Dev mod TLS kullanmaz.
func APIAddr(listen string) string {
	if strings.HasPrefix(listen, "http://") || strings.HasPrefix(listen, "https://") {
		return listen
	}
	return "http://" + listen
}

func newClient(addr string) (*api.Client, error) {
	cfg := api.DefaultConfig()
	cfg.Address = addr
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client for %s: %w", addr, err)
	}
	return client, nil
}

// Ready performs a single health probe. Dev mode starts initialized and
// unsealed, so anything else means the server is still coming up.
func Ready(ctx context.Context, addr string) error {
	client, err := newClient(addr)
	if err != nil {
		return err
	}
	health, err := client.Sys().HealthWithContext(ctx)
	if err != nil {
		return err
	}
	if !health.Initialized {
		return fmt.Errorf("vault at %s is not initialized", addr)
	}
	if health.Sealed {
		return fmt.Errorf("vault at %s is sealed", addr)
	}
	return nil
}

// WaitReady polls the health endpoint with a bounded budget. Connection
// refused is expected while the server starts and is retried; budget
// exhaustion returns ErrNotReady.
func WaitReady(ctx context.Context, addr string, attempts int, delay time.Duration, clk clock.Clock, logger core.Logger) error {
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if err := Ready(ctx, addr); err != nil {
				return fmt.Errorf("%w: %v", errStillStarting, err)
			}
			return nil
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Debug(fmt.Sprintf("waiting for vault at %s (attempt %d): %v", addr, attempt, err))
		},
		Attempts: attempts,
		Delay:    delay,
		Clock:    clk,
		Stop:     ctx.Done(),
	})

	switch {
	case err == nil:
		return nil
	case retry.IsAttemptsExceeded(err):
		return fmt.Errorf("%w after %d attempts", ErrNotReady, attempts)
	case retry.IsRetryStopped(err):
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	default:
		return err
	}
}

// VerifyToken does a token self-lookup, the postcondition after the
// root token is scraped from the server output.
func VerifyToken(ctx context.Context, addr, token string) error {
	client, err := newClient(addr)
	if err != nil {
		return err
	}
	client.SetToken(token)

	secret, err := client.Auth().Token().LookupSelfWithContext(ctx)
	if err != nil {
		var respErr *api.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusForbidden {
			return fmt.Errorf("vault rejected the scraped root token: %w", err)
		}
		return fmt.Errorf("token self-lookup: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return fmt.Errorf("token self-lookup returned no data")
	}
	return nil
}
