package publicip

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// Makinenin dışarıdan görünen adresini echo servislerinden öğreniriz.
// Servisler sırayla denenir; ilk geçerli yanıt kazanır. Yanıt bir IP
// olarak parse edilemiyorsa o servis başarısız sayılır (bazı servisler
// hata durumunda HTML döndürür).

const maxBodySize = 256 // Bir IP adresi için fazlasıyla yeterli.

// Fetcher queries public-IP echo endpoints.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch tries each endpoint in order and returns the first response that
// parses as an IPv4 or IPv6 address. All failures are collected so the
// error names every endpoint that was tried.
func (f *Fetcher) Fetch(ctx context.Context, endpoints []string) (string, error) {
	if len(endpoints) == 0 {
		return "", fmt.Errorf("no public-ip endpoints configured")
	}

	var errs []string
	for _, endpoint := range endpoints {
		ip, err := f.fetchOne(ctx, endpoint)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", endpoint, err))
			continue
		}
		return ip, nil
	}
	return "", fmt.Errorf("all public-ip endpoints failed: %s", strings.Join(errs, "; "))
}

func (f *Fetcher) fetchOne(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("response %q is not an IP address", truncate(ip, 40))
	}
	return ip, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// FetchVia asks the echo endpoints from the target's own shell, so a
// remote host reports its address and not the controller's. curl is in
// the base package set and installed before this runs.
func FetchVia(ctx context.Context, tr core.Transport, endpoints []string, timeout time.Duration) (string, error) {
	if len(endpoints) == 0 {
		return "", fmt.Errorf("no public-ip endpoints configured")
	}

	secs := int(timeout.Seconds())
	if secs <= 0 {
		secs = 10
	}

	var errs []string
	for _, endpoint := range endpoints {
		out, err := tr.Execute(ctx, fmt.Sprintf("curl -fsS --max-time %d %s", secs, endpoint))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", endpoint, err))
			continue
		}
		ip := strings.TrimSpace(out)
		if net.ParseIP(ip) == nil {
			errs = append(errs, fmt.Sprintf("%s: response %q is not an IP address", endpoint, truncate(ip, 40)))
			continue
		}
		return ip, nil
	}
	return "", fmt.Errorf("all public-ip endpoints failed: %s", strings.Join(errs, "; "))
}
