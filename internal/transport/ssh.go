package transport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
)

// SSHTransport, uzak sunucu ile tüm iletişimi yöneten yapıdır.
// Dosya işlemleri aynı bağlantı üzerinden SFTP ile yapılır.
type SSHTransport struct {
	client *ssh.Client
	sftp   *sftp.Client
	fs     core.FileSystem
	host   config.Host
}

// NewSSHTransport, verilen host konfigürasyonuna göre güvenli bir SSH bağlantısı açar.
func NewSSHTransport(h config.Host) (*SSHTransport, error) {
	var authMethods []ssh.AuthMethod

	// 1. Anahtar tabanlı yetkilendirme (varsa) önce denenir
	if h.KeyPath != "" {
		keyData, err := os.ReadFile(h.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("read private key %s: %w", h.KeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("parse private key %s: %w", h.KeyPath, err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}

	// 2. Şifre tabanlı yetkilendirme ekle
	if h.Password != "" {
		authMethods = append(authMethods, ssh.Password(h.Password))
	}

	if len(authMethods) == 0 {
		return nil, fmt.Errorf("host %s: no key_path or password configured", h.Name)
	}

	// 3. Known Hosts dosyasını bul (Genellikle ~/.ssh/known_hosts)
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	knownHostsPath := filepath.Join(homeDir, ".ssh", "known_hosts")

	// 4. Host Key Callback oluştur (Bağlanılan sunucuyu doğrular)
	hostKeyCallback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		// Eğer dosya yoksa güvenli olmayan bir fallback sunma
		return nil, fmt.Errorf("load known_hosts (%s): %w; connect once with plain ssh to record the host key", knownHostsPath, err)
	}

	clientConfig := &ssh.ClientConfig{
		User:            h.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         15 * time.Second,
	}

	port := h.Port
	if port == 0 {
		port = 22
	}

	addr := fmt.Sprintf("%s:%d", h.Address, port)
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: host key verification or connection failed: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("open sftp channel: %w", err)
	}

	return &SSHTransport{
		client: client,
		sftp:   sftpClient,
		fs:     NewSFTPFS(sftpClient),
		host:   h,
	}, nil
}

// Execute runs the command on the remote host. Cancelling the context
// closes the session, which unblocks a hung remote command.
func (t *SSHTransport) Execute(ctx context.Context, cmd string) (string, error) {
	session, err := t.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("new session: %w", err)
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		session.Close()
		<-done
		return out.String(), ctx.Err()
	case err := <-done:
		return out.String(), err
	}
}

func (t *SSHTransport) FileSystem() core.FileSystem { return t.fs }

func (t *SSHTransport) Describe() string {
	return fmt.Sprintf("%s@%s", t.host.User, t.host.Address)
}

// Close, SSH bağlantısını güvenli bir şekilde kapatır.
func (t *SSHTransport) Close() error {
	if t.sftp != nil {
		t.sftp.Close()
	}
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
