package sshkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// Keypair, diske yazılmış bir anahtar çiftini tanımlar.
type Keypair struct {
	PrivatePath string
	PublicPath  string
	Fingerprint string // SHA256:...
}

// Exists, private key dosyasının hedefte var olup olmadığını söyler.
// Varlık yeterlidir; içerik doğrulaması Fingerprint ile yapılır.
func Exists(fsys core.FileSystem, privatePath string) bool {
	return core.FileExists(fsys, privatePath)
}

// Generate creates a new ed25519 keypair and writes both halves through
// the filesystem abstraction. The private key is OpenSSH PEM with 0600,
// the public key is a single authorized_keys line.
func Generate(fsys core.FileSystem, privatePath, comment string) (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(privatePath), 0700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}
	if err := fsys.WriteFile(privatePath, pem.EncodeToMemory(block), 0600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	pubLine := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		pubLine += " " + comment
	}
	publicPath := privatePath + ".pub"
	if err := fsys.WriteFile(publicPath, []byte(pubLine+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("write public key: %w", err)
	}

	return &Keypair{
		PrivatePath: privatePath,
		PublicPath:  publicPath,
		Fingerprint: ssh.FingerprintSHA256(sshPub),
	}, nil
}

// Fingerprint, mevcut bir private key dosyasının SHA256 parmak izini
// döner. Tekrarlanan çalışmalarda anahtarın dönmediğini bununla
// doğruluyoruz.
func Fingerprint(fsys core.FileSystem, privatePath string) (string, error) {
	data, err := fsys.ReadFile(privatePath)
	if err != nil {
		return "", fmt.Errorf("read private key %s: %w", privatePath, err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return "", fmt.Errorf("parse private key %s: %w", privatePath, err)
	}
	return ssh.FingerprintSHA256(signer.PublicKey()), nil
}
