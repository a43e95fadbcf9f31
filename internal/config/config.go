package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile, --config verilmediğinde aranan dosya adıdır.
const DefaultConfigFile = "bedrock.yaml"

// StepConfig, YAML'dan okunan ham adım tanımıdır (extra_steps).
// Factory bu yapıyı kullanarak gerçek Step nesnelerini üretir.
type StepConfig struct {
	Name   string                 `yaml:"name"`
	Kind   string                 `yaml:"kind"`
	When   string                 `yaml:"when"`
	Params map[string]interface{} `yaml:"params"`
}

type Host struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	User     string `yaml:"user"`
	Port     int    `yaml:"port"`
	KeyPath  string `yaml:"key_path"`
	Password string `yaml:"password"`
}

// SSHKeyConfig, bootstrap'in ürettiği anahtar çiftini tanımlar.
type SSHKeyConfig struct {
	Path    string `yaml:"path"`     // private key; public key "<path>.pub"
	Comment string `yaml:"comment"`  // boşsa user@hostname kullanılır
	CopyDir string `yaml:"copy_dir"` // boş değilse anahtar buraya da kopyalanır
}

type PublicIPConfig struct {
	Endpoints  []string `yaml:"endpoints"` // sırayla denenir, ilk geçerli yanıt kazanır
	File       string   `yaml:"file"`
	TimeoutSec int      `yaml:"timeout_sec"`
}

// BackendConfig, Terraform remote-state backend'i için gereken her şeyi tutar.
type BackendConfig struct {
	Region       string `yaml:"region"`
	Bucket       string `yaml:"bucket"`        // boşsa prefix + rastgele sonek üretilir
	BucketPrefix string `yaml:"bucket_prefix"` // üretilen adların öneki
	LockTable    string `yaml:"lock_table"`
	StateKey     string `yaml:"state_key"`
	Encrypt      bool   `yaml:"encrypt"`
	PollAttempts int    `yaml:"poll_attempts"`
	PollDelaySec int    `yaml:"poll_delay_sec"`
	ConfigPath   string `yaml:"config_path"` // boş değilse render edilen blok buraya yazılır

	// Statik kimlik bilgileri. Boş bırakılırsa SDK'nın varsayılan
	// zinciri (env, ~/.aws/credentials, instance profile) devreye girer.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type VaultConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	TokenFile     string `yaml:"token_file"`
	ReadyAttempts int    `yaml:"ready_attempts"`
	ReadyDelaySec int    `yaml:"ready_delay_sec"`
}

type Config struct {
	Vars       map[string]string `yaml:"vars"`
	Timezone   string            `yaml:"timezone"`
	Upgrade    bool              `yaml:"upgrade"` // true ise pkg-update tam yükseltme de yapar
	Packages   []string          `yaml:"packages"`
	SSHKey     SSHKeyConfig      `yaml:"ssh_key"`
	PublicIP   PublicIPConfig    `yaml:"public_ip"`
	Backend    BackendConfig     `yaml:"backend"`
	Vault      VaultConfig       `yaml:"vault"`
	Hosts      []Host            `yaml:"hosts"`
	ExtraSteps []StepConfig      `yaml:"extra_steps"`
}

// DefaultConfig, konfigürasyon dosyası olmadan da çalışan varsayılanları döner.
func DefaultConfig() *Config {
	return &Config{
		Vars:     map[string]string{},
		Timezone: "UTC",
		Packages: []string{
			"git", "curl", "wget", "unzip", "zip", "vim",
			"htop", "tmux", "jq", "tree", "net-tools", "build-essential",
		},
		SSHKey: SSHKeyConfig{
			Path:    "~/.ssh/id_ed25519",
			CopyDir: "~/projects/keys",
		},
		PublicIP: PublicIPConfig{
			Endpoints: []string{
				"https://checkip.amazonaws.com",
				"https://ifconfig.me/ip",
			},
			File:       "~/projects/public-ip.txt",
			TimeoutSec: 10,
		},
		Backend: BackendConfig{
			Region:       "us-east-1",
			BucketPrefix: "tfstate",
			LockTable:    "terraform-locks",
			StateKey:     "global/s3/terraform.tfstate",
			Encrypt:      true,
			PollAttempts: 30,
			PollDelaySec: 2,
		},
		Vault: VaultConfig{
			ListenAddr:    "127.0.0.1:8200",
			TokenFile:     "~/projects/.vault-token",
			ReadyAttempts: 30,
			ReadyDelaySec: 1,
		},
	}
}

// LoadConfig, YAML dosyasını varsayılanların üzerine okur. path boşsa
// çalışma dizinindeki bedrock.yaml aranır; o da yoksa saf varsayılanlar
// döner. Açıkça verilen bir dosyanın eksik olması ise hatadır.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigFile
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FindHost, isimle eşleşen host tanımını döner.
func (c *Config) FindHost(name string) (Host, error) {
	for _, h := range c.Hosts {
		if h.Name == name {
			return h, nil
		}
	}
	return Host{}, fmt.Errorf("host %q not defined in config", name)
}

// PollDelay returns the lock-table poll interval as a duration.
func (b BackendConfig) PollDelay() time.Duration {
	return time.Duration(b.PollDelaySec) * time.Second
}

// ReadyDelay returns the readiness probe interval as a duration.
func (v VaultConfig) ReadyDelay() time.Duration {
	return time.Duration(v.ReadyDelaySec) * time.Second
}

// ExpandPath, "~" önekini verilen home dizini ile değiştirir. Yollar
// hedef makinede çözüldüğü için os.UserHomeDir değil hedefin $HOME'u
// kullanılır.
func ExpandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
