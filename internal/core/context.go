package core

import (
	"context"
	"os"
	"sync"
)

// Transport, hedef makine ile tüm iletişimi soyutlar. Yerel çalıştırma,
// SSH ve testlerdeki mock aynı arayüzün arkasındadır.
type Transport interface {
	// Execute, hedefte bir shell komutu çalıştırır ve birleşik
	// (stdout+stderr) çıktıyı döner.
	Execute(ctx context.Context, cmd string) (string, error)
	// FileSystem, hedefin dosya sistemine erişim sağlar.
	FileSystem() FileSystem
	// Describe, log satırlarında kullanılacak hedef adını döner
	// ("local" veya "user@host").
	Describe() string
	Close() error
}

// RunContext, bir pipeline çalışmasının bağlamını tutar. Standart Go
// "context" paketini sarmalar ve bedrock'a özel alanlar ekler.
type RunContext struct {
	context.Context

	// Hedef makine
	Transport Transport
	FS        FileSystem

	// İşletim Sistemi Bilgileri (system.Detect doldurur)
	OS         string // linux, darwin
	Distro     string // ubuntu, debian
	Version    string // 22.04, 12
	Hostname   string
	InitSystem string // systemd, openrc, sysvinit, unknown

	// Kullanıcı Bilgileri
	User    string
	HomeDir string

	// Çalışma Modu
	DryRun bool // true ise hiçbir değişiklik yapılmaz, sadece simüle edilir.

	Logger Logger
	UI     UI

	// Vars: konfigürasyondan gelen, template'lerde ve koşullarda
	// kullanılabilen değerler.
	Vars map[string]string

	// outputs: adımların aynı çalışma içinde yayınladığı değerler
	// (bucket adı, public IP, parmak izi...). Sonraki adımlar ve özet
	// raporu bunları okur.
	outputs map[string]string
	mu      sync.RWMutex
}

// NewRunContext, temel bir bağlam oluşturur. Transport nil ise adımlar
// komut çalıştıramaz; testler MockTransport enjekte eder.
func NewRunContext(ctx context.Context, tr Transport, dryRun bool) *RunContext {
	rc := &RunContext{
		Context: ctx,
		DryRun:  dryRun,
		User:    os.Getenv("USER"),
		HomeDir: os.Getenv("HOME"),
		Vars:    make(map[string]string),
		outputs: make(map[string]string),
		Logger:  NewDefaultLogger(os.Stderr, LevelInfo, FormatText),
		UI:      &NoOpUI{},
	}
	if tr != nil {
		rc.Transport = tr
		rc.FS = tr.FileSystem()
	}
	return rc
}

// SetOutput publishes a value produced by a step for later steps in the
// same run.
func (c *RunContext) SetOutput(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs[key] = value
}

// Output returns a previously published value.
func (c *RunContext) Output(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.outputs[key]
	return v, ok
}

// Outputs returns a copy of all published values.
func (c *RunContext) Outputs() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.outputs))
	for k, v := range c.outputs {
		out[k] = v
	}
	return out
}
