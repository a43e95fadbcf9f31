package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/melih-ucgun/bedrock/internal/consts"
	"github.com/melih-ucgun/bedrock/internal/core"
)

// FileSystem defines the minimum operations the store needs. The core
// FileSystem satisfies it, so the store works over SFTP too.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// Store, ~/.bedrock altındaki kalıcı dosyaları yönetir: outputs.json
// (çalışmalar arası taşınan değerler) ve last-run.json (son raporun
// kaydı). Mutex eşzamanlı kayıtlara karşı korur.
type Store struct {
	Dir string
	FS  FileSystem
	mu  sync.Mutex
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, fsys FileSystem) *Store {
	return &Store{Dir: dir, FS: fsys}
}

// DefaultStore, lokal diskteki ~/.bedrock üzerinde bir store döner.
func DefaultStore() (*Store, error) {
	dir, err := consts.GetBedrockDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir, &core.RealFS{}), nil
}

func (s *Store) outputsPath() string { return filepath.Join(s.Dir, consts.OutputsFileName) }
func (s *Store) reportPath() string  { return filepath.Join(s.Dir, consts.LastRunFileName) }

// LoadOutputs reads the persisted outputs. A missing file is an empty
// document, not an error: the first run starts from nothing.
func (s *Store) LoadOutputs() (*Outputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOutputsLocked()
}

func (s *Store) loadOutputsLocked() (*Outputs, error) {
	data, err := s.FS.ReadFile(s.outputsPath())
	if err != nil {
		if isNotExist(err) {
			return NewOutputs(), nil
		}
		return nil, fmt.Errorf("read %s: %w", s.outputsPath(), err)
	}

	out := NewOutputs()
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.outputsPath(), err)
	}
	if out.Values == nil {
		out.Values = make(map[string]string)
	}
	return out, nil
}

// MergeOutputs, verilen değerleri mevcut dosyanın üzerine işler.
// Oku-birleştir-yaz tek kilit altında yapılır.
func (s *Store) MergeOutputs(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.loadOutputsLocked()
	if err != nil {
		return err
	}
	for k, v := range values {
		out.Values[k] = v
	}
	out.UpdatedAt = time.Now()

	return s.writeLocked(s.outputsPath(), out)
}

// SaveReport persists the run report as last-run.json.
func (s *Store) SaveReport(r *core.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(s.reportPath(), r)
}

// LastReport reads the most recent run report.
func (s *Store) LastReport() (*core.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.FS.ReadFile(s.reportPath())
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.reportPath(), err)
	}

	var report core.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.reportPath(), err)
	}
	return &report, nil
}

func (s *Store) writeLocked(path string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := s.FS.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create state dir %s: %w", s.Dir, err)
	}
	if err := s.FS.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, fs.ErrNotExist)
}
