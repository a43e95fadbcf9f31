package transport

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// MockTransport simulates a transport layer for testing.
// ExecuteFunc takes priority when set; otherwise canned Responses and
// Errors are matched exactly first, then by substring.
type MockTransport struct {
	mu          sync.Mutex
	ExecuteFunc func(ctx context.Context, cmd string) (string, error)
	Responses   map[string]string // Command -> Output
	Errors      map[string]error  // Command -> Error
	FileContent map[string]string // FilePath -> Content
	Commands    []string          // Record of executed commands
	Target      string
	Local       bool // reported by IsLocal
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		Responses:   make(map[string]string),
		Errors:      make(map[string]error),
		FileContent: make(map[string]string),
	}
}

// AddResponse registers a canned response for a command.
func (m *MockTransport) AddResponse(cmd, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[cmd] = output
}

// AddError registers a canned error for a command.
func (m *MockTransport) AddError(cmd string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[cmd] = err
}

func (m *MockTransport) Execute(ctx context.Context, cmd string) (string, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	fn := m.ExecuteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, cmd)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.Errors[cmd]; ok {
		return "", err
	}
	if output, ok := m.Responses[cmd]; ok {
		return output, nil
	}

	// Substring match so tests don't have to spell out full command lines.
	for k, err := range m.Errors {
		if strings.Contains(cmd, k) {
			return "", err
		}
	}
	for k, output := range m.Responses {
		if strings.Contains(cmd, k) {
			return output, nil
		}
	}

	return "", fmt.Errorf("mock: command not mocked: %s", cmd)
}

// AssertCalled reports whether any executed command contains the fragment.
func (m *MockTransport) AssertCalled(cmdFragment string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.Commands {
		if strings.Contains(call, cmdFragment) {
			return true
		}
	}
	return false
}

func (m *MockTransport) FileSystem() core.FileSystem {
	return &MockFileSystem{Content: m.FileContent}
}

func (m *MockTransport) Describe() string {
	if m.Target != "" {
		return m.Target
	}
	return "mock"
}

// IsLocal reports the configured locality so tests can exercise both paths.
func (m *MockTransport) IsLocal() bool { return m.Local }

func (m *MockTransport) Close() error { return nil }

// MockFileSystem implements core.FileSystem on an in-memory map.
type MockFileSystem struct {
	mu      sync.Mutex
	Content map[string]string
	Modes   map[string]os.FileMode
}

func (m *MockFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if content, ok := m.Content[name]; ok {
		return &mockFileInfo{name: name, size: int64(len(content))}, nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if content, ok := m.Content[name]; ok {
		return []byte(content), nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Content[name] = string(data)
	m.recordMode(name, perm)
	return nil
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error { return nil }

func (m *MockFileSystem) Chmod(name string, mode os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordMode(name, mode)
	return nil
}

func (m *MockFileSystem) recordMode(name string, mode os.FileMode) {
	if m.Modes == nil {
		m.Modes = make(map[string]os.FileMode)
	}
	m.Modes[name] = mode
}

func (m *MockFileSystem) Open(name string) (core.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if content, ok := m.Content[name]; ok {
		return newMockFile(m, name, []byte(content)), nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) Create(name string) (core.File, error) {
	return newMockFile(m, name, nil), nil
}

// MockFile implements core.File; writes land back in the filesystem map
// on Close so write-then-read tests behave like a real disk.
type MockFile struct {
	fs      *MockFileSystem
	name    string
	buffer  *bytes.Buffer
	reader  *bytes.Reader
	written bool
}

func newMockFile(fs *MockFileSystem, name string, data []byte) *MockFile {
	return &MockFile{
		fs:     fs,
		name:   name,
		buffer: &bytes.Buffer{},
		reader: bytes.NewReader(data),
	}
}

func (f *MockFile) Read(p []byte) (int, error) { return f.reader.Read(p) }

func (f *MockFile) Write(p []byte) (int, error) {
	f.written = true
	return f.buffer.Write(p)
}

func (f *MockFile) Close() error {
	if f.written {
		f.fs.mu.Lock()
		f.fs.Content[f.name] = f.buffer.String()
		f.fs.mu.Unlock()
	}
	return nil
}

func (f *MockFile) Stat() (fs.FileInfo, error) {
	return &mockFileInfo{name: f.name, size: int64(f.reader.Len())}, nil
}

type mockFileInfo struct {
	name string
	size int64
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return 0644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() interface{}   { return nil }
