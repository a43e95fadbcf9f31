package transport

import (
	"io"
	"io/fs"
	"os"

	"github.com/pkg/sftp"

	"github.com/melih-ucgun/bedrock/internal/core"
)

// SFTPFS implements core.FileSystem over an SFTP connection.
type SFTPFS struct {
	client *sftp.Client
}

func NewSFTPFS(client *sftp.Client) *SFTPFS {
	return &SFTPFS{client: client}
}

func (s *SFTPFS) Stat(name string) (fs.FileInfo, error) {
	return s.client.Stat(name)
}

func (s *SFTPFS) ReadFile(name string) ([]byte, error) {
	f, err := s.client.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *SFTPFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	f, err := s.client.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return s.client.Chmod(name, perm)
}

func (s *SFTPFS) MkdirAll(path string, perm os.FileMode) error {
	// sftp MkdirAll ignores perm; directories get server defaults.
	return s.client.MkdirAll(path)
}

func (s *SFTPFS) Chmod(name string, mode os.FileMode) error {
	return s.client.Chmod(name, mode)
}

func (s *SFTPFS) Open(name string) (core.File, error) {
	f, err := s.client.Open(name)
	if err != nil {
		return nil, err
	}
	return &SFTPFile{File: f}, nil
}

func (s *SFTPFS) Create(name string) (core.File, error) {
	f, err := s.client.Create(name)
	if err != nil {
		return nil, err
	}
	return &SFTPFile{File: f}, nil
}

// SFTPFile wraps *sftp.File to satisfy core.File.
type SFTPFile struct {
	*sftp.File
}

func (f *SFTPFile) Stat() (fs.FileInfo, error) {
	return f.File.Stat()
}
