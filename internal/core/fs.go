package core

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem abstracts the file operations steps need on the target,
// so the same step works over the local disk and over SFTP.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Chmod(name string, mode os.FileMode) error
	Open(name string) (File, error)
	Create(name string) (File, error)
}

// File is the minimal file handle the steps work with.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (fs.FileInfo, error)
}

// RealFS is the local-disk implementation using the os package.
type RealFS struct{}

func (f *RealFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (f *RealFS) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
func (f *RealFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}
func (f *RealFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (f *RealFS) Chmod(name string, mode os.FileMode) error    { return os.Chmod(name, mode) }
func (f *RealFS) Open(name string) (File, error)               { return os.Open(name) }
func (f *RealFS) Create(name string) (File, error)             { return os.Create(name) }

// FileExists, verilen yolun FS üzerinde mevcut olup olmadığını söyler.
func FileExists(fsys FileSystem, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// WriteFileWithDir, üst dizin yoksa oluşturur ve dosyayı yazar.
func WriteFileWithDir(fsys FileSystem, name string, data []byte, perm os.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	return fsys.WriteFile(name, data, perm)
}

// CopyFile, FS soyutlaması üzerinden bir dosyayı kopyalar ve hedef
// izinlerini ayarlar.
func CopyFile(fsys FileSystem, src, dst string, mode os.FileMode) error {
	sourceFile, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := fsys.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return fsys.Chmod(dst, mode)
}
