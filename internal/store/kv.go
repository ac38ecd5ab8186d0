// Package store persists user-taught categorization rules behind a small
// key-value abstraction.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"fjacquet/spendscope/internal/fileutils"
	"fjacquet/spendscope/internal/models"
	"fjacquet/spendscope/internal/parsererror"
)

// KeyValueStore is an opaque string-keyed state store.
type KeyValueStore interface {
	// Load returns the value for key. found is false when the key is absent.
	Load(key string) (value string, found bool, err error)
	Save(key, value string) error
	Delete(key string) error
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileKV stores each key in its own YAML file under Directory.
type FileKV struct {
	Directory string
}

// NewFileKV creates a FileKV rooted at dir.
func NewFileKV(dir string) *FileKV {
	return &FileKV{Directory: dir}
}

// DefaultDirectory returns $HOME/.config/spendscope, or ".spendscope" when
// the home directory cannot be resolved.
func DefaultDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".spendscope"
	}
	return filepath.Join(home, ".config", "spendscope")
}

// Path returns the file backing key.
func (f *FileKV) Path(key string) string {
	return filepath.Join(f.Directory, unsafeKeyChars.ReplaceAllString(key, "_")+".yaml")
}

func (f *FileKV) Load(key string) (string, bool, error) {
	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &parsererror.StoreError{Op: "load", Key: key, Err: err}
	}
	return string(data), true, nil
}

func (f *FileKV) Save(key, value string) error {
	if f.Directory == "" {
		return &parsererror.StoreError{Op: "save", Key: key, Err: fmt.Errorf("no store directory configured")}
	}
	if err := fileutils.WriteFileAtomic(f.Path(key), []byte(value), models.PermissionConfigFile); err != nil {
		return &parsererror.StoreError{Op: "save", Key: key, Err: err}
	}
	return nil
}

func (f *FileKV) Delete(key string) error {
	err := os.Remove(f.Path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &parsererror.StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}
