// Package file is the default device storage: one file per key inside a
// private directory, optionally sealed with NaCl secretbox under a key
// derived from a passphrase.
package file

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

const (
	saltFile  = ".salt"
	saltSize  = 16
	nonceSize = 24

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// ErrSealed is returned when a stored value cannot be opened with the
// configured passphrase.
var ErrSealed = errors.New("stored value cannot be decrypted")

// Options configures a Store.
type Options struct {
	Dir        string
	Passphrase string
}

// Store is a ports.KeyValueStore over a directory.
type Store struct {
	dir string
	key *[32]byte
	mu  sync.Mutex
}

// NewStore creates the directory when missing. With a passphrase every value
// is sealed; the salt is generated once and kept next to the values.
func NewStore(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("file store: empty directory")
	}
	if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	s := &Store{dir: opts.Dir}
	if opts.Passphrase != "" {
		salt, err := s.loadSalt()
		if err != nil {
			return nil, err
		}
		var k [32]byte
		copy(k[:], argon2.IDKey([]byte(opts.Passphrase), salt, argonTime, argonMemory, argonThreads, 32))
		s.key = &k
	}
	return s, nil
}

// DefaultDir is the per-user storage directory.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "turnos")
	}
	return filepath.Join(os.TempDir(), "turnos")
}

func (s *Store) loadSalt() ([]byte, error) {
	path := filepath.Join(s.dir, saltFile)
	salt, err := os.ReadFile(path)
	if err == nil && len(salt) == saltSize {
		return salt, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("file store: read salt: %w", err)
	}
	salt = make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("file store: generate salt: %w", err)
	}
	if err := writeAtomic(path, salt); err != nil {
		return nil, fmt.Errorf("file store: write salt: %w", err)
	}
	return salt, nil
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	if s.key == nil {
		return string(raw), true, nil
	}
	plain, err := s.open(raw)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data := []byte(value)
	if s.key != nil {
		if data, err = s.seal(data); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, k := range keys {
		path, err := s.path(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// Ping reports whether the directory is still usable.
func (s *Store) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("file store: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file store: %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || key == saltFile || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plain, &nonce, s.key), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, ErrSealed
	}
	return plain, nil
}

// writeAtomic replaces path through a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ ports.KeyValueStore = (*Store)(nil)
