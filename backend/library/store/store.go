package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"pngdrop/backend/model"
)

var (
	ErrNotFound      = errors.New("file not found")
	ErrPathTraversal = errors.New("name escapes the store directory")
	ErrEmptyStore    = errors.New("store is empty")
)

// Store is a flat directory of uploaded files. The directory listing is the
// only index; nothing is cached between calls.
type Store struct {
	root     string // absolute, symlinks resolved
	newName  Namer
	fileMode os.FileMode
}

// New opens the store at dir. The directory must already exist and be
// writable; it is never created here.
func New(dir string, namer Namer) (*Store, error) {
	if namer == nil {
		return nil, errors.New("store: nil namer")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve destination %s: %w", dir, err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("destination %s does not exist", dir)
		}
		return nil, fmt.Errorf("resolve destination %s: %w", dir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat destination %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("destination %s is not a directory", dir)
	}
	probe, err := os.CreateTemp(root, ".pngdrop-probe-*")
	if err != nil {
		return nil, fmt.Errorf("destination %s is not writable: %w", dir, err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return &Store{root: root, newName: namer, fileMode: 0644}, nil
}

// Root returns the absolute store directory
func (s *Store) Root() string {
	return s.root
}

// Save writes r to a freshly named file and returns it. The write goes
// straight to the final path; a failed copy removes what was written.
func (s *Store) Save(r io.Reader) (model.StoredFile, error) {
	name, err := s.newName()
	if err != nil {
		return model.StoredFile{}, fmt.Errorf("generate name: %w", err)
	}
	path, err := s.Resolve(name)
	if err != nil {
		return model.StoredFile{}, err
	}
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.fileMode)
	if err != nil {
		return model.StoredFile{}, fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return model.StoredFile{}, fmt.Errorf("write %s: %w", name, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return model.StoredFile{}, fmt.Errorf("stat %s: %w", name, err)
	}
	return model.StoredFile{Name: name, Size: n, ModTime: info.ModTime()}, nil
}

// Resolve maps a file name to its path inside the store. Names that are
// empty, dot entries, absolute, or contain a separator or NUL are refused.
func (s *Store) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`+"\x00") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}
	path := filepath.Join(s.root, name)
	if filepath.Dir(path) != s.root {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}
	return path, nil
}

// Open returns the named regular file for reading. Symlinks are followed
// only while their target stays inside the store.
func (s *Store) Open(name string) (*os.File, fs.FileInfo, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, nil, err
	}
	if !s.contains(target) {
		return nil, nil, fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}
	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, info, nil
}

func (s *Store) contains(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// List returns the regular files directly inside the store
func (s *Store) List() ([]model.StoredFile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list store: %w", err)
	}
	files := make([]model.StoredFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, model.StoredFile{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// Random picks one stored file uniformly at random
func (s *Store) Random() (model.StoredFile, error) {
	files, err := s.List()
	if err != nil {
		return model.StoredFile{}, err
	}
	if len(files) == 0 {
		return model.StoredFile{}, ErrEmptyStore
	}
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(files))))
	if err != nil {
		return model.StoredFile{}, fmt.Errorf("pick random file: %w", err)
	}
	return files[i.Int64()], nil
}
