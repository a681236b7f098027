package fsstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/vthumb/internal/port"
)

const maxSuffix = 10000

// Store writes thumbnails into a single directory. Names are claimed with
// an exclusive hard link of a fully written temp file, so concurrent
// writers never share a path and readers never see a partial image.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Save persists data under name, or under name_1, name_2, ... when taken.
func (s *Store) Save(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid thumbnail name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, ".thumb-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync thumbnail: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return "", fmt.Errorf("chmod thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close thumbnail: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		dst := filepath.Join(s.dir, candidate)

		err := claim(tmpName, dst)
		if err == nil {
			return dst, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return "", fmt.Errorf("claim %s: %w", candidate, err)
	}
	return "", fmt.Errorf("no free name for %q after %d attempts", name, maxSuffix)
}

// claim makes src visible at dst only if dst does not exist yet.
func claim(src, dst string) error {
	err := os.Link(src, dst)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return err
	}
	// Filesystems without hard links: reserve dst exclusively, then
	// replace the empty placeholder with the complete file.
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_ = f.Close()
	if err := os.Rename(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

var _ port.ThumbnailStore = (*Store)(nil)
