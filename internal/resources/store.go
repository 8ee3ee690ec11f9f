package resources

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/voiceshell/gui-service/internal/logging"
	"go.uber.org/zap"
)

// Store holds uploaded page resource bundles on disk, laid out as
// <root>/<skill_id>/<framework>/<page path>. Bundles uploaded with
// framework "all" already contain per-framework subdirectories and land
// directly under the skill directory. The root is served over HTTP so
// display clients can fetch pages by URL.
type Store struct {
	root string
	log  *logging.Logger
}

// NewStore creates a resource store rooted at the given directory.
func NewStore(root string, log *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resource root %s: %w", root, err)
	}
	return &Store{root: root, log: log.Named("resources")}, nil
}

// Root returns the served directory.
func (s *Store) Root() string {
	return s.root
}

// SystemDir returns the directory holding system page resources.
func (s *Store) SystemDir() string {
	return filepath.Join(s.root, "system")
}

// Receive writes an uploaded page bundle. Page paths are relative to the
// framework directory and their content is hex encoded. A page that fails
// to decode or write is logged and skipped; the rest of the bundle still
// lands.
func (s *Store) Receive(from, framework string, pages map[string]string) error {
	base := filepath.Join(s.root, from)
	if framework != "all" {
		base = filepath.Join(base, framework)
	}

	var failed int
	for page, contents := range pages {
		target := filepath.Join(base, filepath.Clean("/"+page))
		raw, err := hex.DecodeString(contents)
		if err != nil {
			s.log.Error("failed to decode uploaded page",
				zap.String("page", page), zap.Error(err))
			failed++
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			s.log.Error("failed to create page directory",
				zap.String("page", page), zap.Error(err))
			failed++
			continue
		}
		if err := os.WriteFile(target, raw, 0o644); err != nil {
			s.log.Error("failed to write page",
				zap.String("page", page), zap.Error(err))
			failed++
			continue
		}
		s.log.Debug("wrote uploaded page", zap.String("path", target))
	}

	if failed == len(pages) && len(pages) > 0 {
		return fmt.Errorf("failed to store any of %d pages from %s", len(pages), from)
	}
	return nil
}

// SeedSystem replaces the served system resources with the bundled ones.
func (s *Store) SeedSystem(src string) error {
	dst := s.SystemDir()
	if _, err := os.Stat(dst); err == nil {
		s.log.Info("removing existing system resources before updating")
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("failed to clear system resources: %w", err)
		}
	}
	if err := copyTree(src, dst); err != nil {
		return fmt.Errorf("failed to seed system resources: %w", err)
	}
	s.log.Debug("copied system resources", zap.String("dst", dst))
	return nil
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
