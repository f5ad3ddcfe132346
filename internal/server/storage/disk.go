package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore keeps images in a directory served as static content under
// publicBase.
type DiskStore struct {
	dir        string
	publicBase string
}

func NewDiskStore(dir, publicBase string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, publicBase: strings.TrimSuffix(publicBase, "/")}, nil
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	// name is generated server-side, but never trust it as a path
	name = filepath.Base(name)

	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", dst, err)
	}

	return s.publicBase + "/" + name, nil
}

func (s *DiskStore) Remove(ctx context.Context, ref string) error {
	if ref == "" || !strings.HasPrefix(ref, s.publicBase+"/") {
		return nil
	}

	name := path.Base(ref)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// ResolveURL is the identity for disk storage: the reference already is the
// public path.
func (s *DiskStore) ResolveURL(ctx context.Context, ref string) (string, error) {
	return ref, nil
}
