package assets

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore writes assets under a local root directory served at
// <baseURL>/uploads/. Keys are generated internally (never derived from
// client input), so path traversal is rejected rather than sanitized.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	for _, bucket := range []string{"photos", "qr"} {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("create asset bucket %s: %w", bucket, err)
		}
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Put(_ context.Context, key string, data []byte) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset %s: %w", key, err)
	}
	return s.baseURL + "/uploads/" + key, nil
}

// Delete removes the asset. A missing file is not an error.
func (s *DiskStore) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove asset %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) KeyFromURL(url string) string {
	key, ok := strings.CutPrefix(url, s.baseURL+"/uploads/")
	if !ok {
		return ""
	}
	if validKey(key) != nil {
		return ""
	}
	return key
}

// Root is the directory the HTTP layer serves under /uploads.
func (s *DiskStore) Root() string { return s.root }

func validKey(key string) error {
	if key == "" || path.Clean(key) != key || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid asset key %q", key)
	}
	return nil
}
