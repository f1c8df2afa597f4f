// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/bikepark/internal/ports/secondary"
)

// ArchiveStore implements secondary.ArchiveStore in a local directory.
type ArchiveStore struct {
	dir string
}

// NewArchiveStore creates an archive store rooted at dir.
// The directory is created on the first write, not here.
func NewArchiveStore(dir string) *ArchiveStore {
	return &ArchiveStore{dir: dir}
}

// Write stores data as dir/name, replacing an existing artifact of that name.
// The data goes to a temp file in the same directory, is synced, and is then
// renamed over the target, so a failure never leaves a truncated artifact.
func (s *ArchiveStore) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("failed to set archive permissions: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}
	committed = true

	return target, nil
}

// Ensure ArchiveStore implements the interface
var _ secondary.ArchiveStore = (*ArchiveStore)(nil)
