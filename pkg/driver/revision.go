package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// SourceRevision returns the HEAD commit hash of the git work tree that
// contains path. It returns "" without error when path is not inside a
// repository or the repository has no commits yet.
func SourceRevision(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("revision: resolve %s: %w", path, err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("revision: open %s: %w", dir, err)
	}
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("revision: resolve HEAD in %s: %w", dir, err)
	}
	return head.Hash().String(), nil
}
