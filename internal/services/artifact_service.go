package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactService owns the generated component file inside the dev project.
type ArtifactService interface {
	Write(code string) error
	Read() (string, error)
	Path() string
	WaitForReload(ctx context.Context) error
}

type artifactService struct {
	projectRoot   string
	componentPath string
	reloadDelay   time.Duration
}

func NewArtifactService(projectRoot, componentPath string, reloadDelay time.Duration) (ArtifactService, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	return &artifactService{
		projectRoot:   root,
		componentPath: componentPath,
		reloadDelay:   reloadDelay,
	}, nil
}

// resolve joins the component path onto the project root and verifies the
// result stays inside it. Paths that escape the root are rejected.
func (s *artifactService) resolve() (string, error) {
	full := filepath.Join(s.projectRoot, s.componentPath)
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("failed to resolve component path: %w", err)
	}
	rel, err := filepath.Rel(s.projectRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("component path escapes the project root: %s", s.componentPath)
	}
	return abs, nil
}

func (s *artifactService) Path() string {
	path, err := s.resolve()
	if err != nil {
		return filepath.Join(s.projectRoot, s.componentPath)
	}
	return path
}

func (s *artifactService) Write(code string) error {
	path, err := s.resolve()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create component directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return fmt.Errorf("failed to write component: %w", err)
	}
	return nil
}

func (s *artifactService) Read() (string, error) {
	path, err := s.resolve()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read component: %w", err)
	}
	return string(data), nil
}

// WaitForReload gives the dev server time to pick up the new file. There is
// no signal from the server, so this is a fixed delay; the ctx lets a
// cancelled run skip the wait.
func (s *artifactService) WaitForReload(ctx context.Context) error {
	timer := time.NewTimer(s.reloadDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
