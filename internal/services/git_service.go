package services

import (
	"fmt"

	git "github.com/go-git/go-git/v5"

	"uiloop/internal/utils"
)

// GitService reads version metadata from the dev project's repository, when
// one exists, so reports can say which checkout they were produced against.
type GitService interface {
	HeadStamp(path string) (branch, shortHash string, err error)
}

type gitService struct{}

func NewGitService() GitService {
	return &gitService{}
}

func (s *gitService) HeadStamp(path string) (string, string, error) {
	root, ok := utils.FindGitRepoRoot(path)
	if !ok {
		return "", "", fmt.Errorf("no git repository at or above %s", path)
	}
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", "", fmt.Errorf("failed to open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	branch := head.Name().Short()
	hash := head.Hash().String()
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return branch, hash, nil
}
