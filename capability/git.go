package capability

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// GitInspector is the Git implementation backed by go-git. Workspaces
// without a repository report a clean, branchless status.
type GitInspector struct {
	workspacePath string
}

var _ Git = (*GitInspector)(nil)

// NewGitInspector creates a git inspector rooted at the workspace.
func NewGitInspector(workspacePath string) *GitInspector {
	return &GitInspector{workspacePath: workspacePath}
}

// Status summarizes the repository state.
func (g *GitInspector) Status(ctx context.Context) (GitStatus, error) {
	repo, err := git.PlainOpen(g.workspacePath)
	if err == git.ErrRepositoryNotExists {
		return GitStatus{IsClean: true}, nil
	}
	if err != nil {
		return GitStatus{}, fmt.Errorf("failed to open repository: %w", err)
	}

	status := GitStatus{}
	if head, err := repo.Head(); err == nil {
		status.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return GitStatus{}, fmt.Errorf("failed to open worktree: %w", err)
	}
	wtStatus, err := wt.Status()
	if err != nil {
		return GitStatus{}, fmt.Errorf("failed to read status: %w", err)
	}

	for _, fileStatus := range wtStatus {
		if fileStatus.Worktree == git.Untracked {
			status.Untracked++
			continue
		}
		if fileStatus.Staging != git.Unmodified {
			status.Staged++
		}
		if fileStatus.Worktree != git.Unmodified {
			status.Modified++
		}
	}
	status.IsClean = wtStatus.IsClean()
	return status, nil
}
