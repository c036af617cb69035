package gitrepo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/git-autoupdate/internal/execshell"
)

const (
	gitMetadataEntryNameConstant              = ".git"
	gitRevParseSubcommandConstant             = "rev-parse"
	gitAbbrevRefFlagConstant                  = "--abbrev-ref"
	gitHeadReferenceConstant                  = "HEAD"
	gitStatusSubcommandConstant               = "status"
	gitPorcelainFlagConstant                  = "--porcelain"
	gitStashSubcommandConstant                = "stash"
	gitStashPushSubcommandConstant            = "push"
	gitStashPopSubcommandConstant             = "pop"
	gitIncludeUntrackedFlagConstant           = "--include-untracked"
	gitStashListSubcommandConstant            = "list"
	gitMaxCountFlagConstant                   = "-n"
	gitSingleEntryConstant                    = "1"
	gitCommitHashFormatConstant               = "--format=%H"
	gitMessageFlagConstant                    = "-m"
	gitFetchSubcommandConstant                = "fetch"
	gitLogSubcommandConstant                  = "log"
	gitOnelineFlagConstant                    = "--oneline"
	gitPullSubcommandConstant                 = "pull"
	incomingRangeTemplateConstant             = "HEAD..%s/%s"
	noLocalChangesMarkerConstant              = "No local changes to save"
	renamedPathSeparatorConstant              = " -> "
	porcelainPathOffsetConstant               = 3
	gitExecutorMissingMessageConstant         = "git executor not configured"
	fileSystemMissingMessageConstant          = "file system not configured"
	detachedHeadMessageConstant               = "repository is in a detached HEAD state"
	repositoryInspectionErrorTemplateConstant = "unable to inspect %s: %w"
	currentBranchErrorTemplateConstant        = "unable to resolve current branch: %w"
	workingTreeStatusErrorTemplateConstant    = "unable to read working tree status: %w"
	stashPushErrorTemplateConstant            = "unable to stash local changes: %w"
	stashPopErrorTemplateConstant             = "unable to restore stashed changes: %w"
	stashLookupErrorTemplateConstant          = "unable to read the latest stash entry: %w"
	fetchErrorTemplateConstant                = "unable to fetch from %s: %w"
	incomingCommitsErrorTemplateConstant      = "unable to list commits in %s: %w"
	pullErrorTemplateConstant                 = "unable to pull %s/%s: %w"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrDetachedHead indicates HEAD does not point at a branch.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// WorkingTreeStatus describes uncommitted changes reported by git status.
type WorkingTreeStatus struct {
	HasChanges bool
	Listing    string
	Paths      []string
}

// StashResult reports whether git stash push recorded a stash entry.
type StashResult struct {
	Created bool
	Output  string
}

// RepositoryManager exposes repository-level git operations.
type RepositoryManager struct {
	executor   GitExecutor
	fileSystem afero.Fs
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor, fileSystem afero.Fs) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &RepositoryManager{executor: executor, fileSystem: fileSystem}, nil
}

// IsRepository reports whether repositoryPath holds git metadata. Linked
// worktrees and submodules use a .git file instead of a directory; both count.
func (manager *RepositoryManager) IsRepository(repositoryPath string) (bool, error) {
	metadataPath := filepath.Join(repositoryPath, gitMetadataEntryNameConstant)
	exists, existsError := afero.Exists(manager.fileSystem, metadataPath)
	if existsError != nil {
		return false, fmt.Errorf(repositoryInspectionErrorTemplateConstant, metadataPath, existsError)
	}
	return exists, nil
}

// CurrentBranch returns the checked out branch name.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", fmt.Errorf(currentBranchErrorTemplateConstant, executionError)
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || branchName == gitHeadReferenceConstant {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

// WorkingTreeStatus reports uncommitted changes, including untracked files.
func (manager *RepositoryManager) WorkingTreeStatus(executionContext context.Context, repositoryPath string) (WorkingTreeStatus, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return WorkingTreeStatus{}, fmt.Errorf(workingTreeStatusErrorTemplateConstant, executionError)
	}

	listing := strings.TrimRight(executionResult.StandardOutput, "\r\n")
	changedPaths := parsePorcelainPaths(listing)
	return WorkingTreeStatus{
		HasChanges: len(strings.TrimSpace(listing)) > 0,
		Listing:    listing,
		Paths:      changedPaths,
	}, nil
}

// StashPush records local changes in a stash entry labelled with message.
func (manager *RepositoryManager) StashPush(executionContext context.Context, repositoryPath string, message string, includeUntracked bool) (StashResult, error) {
	arguments := []string{gitStashSubcommandConstant, gitStashPushSubcommandConstant}
	if includeUntracked {
		arguments = append(arguments, gitIncludeUntrackedFlagConstant)
	}
	arguments = append(arguments, gitMessageFlagConstant, message)

	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, arguments...)
	if executionError != nil {
		return StashResult{}, fmt.Errorf(stashPushErrorTemplateConstant, executionError)
	}

	output := strings.TrimSpace(executionResult.StandardOutput)
	return StashResult{
		Created: !strings.Contains(output, noLocalChangesMarkerConstant),
		Output:  output,
	}, nil
}

// StashPop reapplies and drops the most recent stash entry.
func (manager *RepositoryManager) StashPop(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitStashSubcommandConstant, gitStashPopSubcommandConstant)
	if executionError != nil {
		return "", fmt.Errorf(stashPopErrorTemplateConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// LatestStash returns the commit name of the most recent stash entry, or an
// empty string when the repository has no stash.
func (manager *RepositoryManager) LatestStash(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitStashSubcommandConstant, gitStashListSubcommandConstant, gitMaxCountFlagConstant, gitSingleEntryConstant, gitCommitHashFormatConstant)
	if executionError != nil {
		return "", fmt.Errorf(stashLookupErrorTemplateConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// Fetch downloads objects and refs from remoteName.
func (manager *RepositoryManager) Fetch(executionContext context.Context, repositoryPath string, remoteName string) error {
	if _, executionError := manager.executeGit(executionContext, repositoryPath, gitFetchSubcommandConstant, remoteName); executionError != nil {
		return fmt.Errorf(fetchErrorTemplateConstant, remoteName, executionError)
	}
	return nil
}

// IncomingCommits lists the one-line summaries of commits on remoteName/branchName missing from HEAD.
func (manager *RepositoryManager) IncomingCommits(executionContext context.Context, repositoryPath string, remoteName string, branchName string) ([]string, error) {
	revisionRange := fmt.Sprintf(incomingRangeTemplateConstant, remoteName, branchName)
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitLogSubcommandConstant, revisionRange, gitOnelineFlagConstant)
	if executionError != nil {
		return nil, fmt.Errorf(incomingCommitsErrorTemplateConstant, revisionRange, executionError)
	}

	var commits []string
	for _, line := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		commits = append(commits, trimmed)
	}
	return commits, nil
}

// Pull integrates remoteName/branchName into the current branch using git's configured strategy.
func (manager *RepositoryManager) Pull(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, repositoryPath, gitPullSubcommandConstant, remoteName, branchName)
	if executionError != nil {
		return "", fmt.Errorf(pullErrorTemplateConstant, remoteName, branchName, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
}

func parsePorcelainPaths(listing string) []string {
	var paths []string
	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) <= porcelainPathOffsetConstant {
			continue
		}
		path := strings.TrimSpace(line[porcelainPathOffsetConstant:])
		if renameIndex := strings.Index(path, renamedPathSeparatorConstant); renameIndex >= 0 {
			path = path[renameIndex+len(renamedPathSeparatorConstant):]
		}
		paths = append(paths, path)
	}
	return paths
}
