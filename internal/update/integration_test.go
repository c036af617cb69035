package update

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/git-autoupdate/internal/execshell"
	"github.com/temirov/git-autoupdate/internal/gitrepo"
)

const (
	integrationTrackedFileConstant   = "README.md"
	integrationUpstreamFileConstant  = "CHANGELOG.md"
	integrationUntrackedFileConstant = "notes.txt"
	integrationLocalEditConstant     = "local edit\n"
)

func runGit(t *testing.T, workingDirectory string, arguments ...string) string {
	t.Helper()
	command := exec.Command("git", arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Auto Update",
		"GIT_AUTHOR_EMAIL=auto-update@example.com",
		"GIT_COMMITTER_NAME=Auto Update",
		"GIT_COMMITTER_EMAIL=auto-update@example.com",
		"GIT_CONFIG_NOSYSTEM=1",
	)
	output, runError := command.CombinedOutput()
	require.NoError(t, runError, string(output))
	return string(output)
}

func configureIdentity(t *testing.T, repositoryPath string) {
	t.Helper()
	runGit(t, repositoryPath, "config", "user.name", "Auto Update")
	runGit(t, repositoryPath, "config", "user.email", "auto-update@example.com")
	runGit(t, repositoryPath, "config", "commit.gpgsign", "false")
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestServiceRunAgainstRealRepositories(t *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		t.Skip("git executable not available")
	}

	workspace := t.TempDir()
	seedPath := filepath.Join(workspace, "seed")
	remotePath := filepath.Join(workspace, "remote.git")
	upstreamPath := filepath.Join(workspace, "upstream")
	localPath := filepath.Join(workspace, "local")

	require.NoError(t, os.MkdirAll(seedPath, 0o755))
	runGit(t, seedPath, "init")
	configureIdentity(t, seedPath)
	writeFile(t, filepath.Join(seedPath, integrationTrackedFileConstant), "initial\n")
	runGit(t, seedPath, "add", integrationTrackedFileConstant)
	runGit(t, seedPath, "commit", "-m", "Initial commit")
	runGit(t, seedPath, "branch", "-M", "main")

	runGit(t, workspace, "clone", "--bare", seedPath, remotePath)
	runGit(t, workspace, "clone", remotePath, upstreamPath)
	runGit(t, workspace, "clone", remotePath, localPath)
	configureIdentity(t, upstreamPath)
	configureIdentity(t, localPath)

	writeFile(t, filepath.Join(upstreamPath, integrationUpstreamFileConstant), "upstream change\n")
	runGit(t, upstreamPath, "add", integrationUpstreamFileConstant)
	runGit(t, upstreamPath, "commit", "-m", "Add changelog")
	runGit(t, upstreamPath, "push", "origin", "main")

	writeFile(t, filepath.Join(localPath, integrationTrackedFileConstant), integrationLocalEditConstant)
	writeFile(t, filepath.Join(localPath, integrationUntrackedFileConstant), "scratch\n")

	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(t, executorError)
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor, afero.NewOsFs())
	require.NoError(t, managerError)
	service, serviceError := NewService(Dependencies{RepositoryManager: repositoryManager})
	require.NoError(t, serviceError)

	options := Options{RepositoryPath: localPath, RemoteName: "origin", StashMessage: testStashMessageConstant, IncludeUntracked: true}
	result, runError := service.Run(context.Background(), options)
	require.NoError(t, runError)
	require.Equal(t, OutcomeSucceeded, result.Outcome)
	require.Equal(t, "main", result.BranchName)
	require.Len(t, result.IncomingCommits, 1)
	require.True(t, result.Stashed)
	require.True(t, result.Restored)
	require.NoError(t, result.RestoreError)

	trackedContent, readError := os.ReadFile(filepath.Join(localPath, integrationTrackedFileConstant))
	require.NoError(t, readError)
	require.Equal(t, integrationLocalEditConstant, string(trackedContent))
	require.FileExists(t, filepath.Join(localPath, integrationUntrackedFileConstant))
	require.FileExists(t, filepath.Join(localPath, integrationUpstreamFileConstant))
	require.Empty(t, runGit(t, localPath, "stash", "list"))

	secondResult, secondError := service.Run(context.Background(), options)
	require.NoError(t, secondError)
	require.Equal(t, OutcomeAlreadyUpToDate, secondResult.Outcome)
	require.True(t, secondResult.Restored)
}

func TestServiceRunRejectsPlainDirectory(t *testing.T) {
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(t, executorError)
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor, afero.NewOsFs())
	require.NoError(t, managerError)
	service, serviceError := NewService(Dependencies{RepositoryManager: repositoryManager})
	require.NoError(t, serviceError)

	result, runError := service.Run(context.Background(), Options{RepositoryPath: t.TempDir()})
	require.ErrorIs(t, runError, ErrNotARepository)
	require.Equal(t, OutcomeFailed, result.Outcome)
}
