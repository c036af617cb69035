package update

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/git-autoupdate/internal/execshell"
	"github.com/temirov/git-autoupdate/internal/gitrepo"
	"github.com/temirov/git-autoupdate/internal/ui"
)

// resolveGitExecutor returns the provided executor or constructs a shell-backed default.
func resolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	if humanReadableLogging {
		return shellExecutor.WithObserver(ui.NewConsoleCommandEventLogger(logger)), nil
	}
	return shellExecutor, nil
}

// resolveFileSystem returns the provided filesystem or an OS-backed default.
func resolveFileSystem(existing afero.Fs) afero.Fs {
	if existing != nil {
		return existing
	}
	return afero.NewOsFs()
}

// resolveRepositoryManager returns the provided repository manager or constructs one from the executor.
func resolveRepositoryManager(existing RepositoryManager, executor gitrepo.GitExecutor, fileSystem afero.Fs) (RepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor, fileSystem)
}
