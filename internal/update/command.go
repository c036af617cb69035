package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/git-autoupdate/internal/gitrepo"
	"github.com/temirov/git-autoupdate/internal/ui"
	"github.com/temirov/git-autoupdate/internal/utils"
)

const (
	commandUseConstant                    = "update"
	commandShortDescriptionConstant       = "Stash, fetch, pull, and restore the current repository"
	commandLongDescriptionConstant        = "update brings the current branch up to date with its remote counterpart. Uncommitted changes are stashed first and restored afterwards, even when fetching or pulling fails."
	bannerTitleConstant                   = "Git repository auto-update"
	currentDirectoryTemplateConstant      = "Current directory: %s"
	updateCompleteMessageConstant         = "Update complete!"
	updateFailedMessageConstant           = "Update failed!"
	interruptedMessageConstant            = "Operation interrupted by user"
	unexpectedErrorTemplateConstant       = "Unexpected error: %s"
	workingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	recoveredPanicLogMessageConstant      = "update aborted by unexpected error"
	logFieldRecoveredValueConstant        = "recovered_value"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the update command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	RepositoryManager            RepositoryManager
	FileSystem                   afero.Fs
	WorkingDirectory             string
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	InteractiveInputProvider     func() bool
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.Run,
	}
	return command, nil
}

// Run performs the update in the working directory and prints its progress to the command output.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()
	console := ui.NewConsole(utils.NewFlushingWriter(command.OutOrStdout()))

	console.Banner(bannerTitleConstant)
	console.Blank()

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	console.Info(fmt.Sprintf(currentDirectoryTemplateConstant, workingDirectory))
	console.Blank()

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	gitExecutor, executorError := resolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := resolveRepositoryManager(builder.RepositoryManager, gitExecutor, resolveFileSystem(builder.FileSystem))
	if managerError != nil {
		return managerError
	}

	service, serviceCreationError := NewService(Dependencies{RepositoryManager: repositoryManager, Reporter: console, Logger: logger})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	_, updateError := runRecovering(executionContext, service, logger, Options{
		RepositoryPath:   workingDirectory,
		RemoteName:       configuration.RemoteName,
		StashMessage:     configuration.StashMessage,
		IncludeUntracked: configuration.IncludeUntracked,
	})

	console.Blank()
	switch {
	case updateError == nil:
		console.Success(updateCompleteMessageConstant)
	case errors.Is(updateError, ErrUserInterrupted):
		console.Warning(interruptedMessageConstant)
	case errors.Is(updateError, ErrUnexpected):
		console.Error(fmt.Sprintf(unexpectedErrorTemplateConstant, operationDetails(updateError)))
	default:
		console.Error(updateFailedMessageConstant)
	}
	console.Blank()
	console.Rule()

	if configuration.PauseOnExit && executionContext.Err() == nil && builder.resolveInteractiveInput() {
		console.WaitForEnter(executionContext, command.InOrStdin())
	}

	return updateError
}

// runRecovering converts a panic raised during the update into ErrUnexpected.
func runRecovering(executionContext context.Context, service *Service, logger *zap.Logger, options Options) (result Result, runError error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		logger.Error(recoveredPanicLogMessageConstant, zap.Any(logFieldRecoveredValueConstant, recovered))
		result = Result{RepositoryPath: options.RepositoryPath, Outcome: OutcomeFailed}
		runError = &OperationError{Kind: ErrUnexpected, Details: fmt.Sprint(recovered)}
	}()
	return service.Run(executionContext, options)
}

func operationDetails(err error) string {
	var operationError *OperationError
	if errors.As(err, &operationError) && len(operationError.Details) > 0 {
		return operationError.Details
	}
	return err.Error()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if trimmed := strings.TrimSpace(builder.WorkingDirectory); len(trimmed) > 0 {
		return trimmed, nil
	}
	return os.Getwd()
}

func (builder *CommandBuilder) resolveInteractiveInput() bool {
	if builder.InteractiveInputProvider == nil {
		return ui.IsInteractive(os.Stdin)
	}
	return builder.InteractiveInputProvider()
}
