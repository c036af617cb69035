package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/git-autoupdate/internal/gitrepo"
)

const (
	startingUpdateMessageConstant          = "Starting repository update..."
	notARepositoryTemplateConstant         = "%s is not a git repository"
	branchFailureTemplateConstant          = "Unable to determine current branch: %s"
	currentBranchTemplateConstant          = "Current branch: %s"
	statusFailureTemplateConstant          = "Failed to check git status: %s"
	changesDetectedMessageConstant         = "Uncommitted changes detected, stashing automatically..."
	uncommittedFilesHeadingConstant        = "Uncommitted files:"
	stashingMessageConstant                = "Stashing uncommitted changes..."
	stashFailureTemplateConstant           = "Failed to stash changes: %s"
	stashedMessageConstant                 = "Changes stashed"
	nothingStashedMessageConstant          = "Git reported no local changes to save; continuing without a stash"
	interruptedStashFoundMessageConstant   = "A stash entry was created before the interruption"
	interruptedStashUnknownMessageConstant = "Unable to confirm whether local changes were stashed before the interruption"
	interruptedStashHintConstant           = "If your changes are missing, restore them with 'git stash pop'"
	fetchingMessageConstant                = "Fetching remote updates..."
	fetchFailureTemplateConstant           = "Failed to fetch remote updates: %s"
	divergenceFailureTemplateConstant      = "Failed to check remote commits: %s"
	alreadyUpToDateMessageConstant         = "Repository is already up to date"
	incomingCommitsMessageConstant         = "New commits found:"
	pullingMessageConstant                 = "Pulling updates..."
	pullFailureTemplateConstant            = "Update failed: %s"
	pullSucceededMessageConstant           = "Repository updated successfully!"
	pullDetailsHeadingConstant             = "Update details:"
	inspectionFailureTemplateConstant      = "Unable to inspect %s: %s"
	logFieldRepositoryPathConstant         = "repository_path"
	logFieldBranchNameConstant             = "branch_name"
	logFieldRemoteNameConstant             = "remote_name"
	logFieldOutcomeConstant                = "outcome"
	logFieldIncomingCommitCountConstant    = "incoming_commit_count"
	logFieldStashedConstant                = "stashed"
	logFieldRestoredConstant               = "restored"
	updateStartedLogMessageConstant        = "update started"
	updateFinishedLogMessageConstant       = "update finished"
	stashRestoreFailedLogMessageConstant   = "stash restore failed"
	stashLookupFailedLogMessageConstant    = "stash lookup failed"
	repositoryPathRequiredMessageConstant  = "repository path must be provided"
	lineSeparatorConstant                  = "\n"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// Outcome is the terminal verdict of an update.
type Outcome string

// Supported outcomes.
const (
	OutcomeSucceeded       Outcome = Outcome("succeeded")
	OutcomeAlreadyUpToDate Outcome = Outcome("already_up_to_date")
	OutcomeFailed          Outcome = Outcome("failed")
	OutcomeInterrupted     Outcome = Outcome("interrupted")
)

// RepositoryManager exposes the git operations an update performs.
type RepositoryManager interface {
	IsRepository(repositoryPath string) (bool, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	WorkingTreeStatus(executionContext context.Context, repositoryPath string) (gitrepo.WorkingTreeStatus, error)
	StashPush(executionContext context.Context, repositoryPath string, message string, includeUntracked bool) (gitrepo.StashResult, error)
	StashPop(executionContext context.Context, repositoryPath string) (string, error)
	LatestStash(executionContext context.Context, repositoryPath string) (string, error)
	Fetch(executionContext context.Context, repositoryPath string, remoteName string) error
	IncomingCommits(executionContext context.Context, repositoryPath string, remoteName string, branchName string) ([]string, error)
	Pull(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (string, error)
}

// Dependencies enumerates external collaborators required for updates.
type Dependencies struct {
	RepositoryManager RepositoryManager
	Reporter          Reporter
	Logger            *zap.Logger
}

// Options configures a single update.
type Options struct {
	RepositoryPath   string
	RemoteName       string
	StashMessage     string
	IncludeUntracked bool
}

// Result captures the observable outcomes of an update.
type Result struct {
	RepositoryPath  string
	BranchName      string
	ChangedPaths    []string
	Stashed         bool
	Restored        bool
	IncomingCommits []string
	PullOutput      string
	Outcome         Outcome
	RestoreError    error
}

// Service runs the stash, fetch, pull and restore cycle against one repository.
type Service struct {
	repositoryManager RepositoryManager
	reporter          Reporter
	logger            *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}

	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = silentReporter{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{repositoryManager: dependencies.RepositoryManager, reporter: reporter, logger: logger}, nil
}

// Run synchronizes the repository's current branch with its remote counterpart.
// Local changes stashed along the way are restored before Run returns, whatever
// the verdict. A restore failure is recorded in Result.RestoreError and does not
// change the returned error.
func (service *Service) Run(executionContext context.Context, options Options) (result Result, runError error) {
	resolvedOptions := sanitizeOptions(options)
	if len(resolvedOptions.RepositoryPath) == 0 {
		return Result{Outcome: OutcomeFailed}, ErrRepositoryPathRequired
	}

	result = Result{RepositoryPath: resolvedOptions.RepositoryPath, Outcome: OutcomeFailed}
	service.logger.Debug(
		updateStartedLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, resolvedOptions.RepositoryPath),
		zap.String(logFieldRemoteNameConstant, resolvedOptions.RemoteName),
	)
	service.reporter.Info(startingUpdateMessageConstant)

	var guard *stashGuard
	defer func() {
		result.Restored, result.RestoreError = guard.Release(executionContext)
		if result.RestoreError != nil {
			service.logger.Warn(
				stashRestoreFailedLogMessageConstant,
				zap.String(logFieldRepositoryPathConstant, result.RepositoryPath),
				zap.Error(result.RestoreError),
			)
		}
		service.logOutcome(result)
	}()

	isRepository, inspectionError := service.repositoryManager.IsRepository(resolvedOptions.RepositoryPath)
	if inspectionError != nil {
		service.reporter.Error(fmt.Sprintf(inspectionFailureTemplateConstant, resolvedOptions.RepositoryPath, inspectionError))
		return result, newOperationError(ErrNotARepository, inspectionError)
	}
	if !isRepository {
		service.reporter.Error(fmt.Sprintf(notARepositoryTemplateConstant, resolvedOptions.RepositoryPath))
		return result, &OperationError{Kind: ErrNotARepository, Details: resolvedOptions.RepositoryPath}
	}

	branchName, branchError := service.repositoryManager.CurrentBranch(executionContext, resolvedOptions.RepositoryPath)
	if branchError != nil {
		return service.fail(executionContext, result, ErrBranchResolution, branchError, branchFailureTemplateConstant)
	}
	result.BranchName = branchName
	service.reporter.Info(fmt.Sprintf(currentBranchTemplateConstant, branchName))

	workingTreeStatus, statusError := service.repositoryManager.WorkingTreeStatus(executionContext, resolvedOptions.RepositoryPath)
	if statusError != nil {
		return service.fail(executionContext, result, ErrStatusQuery, statusError, statusFailureTemplateConstant)
	}
	result.ChangedPaths = workingTreeStatus.Paths

	if workingTreeStatus.HasChanges {
		service.reporter.Info(changesDetectedMessageConstant)
		service.reporter.Listing(uncommittedFilesHeadingConstant, strings.Split(workingTreeStatus.Listing, lineSeparatorConstant))
		service.reporter.Info(stashingMessageConstant)

		previousStash, previousStashError := service.repositoryManager.LatestStash(executionContext, resolvedOptions.RepositoryPath)
		if previousStashError != nil {
			service.logger.Debug(stashLookupFailedLogMessageConstant, zap.String(logFieldRepositoryPathConstant, resolvedOptions.RepositoryPath), zap.Error(previousStashError))
		}

		stashResult, stashError := service.repositoryManager.StashPush(executionContext, resolvedOptions.RepositoryPath, resolvedOptions.StashMessage, resolvedOptions.IncludeUntracked)
		if stashError != nil {
			if executionContext.Err() != nil {
				guard = service.recoverInterruptedStash(executionContext, resolvedOptions.RepositoryPath, previousStash, previousStashError)
				result.Stashed = guard != nil
			}
			return service.fail(executionContext, result, ErrStash, stashError, stashFailureTemplateConstant)
		}

		if !stashResult.Created {
			service.reporter.Info(nothingStashedMessageConstant)
		} else {
			result.Stashed = true
			guard = newStashGuard(service.repositoryManager, service.reporter, resolvedOptions.RepositoryPath)
			service.reporter.Success(stashedMessageConstant)
		}
	}

	service.reporter.Info(fetchingMessageConstant)
	if fetchError := service.repositoryManager.Fetch(executionContext, resolvedOptions.RepositoryPath, resolvedOptions.RemoteName); fetchError != nil {
		return service.fail(executionContext, result, ErrFetch, fetchError, fetchFailureTemplateConstant)
	}

	incomingCommits, divergenceError := service.repositoryManager.IncomingCommits(executionContext, resolvedOptions.RepositoryPath, resolvedOptions.RemoteName, branchName)
	if divergenceError != nil {
		return service.fail(executionContext, result, ErrDivergenceCheck, divergenceError, divergenceFailureTemplateConstant)
	}
	if len(incomingCommits) == 0 {
		result.Outcome = OutcomeAlreadyUpToDate
		service.reporter.Success(alreadyUpToDateMessageConstant)
		return result, nil
	}
	result.IncomingCommits = incomingCommits
	service.reporter.Info(incomingCommitsMessageConstant)
	service.reporter.Listing("", incomingCommits)

	service.reporter.Info(pullingMessageConstant)
	pullOutput, pullError := service.repositoryManager.Pull(executionContext, resolvedOptions.RepositoryPath, resolvedOptions.RemoteName, branchName)
	if pullError != nil {
		return service.fail(executionContext, result, ErrPull, pullError, pullFailureTemplateConstant)
	}

	result.PullOutput = pullOutput
	result.Outcome = OutcomeSucceeded
	service.reporter.Success(pullSucceededMessageConstant)
	if len(pullOutput) > 0 {
		service.reporter.Listing(pullDetailsHeadingConstant, strings.Split(pullOutput, lineSeparatorConstant))
	}

	return result, nil
}

// recoverInterruptedStash decides whether a stash push cut short by an
// interruption still created an entry. The latest stash is compared with the
// one recorded before the push; a new entry yields a guard so it gets popped.
func (service *Service) recoverInterruptedStash(executionContext context.Context, repositoryPath string, previousStash string, previousStashError error) *stashGuard {
	if previousStashError == nil {
		latestStash, latestStashError := service.repositoryManager.LatestStash(context.WithoutCancel(executionContext), repositoryPath)
		if latestStashError == nil {
			if len(latestStash) == 0 || latestStash == previousStash {
				return nil
			}
			service.reporter.Info(interruptedStashFoundMessageConstant)
			return newStashGuard(service.repositoryManager, service.reporter, repositoryPath)
		}
		service.logger.Warn(stashLookupFailedLogMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath), zap.Error(latestStashError))
	}

	service.reporter.Warning(interruptedStashUnknownMessageConstant)
	service.reporter.Info(interruptedStashHintConstant)
	return nil
}

// fail classifies a step failure. A failure caused by a cancelled context is
// reported as an interruption rather than as the step's own kind.
func (service *Service) fail(executionContext context.Context, result Result, kind error, cause error, messageTemplate string) (Result, error) {
	if executionContext.Err() != nil {
		result.Outcome = OutcomeInterrupted
		return result, &OperationError{Kind: ErrUserInterrupted, Details: describeCause(cause), Cause: cause}
	}

	operationError := newOperationError(kind, cause)
	service.reporter.Error(fmt.Sprintf(messageTemplate, operationError.Details))
	result.Outcome = OutcomeFailed
	return result, operationError
}

func (service *Service) logOutcome(result Result) {
	service.logger.Debug(
		updateFinishedLogMessageConstant,
		zap.String(logFieldRepositoryPathConstant, result.RepositoryPath),
		zap.String(logFieldBranchNameConstant, result.BranchName),
		zap.String(logFieldOutcomeConstant, string(result.Outcome)),
		zap.Int(logFieldIncomingCommitCountConstant, len(result.IncomingCommits)),
		zap.Bool(logFieldStashedConstant, result.Stashed),
		zap.Bool(logFieldRestoredConstant, result.Restored),
	)
}

func sanitizeOptions(options Options) Options {
	sanitized := options
	sanitized.RepositoryPath = strings.TrimSpace(options.RepositoryPath)

	defaults := CommandConfiguration{RemoteName: options.RemoteName, StashMessage: options.StashMessage}.Sanitize()
	sanitized.RemoteName = defaults.RemoteName
	sanitized.StashMessage = defaults.StashMessage
	return sanitized
}
