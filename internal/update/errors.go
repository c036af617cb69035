package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/git-autoupdate/internal/execshell"
)

const (
	notARepositoryMessageConstant           = "not a git repository"
	branchResolutionMessageConstant         = "unable to determine current branch"
	statusQueryMessageConstant              = "unable to check git status"
	stashMessageConstant                    = "unable to stash local changes"
	fetchMessageConstant                    = "unable to fetch remote updates"
	divergenceCheckMessageConstant          = "unable to check remote commits"
	pullMessageConstant                     = "unable to pull remote changes"
	restoreMessageConstant                  = "unable to restore stashed changes"
	userInterruptedMessageConstant          = "operation interrupted by user"
	unexpectedMessageConstant               = "unexpected error"
	operationErrorTemplateConstant          = "%s: %s"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
)

// Failure kinds reported through OperationError.
var (
	ErrNotARepository   = errors.New(notARepositoryMessageConstant)
	ErrBranchResolution = errors.New(branchResolutionMessageConstant)
	ErrStatusQuery      = errors.New(statusQueryMessageConstant)
	ErrStash            = errors.New(stashMessageConstant)
	ErrFetch            = errors.New(fetchMessageConstant)
	ErrDivergenceCheck  = errors.New(divergenceCheckMessageConstant)
	ErrPull             = errors.New(pullMessageConstant)
	ErrRestore          = errors.New(restoreMessageConstant)
	ErrUserInterrupted  = errors.New(userInterruptedMessageConstant)
	ErrUnexpected       = errors.New(unexpectedMessageConstant)
)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// OperationError describes a failed update step. Details carries the raw
// diagnostic text git produced, when there was any.
type OperationError struct {
	Kind    error
	Details string
	Cause   error
}

// Error joins the failure kind with its details.
func (operationError *OperationError) Error() string {
	kindMessage := unexpectedMessageConstant
	if operationError.Kind != nil {
		kindMessage = operationError.Kind.Error()
	}
	if len(operationError.Details) == 0 {
		return kindMessage
	}
	return fmt.Sprintf(operationErrorTemplateConstant, kindMessage, operationError.Details)
}

// Unwrap exposes both the failure kind and the underlying cause to errors.Is and errors.As.
func (operationError *OperationError) Unwrap() []error {
	unwrapped := make([]error, 0, 2)
	if operationError.Kind != nil {
		unwrapped = append(unwrapped, operationError.Kind)
	}
	if operationError.Cause != nil {
		unwrapped = append(unwrapped, operationError.Cause)
	}
	return unwrapped
}

func newOperationError(kind error, cause error) *OperationError {
	return &OperationError{Kind: kind, Details: describeCause(cause), Cause: cause}
}

// describeCause prefers git's standard error, then its standard output, then the error text.
func describeCause(cause error) string {
	if cause == nil {
		return ""
	}

	var failedCommand execshell.CommandFailedError
	if errors.As(cause, &failedCommand) {
		if standardError := strings.TrimSpace(failedCommand.Result.StandardError); len(standardError) > 0 {
			return standardError
		}
		if standardOutput := strings.TrimSpace(failedCommand.Result.StandardOutput); len(standardOutput) > 0 {
			return standardOutput
		}
	}

	return strings.TrimSpace(cause.Error())
}
