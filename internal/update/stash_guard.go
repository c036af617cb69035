package update

import (
	"context"
	"fmt"
	"strings"
)

const (
	restoringStashMessageConstant  = "Restoring stashed changes..."
	restoredStashMessageConstant   = "Stashed changes restored"
	restoreProblemTemplateConstant = "Problem restoring stashed changes: %s"
	restoreRemediationHintConstant = "You can restore them manually later with 'git stash pop'"
	restoreDetailsHeadingConstant  = "Restore details:"
)

// stashGuard restores a stash created during an update. Release acts at most once.
type stashGuard struct {
	repositoryManager RepositoryManager
	reporter          Reporter
	repositoryPath    string
	held              bool
}

func newStashGuard(repositoryManager RepositoryManager, reporter Reporter, repositoryPath string) *stashGuard {
	return &stashGuard{repositoryManager: repositoryManager, reporter: reporter, repositoryPath: repositoryPath, held: true}
}

// Release pops the stash. Cancellation of executionContext is ignored so an
// interrupted update still gives the operator their changes back.
func (guard *stashGuard) Release(executionContext context.Context) (bool, error) {
	if guard == nil || !guard.held {
		return false, nil
	}
	guard.held = false

	guard.reporter.Info(restoringStashMessageConstant)
	popOutput, popError := guard.repositoryManager.StashPop(context.WithoutCancel(executionContext), guard.repositoryPath)
	if popError != nil {
		restoreError := newOperationError(ErrRestore, popError)
		guard.reporter.Warning(fmt.Sprintf(restoreProblemTemplateConstant, restoreError.Details))
		guard.reporter.Info(restoreRemediationHintConstant)
		return false, restoreError
	}

	guard.reporter.Success(restoredStashMessageConstant)
	if len(popOutput) > 0 {
		guard.reporter.Listing(restoreDetailsHeadingConstant, strings.Split(popOutput, lineSeparatorConstant))
	}
	return true, nil
}
