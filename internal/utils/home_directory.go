package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	homeShortcutConstant             = "~"
	homeShortcutForwardSlashConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// ExpandHomeDirectory replaces a leading ~ with the user's home directory.
// Paths without the shortcut, and paths whose home directory cannot be
// resolved, are returned unchanged.
func ExpandHomeDirectory(candidatePath string, provider HomeDirectoryProvider) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if !strings.HasPrefix(trimmedPath, homeShortcutConstant) {
		return candidatePath
	}

	isBareShortcut := trimmedPath == homeShortcutConstant
	hasSeparator := strings.HasPrefix(trimmedPath, homeShortcutForwardSlashConstant) || strings.HasPrefix(trimmedPath, homeShortcutConstant+string(os.PathSeparator))
	if !isBareShortcut && !hasSeparator {
		return candidatePath
	}

	if provider == nil {
		provider = os.UserHomeDir
	}
	homeDirectory, homeDirectoryError := provider()
	if homeDirectoryError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}

	if isBareShortcut {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, trimmedPath[len(homeShortcutForwardSlashConstant):])
}
