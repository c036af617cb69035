package update

import "strings"

const (
	defaultRemoteNameConstant           = "origin"
	defaultStashMessageConstant         = "auto_update_script_stash"
	remoteNameConfigKeySuffixConstant   = ".remote"
	stashMessageConfigKeySuffixConstant = ".stash_message"
	includeUntrackedKeySuffixConstant   = ".include_untracked"
	pauseOnExitKeySuffixConstant        = ".pause_on_exit"
)

// CommandConfiguration captures configuration values for the update command.
type CommandConfiguration struct {
	RemoteName       string `mapstructure:"remote"`
	StashMessage     string `mapstructure:"stash_message"`
	IncludeUntracked bool   `mapstructure:"include_untracked"`
	PauseOnExit      bool   `mapstructure:"pause_on_exit"`
}

// DefaultCommandConfiguration provides baseline configuration values for the update command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:       defaultRemoteNameConstant,
		StashMessage:     defaultStashMessageConstant,
		IncludeUntracked: true,
		PauseOnExit:      true,
	}
}

// DefaultConfigurationValues returns the defaults keyed beneath configurationPrefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + remoteNameConfigKeySuffixConstant:   defaults.RemoteName,
		configurationPrefix + stashMessageConfigKeySuffixConstant: defaults.StashMessage,
		configurationPrefix + includeUntrackedKeySuffixConstant:   defaults.IncludeUntracked,
		configurationPrefix + pauseOnExitKeySuffixConstant:        defaults.PauseOnExit,
	}
}

// Sanitize trims textual values and restores defaults for blank ones.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}

	sanitized.StashMessage = strings.TrimSpace(configuration.StashMessage)
	if len(sanitized.StashMessage) == 0 {
		sanitized.StashMessage = defaultStashMessageConstant
	}

	return sanitized
}
