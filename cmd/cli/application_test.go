package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/git-autoupdate/cmd/cli"
	"github.com/temirov/git-autoupdate/internal/update"
)

const (
	exitCodeSuccessCaseNameConstant     = "success"
	exitCodeInterruptedCaseNameConstant = "interrupted"
	exitCodeFailureCaseNameConstant     = "failure"
	exitCodePlainErrorCaseNameConstant  = "plain_error"
)

type embeddedYAMLConfiguration struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Update struct {
		Remote           string `yaml:"remote"`
		StashMessage     string `yaml:"stash_message"`
		IncludeUntracked bool   `yaml:"include_untracked"`
		PauseOnExit      bool   `yaml:"pause_on_exit"`
	} `yaml:"update"`
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var decoded embeddedYAMLConfiguration
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &decoded))

	defaults := update.DefaultCommandConfiguration()
	require.Equal(testInstance, "error", decoded.Common.LogLevel)
	require.Equal(testInstance, "structured", decoded.Common.LogFormat)
	require.Equal(testInstance, defaults.RemoteName, decoded.Update.Remote)
	require.Equal(testInstance, defaults.StashMessage, decoded.Update.StashMessage)
	require.Equal(testInstance, defaults.IncludeUntracked, decoded.Update.IncludeUntracked)
	require.Equal(testInstance, defaults.PauseOnExit, decoded.Update.PauseOnExit)
}

func TestEmbeddedDefaultConfigurationDecodesIntoApplicationConfiguration(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))
	require.Equal(testInstance, update.DefaultCommandConfiguration(), configuration.Update)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	firstCopy[0] = '#'
	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), secondCopy[0])
}

func TestExitCode(testInstance *testing.T) {
	testCases := []struct {
		name             string
		executionError   error
		expectedExitCode int
	}{
		{name: exitCodeSuccessCaseNameConstant, executionError: nil, expectedExitCode: 0},
		{name: exitCodeInterruptedCaseNameConstant, executionError: &update.OperationError{Kind: update.ErrUserInterrupted}, expectedExitCode: 130},
		{name: exitCodeFailureCaseNameConstant, executionError: &update.OperationError{Kind: update.ErrPull}, expectedExitCode: 1},
		{name: exitCodePlainErrorCaseNameConstant, executionError: errors.New("unable to load configuration"), expectedExitCode: 1},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedExitCode, cli.ExitCode(testCase.executionError))
		})
	}
}

func TestReportedRecognizesOperationErrors(testInstance *testing.T) {
	wrappedOperationError := fmt.Errorf("update: %w", &update.OperationError{Kind: update.ErrFetch})
	require.True(testInstance, cli.Reported(wrappedOperationError))
	require.False(testInstance, cli.Reported(errors.New("unable to create logger")))
	require.False(testInstance, cli.Reported(nil))
}
