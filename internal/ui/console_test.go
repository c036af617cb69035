package ui_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/git-autoupdate/internal/ui"
)

const (
	testConsoleMessageConstant       = "Current branch: main"
	testConsoleHeadingConstant       = "Incoming commits:"
	testConsoleFirstEntryConstant    = "abc1234 Add feature"
	testConsoleSecondEntryConstant   = "def5678 Fix bug"
	testConsoleBannerTitleConstant   = "Repository auto-update"
	testConsoleExitPromptConstant    = "Press Enter to exit..."
	testConsoleRuleConstant          = "=================================================="
	testConsoleOperatorInputConstant = "\nignored"
)

func TestConsoleMarkedLines(testInstance *testing.T) {
	testCases := []struct {
		name         string
		invoke       func(console *ui.Console, message string)
		expectedLine string
	}{
		{
			name:         "success",
			invoke:       func(console *ui.Console, message string) { console.Success(message) },
			expectedLine: "✓ " + testConsoleMessageConstant + "\n",
		},
		{
			name:         "error",
			invoke:       func(console *ui.Console, message string) { console.Error(message) },
			expectedLine: "✗ " + testConsoleMessageConstant + "\n",
		},
		{
			name:         "info",
			invoke:       func(console *ui.Console, message string) { console.Info(message) },
			expectedLine: "ℹ " + testConsoleMessageConstant + "\n",
		},
		{
			name:         "warning",
			invoke:       func(console *ui.Console, message string) { console.Warning(message) },
			expectedLine: "⚠ " + testConsoleMessageConstant + "\n",
		},
		{
			name:         "trailing_newline_trimmed",
			invoke:       func(console *ui.Console, message string) { console.Info(message + "\n") },
			expectedLine: "ℹ " + testConsoleMessageConstant + "\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			console := ui.NewConsole(outputBuffer)
			testCase.invoke(console, testConsoleMessageConstant)
			require.Equal(testInstance, testCase.expectedLine, outputBuffer.String())
		})
	}
}

func TestConsoleListingIndentsEntries(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	console := ui.NewConsole(outputBuffer)

	console.Listing(testConsoleHeadingConstant, []string{testConsoleFirstEntryConstant, testConsoleSecondEntryConstant})

	expectedOutput := testConsoleHeadingConstant + "\n  " + testConsoleFirstEntryConstant + "\n  " + testConsoleSecondEntryConstant + "\n"
	require.Equal(testInstance, expectedOutput, outputBuffer.String())
}

func TestConsoleBannerFramesTitle(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	console := ui.NewConsole(outputBuffer)

	console.Banner(testConsoleBannerTitleConstant)

	lines := strings.Split(strings.TrimRight(outputBuffer.String(), "\n"), "\n")
	require.Len(testInstance, lines, 3)
	require.Equal(testInstance, testConsoleRuleConstant, lines[0])
	require.Equal(testInstance, "    "+testConsoleBannerTitleConstant, lines[1])
	require.Equal(testInstance, testConsoleRuleConstant, lines[2])
}

func TestConsoleWaitForEnterConsumesOneLine(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	console := ui.NewConsole(outputBuffer)
	operatorInput := strings.NewReader(testConsoleOperatorInputConstant)

	console.WaitForEnter(context.Background(), operatorInput)

	require.Equal(testInstance, testConsoleExitPromptConstant, outputBuffer.String())
}

// interruptingReader cancels the context on the first read and then blocks
// like a terminal nobody types into.
type interruptingReader struct {
	cancel  context.CancelFunc
	release chan struct{}
}

func (reader interruptingReader) Read([]byte) (int, error) {
	reader.cancel()
	<-reader.release
	return 0, io.EOF
}

func TestConsoleWaitForEnterReturnsWhenContextEnds(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	console := ui.NewConsole(outputBuffer)
	executionContext, cancel := context.WithCancel(context.Background())
	defer cancel()
	operatorInput := interruptingReader{cancel: cancel, release: make(chan struct{})}
	defer close(operatorInput.release)

	waitFinished := make(chan struct{})
	go func() {
		defer close(waitFinished)
		console.WaitForEnter(executionContext, operatorInput)
	}()

	select {
	case <-waitFinished:
	case <-time.After(5 * time.Second):
		testInstance.Fatal("exit prompt kept waiting after the context ended")
	}
	require.Equal(testInstance, testConsoleExitPromptConstant+"\n", outputBuffer.String())
}

func TestConsoleToleratesMissingWriter(testInstance *testing.T) {
	console := ui.NewConsole(nil)
	require.NotPanics(testInstance, func() {
		console.Success(testConsoleMessageConstant)
		console.WaitForEnter(context.Background(), nil)
	})
}

func TestIsInteractiveRejectsRegularFiles(testInstance *testing.T) {
	temporaryFile, creationError := os.CreateTemp(testInstance.TempDir(), "console")
	require.NoError(testInstance, creationError)
	defer temporaryFile.Close()

	require.False(testInstance, ui.IsInteractive(temporaryFile))
	require.False(testInstance, ui.IsInteractive(nil))
}
