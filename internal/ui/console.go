package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	successMarkerConstant        = "✓"
	errorMarkerConstant          = "✗"
	infoMarkerConstant           = "ℹ"
	warningMarkerConstant        = "⚠"
	markedLineTemplateConstant   = "%s %s\n"
	listingLineTemplateConstant  = "  %s\n"
	bannerRuleCharacterConstant  = "="
	bannerRuleWidthConstant      = 50
	bannerTitleIndentConstant    = "    "
	exitPromptMessageConstant    = "Press Enter to exit..."
	successColorConstant         = "10"
	errorColorConstant           = "9"
	infoColorConstant            = "12"
	warningColorConstant         = "11"
	bannerColorConstant          = "14"
	lineBreakConstant            = "\n"
	carriageReturnSuffixConstant = "\r"
)

type writerUnwrapper interface {
	Unwrap() io.Writer
}

// Console prints marked status lines for an operator.
type Console struct {
	writer       io.Writer
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	warningStyle lipgloss.Style
	bannerStyle  lipgloss.Style
}

// NewConsole constructs a Console writing to writer. Colors are emitted only
// when writer is a terminal that supports them.
func NewConsole(writer io.Writer) *Console {
	if writer == nil {
		writer = io.Discard
	}
	renderer := lipgloss.NewRenderer(terminalCandidate(writer))
	return &Console{
		writer:       writer,
		successStyle: renderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		errorStyle:   renderer.NewStyle().Foreground(lipgloss.Color(errorColorConstant)),
		infoStyle:    renderer.NewStyle().Foreground(lipgloss.Color(infoColorConstant)),
		warningStyle: renderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		bannerStyle:  renderer.NewStyle().Foreground(lipgloss.Color(bannerColorConstant)),
	}
}

// Success prints a green check line.
func (console *Console) Success(message string) {
	console.printMarked(console.successStyle, successMarkerConstant, message)
}

// Error prints a red cross line.
func (console *Console) Error(message string) {
	console.printMarked(console.errorStyle, errorMarkerConstant, message)
}

// Info prints a blue information line.
func (console *Console) Info(message string) {
	console.printMarked(console.infoStyle, infoMarkerConstant, message)
}

// Warning prints a yellow warning line.
func (console *Console) Warning(message string) {
	console.printMarked(console.warningStyle, warningMarkerConstant, message)
}

// Listing prints a heading followed by indented lines, one per entry.
func (console *Console) Listing(heading string, lines []string) {
	if len(strings.TrimSpace(heading)) > 0 {
		fmt.Fprintln(console.writer, heading)
	}
	for _, line := range lines {
		fmt.Fprintf(console.writer, listingLineTemplateConstant, line)
	}
}

// Banner prints title between two horizontal rules.
func (console *Console) Banner(title string) {
	rule := console.bannerStyle.Render(strings.Repeat(bannerRuleCharacterConstant, bannerRuleWidthConstant))
	fmt.Fprintln(console.writer, rule)
	fmt.Fprintln(console.writer, console.bannerStyle.Render(bannerTitleIndentConstant+title))
	fmt.Fprintln(console.writer, rule)
}

// Rule prints a single horizontal rule.
func (console *Console) Rule() {
	fmt.Fprintln(console.writer, console.bannerStyle.Render(strings.Repeat(bannerRuleCharacterConstant, bannerRuleWidthConstant)))
}

// Blank prints an empty line.
func (console *Console) Blank() {
	fmt.Fprint(console.writer, lineBreakConstant)
}

// WaitForEnter prompts the operator and blocks until a line or EOF is read from
// input, or until executionContext ends.
func (console *Console) WaitForEnter(executionContext context.Context, input io.Reader) {
	if input == nil {
		return
	}
	fmt.Fprint(console.writer, exitPromptMessageConstant)

	lineRead := make(chan struct{})
	go func() {
		defer close(lineRead)
		_, _ = bufio.NewReader(input).ReadString('\n')
	}()

	select {
	case <-lineRead:
	case <-executionContext.Done():
		fmt.Fprint(console.writer, lineBreakConstant)
	}
}

func (console *Console) printMarked(style lipgloss.Style, marker string, message string) {
	trimmedMessage := strings.TrimSuffix(strings.TrimSuffix(message, lineBreakConstant), carriageReturnSuffixConstant)
	fmt.Fprintf(console.writer, markedLineTemplateConstant, style.Render(marker), trimmedMessage)
}

func terminalCandidate(writer io.Writer) io.Writer {
	wrapped, isWrapper := writer.(writerUnwrapper)
	if !isWrapper {
		return writer
	}
	if underlying := wrapped.Unwrap(); underlying != nil {
		return underlying
	}
	return writer
}

// IsInteractive reports whether file is attached to a terminal.
func IsInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	fileDescriptor := file.Fd()
	return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
}
