package update

// Reporter receives operator-facing progress messages.
type Reporter interface {
	Info(message string)
	Success(message string)
	Warning(message string)
	Error(message string)
	Listing(heading string, lines []string)
}

type silentReporter struct{}

func (silentReporter) Info(string)              {}
func (silentReporter) Success(string)           {}
func (silentReporter) Warning(string)           {}
func (silentReporter) Error(string)             {}
func (silentReporter) Listing(string, []string) {}
