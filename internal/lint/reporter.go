package lint

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	violationLinePrefixConstant  = "  ERR: "
	reporterLineTemplateConstant = "%s\n"
	errorSummaryMessageConstant  = "there were errors, please correct the file"
	fileHeadingTemplateConstant  = "checking file %s"
)

// Reporter receives checker progress headings and violation diagnostics.
type Reporter interface {
	// CheckStarted announces a sub-check before its lines are evaluated.
	CheckStarted(checkDescription string)
	// ViolationFound reports one accumulated convention violation.
	ViolationFound(violationMessage string)
}

type noopReporter struct{}

func (noopReporter) CheckStarted(string)   {}
func (noopReporter) ViolationFound(string) {}

// ConsoleReporter renders checker diagnostics with terminal colors, yellow
// for section headings and red for violations. Colors degrade to plain text
// automatically when standard output is not a terminal.
type ConsoleReporter struct {
	outputWriter     io.Writer
	headingFormatter *color.Color
	errorFormatter   *color.Color
	summaryFormatter *color.Color
	violationCount   int
}

// NewConsoleReporter constructs a reporter writing colored diagnostics to the
// supplied writer.
func NewConsoleReporter(outputWriter io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		outputWriter:     outputWriter,
		headingFormatter: color.New(color.FgYellow),
		errorFormatter:   color.New(color.FgRed),
		summaryFormatter: color.New(color.FgHiRed),
	}
}

// CheckStarted prints a yellow section heading.
func (reporter *ConsoleReporter) CheckStarted(checkDescription string) {
	reporter.headingFormatter.Fprintf(reporter.outputWriter, reporterLineTemplateConstant, checkDescription)
}

// ViolationFound prints a red violation line and counts it.
func (reporter *ConsoleReporter) ViolationFound(violationMessage string) {
	reporter.violationCount++
	reporter.errorFormatter.Fprintf(reporter.outputWriter, reporterLineTemplateConstant, violationLinePrefixConstant+violationMessage)
}

// FileStarted prints the name of the file about to be checked.
func (reporter *ConsoleReporter) FileStarted(filePath string) {
	fmt.Fprintf(reporter.outputWriter, reporterLineTemplateConstant, fmt.Sprintf(fileHeadingTemplateConstant, filePath))
}

// PrintSummary prints the closing failure banner when violations accumulated.
func (reporter *ConsoleReporter) PrintSummary() {
	if reporter.violationCount == 0 {
		return
	}
	reporter.summaryFormatter.Fprintf(reporter.outputWriter, reporterLineTemplateConstant, errorSummaryMessageConstant)
}

// ViolationCount returns the number of violations reported so far.
func (reporter *ConsoleReporter) ViolationCount() int {
	return reporter.violationCount
}

// RecordingReporter accumulates diagnostics in memory for tests and callers
// that post-process violations.
type RecordingReporter struct {
	Headings   []string
	Violations []string
}

// CheckStarted records the heading.
func (reporter *RecordingReporter) CheckStarted(checkDescription string) {
	reporter.Headings = append(reporter.Headings, checkDescription)
}

// ViolationFound records the violation message.
func (reporter *RecordingReporter) ViolationFound(violationMessage string) {
	reporter.Violations = append(reporter.Violations, violationMessage)
}
