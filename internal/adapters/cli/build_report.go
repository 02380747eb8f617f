package cli

import (
	"fmt"
	"io"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type colorWriter interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Writer() io.Writer
	ErrWriter() io.Writer
}

type BuildError struct {
	Subject string
	Message string
	Details []string
}

type BuildReport struct {
	colors      colorWriter
	steps       []BuildStep
	warnings    []BuildError
	errors      []BuildError
	startTime   time.Time
	entryCount  int
	pageCount   int
	outputDir   string
	hasFailures bool
	now         func() time.Time
}

func NewBuildReport(colors colorWriter, outputDir string) *BuildReport {
	return &BuildReport{
		colors:    colors,
		steps:     make([]BuildStep, 0),
		warnings:  make([]BuildError, 0),
		errors:    make([]BuildError, 0),
		startTime: time.Now(),
		outputDir: outputDir,
		now:       time.Now,
	}
}

func (r *BuildReport) SetCounts(entries, pages int) {
	r.entryCount = entries
	r.pageCount = pages
}

// StartStep returns the index of the new step; pass it to EndStep.
func (r *BuildReport) StartStep(name string) int {
	r.steps = append(r.steps, BuildStep{
		Name:      name,
		StartTime: r.now(),
	})
	return len(r.steps) - 1
}

func (r *BuildReport) EndStep(index int, success bool, err string) {
	step := &r.steps[index]
	step.EndTime = r.now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddWarning(subject string, message string, details []string) {
	r.warnings = append(r.warnings, BuildError{
		Subject: subject,
		Message: message,
		Details: details,
	})
}

func (r *BuildReport) AddError(subject string, message string, details []string) {
	r.errors = append(r.errors, BuildError{
		Subject: subject,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *BuildReport) Steps() []BuildStep {
	return r.steps
}

func (r *BuildReport) Warnings() []BuildError {
	return r.warnings
}

func (r *BuildReport) Render() {
	duration := r.now().Sub(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	w := r.colors.Writer()
	fmt.Fprintf(w, "  %s%d entries, %d pages\n", r.colors.Green("✓ "), r.entryCount, r.pageCount)

	var failed []string
	for _, step := range r.steps {
		if !step.Success {
			failed = append(failed, "  "+r.colors.Red("✗ ")+step.Name)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintf(w, "  %sBuild complete in %s\n", r.colors.Green("✓ "), formatDuration(duration))
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failed steps:")
		for _, line := range failed {
			fmt.Fprintln(w, line)
		}
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	w := r.colors.Writer()
	errOut := r.colors.ErrWriter()
	fmt.Fprintf(w, "  %d entries, %d pages\n", r.entryCount, r.pageCount)

	fmt.Fprintln(w)
	for _, step := range r.steps {
		status := r.colors.Green("✓")
		if !step.Success {
			status = r.colors.Red("✗")
		}
		fmt.Fprintf(w, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(errOut)
		fmt.Fprintf(errOut, "  %sErrors (%d):\n", r.colors.Red("✗ "), len(r.errors))
		r.renderErrors(errOut, r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %sWarnings (%d):\n", r.colors.Yellow("⚠ "), len(r.warnings))
		r.renderErrors(w, r.warnings)
	}

	fmt.Fprintln(w)
	if len(r.errors) > 0 {
		fmt.Fprintf(errOut, "  %s\n", r.colors.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		fmt.Fprintf(w, "  %sBuild complete in %s\n", r.colors.Green("✓ "), formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.colors.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderErrors(w io.Writer, errors []BuildError) {
	for _, err := range errors {
		fmt.Fprintf(w, "  %s %s\n", r.colors.Red("✗"), err.Subject)
		fmt.Fprintf(w, "    %s\n", err.Message)

		for _, detail := range deduplicateStrings(err.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings collapses repeated details, keeping first-seen order.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}
	return result
}

