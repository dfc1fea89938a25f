package progress

import (
	"fmt"
)

// formatFileCounter returns the [N/Total] file counter string
func formatFileCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildFileMessage constructs the spinner message for one document
func buildFileMessage(path string, number, total int) string {
	return fmt.Sprintf("%s Validating %s...", formatFileCounter(number, total), path)
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m" // Green
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m" // Red
	}
	return mark
}
