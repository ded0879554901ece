package errors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// exitCodes maps categories to process exit codes. Errors outside the
// FolioError family exit with 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryConfig:     7,
	CategoryContent:    9,
	CategoryInternal:   10,
	CategoryRender:     11,
	CategoryFileSystem: 11,
	CategoryRuntime:    12,
}

// CLIErrorAdapter turns a command error into a stderr message, an optional
// log record and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter returns an adapter logging to logger, or to the default
// logger when logger is nil.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor returns the exit code for err; nil exits 0.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if fe, ok := As(err); ok {
		if code, known := exitCodes[fe.Category]; known {
			return code
		}
	}
	return 1
}

// FormatError renders err for the terminal. Config and validation errors
// print their message alone since they point at something the user wrote.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	fe, ok := As(err)
	switch {
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return fe.Error()
	case fe.Category != CategoryConfig && fe.Category != CategoryValidation:
		return fmt.Sprintf("%s: %s", fe.Category, fe.Message)
	case fe.Cause != nil:
		return fmt.Sprintf("%s: %v", fe.Message, fe.Cause)
	default:
		return fe.Message
	}
}

// HandleError reports err and exits the process. It returns only when err is
// nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.log(err)
	fmt.Fprintln(os.Stderr, a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

// log writes a record for unclassified, internal, runtime and fatal errors,
// and for every error in verbose mode.
func (a *CLIErrorAdapter) log(err error) {
	fe, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	quiet := fe.Category != CategoryInternal && fe.Category != CategoryRuntime && fe.Severity != SeverityFatal
	if quiet && !a.verbose {
		return
	}

	level := slog.LevelError
	if fe.Severity == SeverityWarning {
		level = slog.LevelWarn
	}
	attrs := make([]slog.Attr, 0, len(fe.Context)+2)
	attrs = append(attrs, slog.String("category", string(fe.Category)))
	for k, v := range fe.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	if fe.Cause != nil {
		attrs = append(attrs, slog.String("cause", fe.Cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), level, fe.Message, attrs...)
}
