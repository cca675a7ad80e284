package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) because wrapped errors need errors.Is() traversal in order.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrConfigParse,
		info: ErrorInfo{
			Message: "The configuration file is not valid YAML.",
			Action:  "Fix the syntax error at the reported location in skillreport.yaml.",
		},
	},
	{
		err: ErrConfigNotMapping,
		info: ErrorInfo{
			Message: "The configuration file must contain a mapping of keys to values.",
			Action:  "Make sure skillreport.yaml starts with top-level keys such as 'projects:'.",
		},
	},
	{
		err: ErrConfigField,
		info: ErrorInfo{
			Message: "A configuration value has the wrong type for its field.",
			Action:  "Check the reported field path; durations look like '10s', lists like [a, b].",
		},
	},
	{
		err: ErrConfigObjectExpected,
		info: ErrorInfo{
			Message: "A configuration section was given a plain value instead of nested keys.",
			Action:  "Indent the section's fields under the reported key.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "The configuration is well-formed but failed validation.",
			Action:  "Run 'skillreport config validate' and fix every reported error.",
		},
	},
	{
		err: ErrProjectNotFound,
		info: ErrorInfo{
			Message: "The requested project is not configured.",
			Action:  "Add the project under 'projects:' or run 'skillreport config show' to list projects.",
		},
	},
	{
		err: ErrWatchFailed,
		info: ErrorInfo{
			Message: "Could not watch the configuration file for changes.",
			Action:  "Check that the project root exists and is readable.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error, falling back
// to the error's own message when no sentinel matches.
func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
