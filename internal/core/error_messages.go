package core

// error_messages.go maps technical errors to user-facing messages.
//
// Each message carries a code that users can quote to support:
//
//	FILE001 - File too large          FILE004 - No file selected
//	FILE002 - Invalid CSV             FILE005 - Empty file
//	FILE003 - Encoding error          FILE006 - Invalid workbook
//	UPL002  - Too many uploads        UPL004  - Request cancelled
//	UPL005  - Request timed out
//	REQ001  - Invalid request body    REQ002  - Missing required field
//	REQ003  - Unsupported format
//	EXP001  - Export failed
//	RATE001 - Rate limit exceeded
//	ERR000  - Anything else
//
// Sentinel errors are matched first with errors.Is. Errors without a
// sentinel fall back to case-insensitive patterns on the error text.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/roster/internal/table"
)

// Sentinel errors returned by the service. Handlers classify with errors.Is.
var (
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidRequest    = errors.New("invalid request body")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// UserMessage is a user-friendly rendering of an error.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

// User messages, one per code.
var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Remove unused rows or columns and upload again",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Check for unbalanced quotes and upload again",
		Code:    "FILE002",
	}
	msgEncoding = UserMessage{
		Message: "File contains characters that could not be decoded",
		Action:  "Save the file as UTF-8 and upload again",
		Code:    "FILE003",
	}
	msgNoFile = UserMessage{
		Message: "No file was provided",
		Action:  "Select a CSV or XLSX file to upload",
		Code:    "FILE004",
	}
	msgNoSelectedFile = UserMessage{
		Message: "No file was selected",
		Action:  "Select a CSV or XLSX file to upload",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file has no header row",
		Action:  "Upload a file whose first row names the columns",
		Code:    "FILE005",
	}
	msgInvalidWorkbook = UserMessage{
		Message: "File is not a readable spreadsheet",
		Action:  "Save the workbook as .xlsx and upload again",
		Code:    "FILE006",
	}
	msgTooManyUploads = UserMessage{
		Message: "Too many uploads in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgCanceled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try again with a smaller file",
		Code:    "UPL005",
	}
	msgInvalidRequest = UserMessage{
		Message: "Request body is not valid",
		Action:  "Check the request payload and group labels",
		Code:    "REQ001",
	}
	msgMissingField = UserMessage{
		Message: "A required field is missing from the request",
		Action:  "Send userIds, groupsToAdd and groupsToRemove",
		Code:    "REQ002",
	}
	msgUnsupportedFormat = UserMessage{
		Message: "Requested file format is not supported",
		Action:  "Use csv or xlsx",
		Code:    "REQ003",
	}
	msgExport = UserMessage{
		Message: "An error occurred while exporting users",
		Action:  "Please try again",
		Code:    "EXP001",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a minute before trying again",
		Code:    "RATE001",
	}
)

type errorSentinel struct {
	err error
	msg UserMessage
}

// errorSentinels are checked with errors.Is before any text matching, so
// user-controlled text in an error (a file name) cannot change its code.
var errorSentinels = []errorSentinel{
	{err: table.ErrEncoding, msg: msgEncoding},
	{err: table.ErrInvalidCSV, msg: msgInvalidCSV},
	{err: table.ErrInvalidWorkbook, msg: msgInvalidWorkbook},
	{err: table.ErrEmptyFile, msg: msgEmptyFile},
	{err: table.ErrExport, msg: msgExport},
	{err: ErrTooManyUploads, msg: msgTooManyUploads},
	{err: context.Canceled, msg: msgCanceled},
	{err: context.DeadlineExceeded, msg: msgTimeout},
	{err: ErrMissingField, msg: msgMissingField},
	{err: ErrInvalidRequest, msg: msgInvalidRequest},
	{err: ErrUnsupportedFormat, msg: msgUnsupportedFormat},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns cover errors from outside this module that have no
// sentinel to match.
var errorPatterns = []errorPattern{
	{pattern: "file too large", msg: msgFileTooLarge},
	{pattern: "request body too large", msg: msgFileTooLarge},
	{pattern: "no file part", msg: msgNoFile},
	{pattern: "no selected file", msg: msgNoSelectedFile},
	{pattern: "rate limit exceeded", msg: msgRateLimited},
	{pattern: "context canceled", msg: msgCanceled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a UserMessage. A nil error maps to
// the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.err) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
