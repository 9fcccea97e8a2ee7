// Package core provides the tabular data engine.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Grid Errors (GRID001-GRID099)
//
// Errors returned by the engine for a rejected command. State is unchanged.
//
//	GRID001 - Row not found: The row no longer exists
//	          Action: Refresh the grid and try again
//	          Patterns: "row not found"
//
//	GRID002 - Field not found: The column no longer exists
//	          Action: Refresh the grid and try again
//	          Patterns: "field not found"
//
//	GRID003 - Protected column: Built-in columns cannot be changed this way
//	          Action: Add a custom column instead
//	          Patterns: "protected column"
//
//	GRID004 - Duplicate field key: A column with this name already exists
//	          Action: Choose a different column name
//	          Patterns: "duplicate field key"
//
//	GRID005 - Invalid label: Column name is empty
//	          Action: Enter a column name with at least one visible character
//	          Patterns: "invalid column label"
//
//	GRID006 - No active edit: No cell is being edited
//	          Action: Double-click a cell to edit it
//	          Patterns: "no active edit"
//
//	GRID007 - Invalid filter: The filter expression could not be parsed
//	          Action: Check the expression syntax, e.g. estValue > 1000
//	          Patterns: "invalid filter expression"
//
//	GRID008 - Unknown action: The menu action or command is not recognized
//	          Action: Reload the page
//	          Patterns: "unknown menu action", "unknown command"
//
//	GRID009 - Out of range: The row or column position is outside the view
//	          Action: Refresh the grid and try again
//	          Patterns: "index out of range"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: Your editing session has expired
//	         Action: Reload the page to start a new session
//	         Patterns: "session not found"
//
//	SES002 - Too many sessions: The server is at capacity
//	         Action: Please try again in a few minutes
//	         Patterns: "too many sessions"
//
//	SES003 - Menu closed: The context menu is no longer open
//	         Action: Right-click the cell again
//	         Patterns: "context menu is not open"
//
// # File Errors (FILE001-FILE099)
//
// Errors related to import file handling and parsing:
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large"
//
//	FILE002 - Invalid file: File could not be parsed
//	          Action: Ensure the file is a valid CSV or XLSX workbook
//	          Patterns: "invalid import file"
//
//	FILE003 - Too many rows: File has more rows than allowed
//	          Action: Split the file into smaller chunks
//	          Patterns: "too many rows"
//
//	FILE004 - Empty file: File has no header row
//	          Action: Add a header row naming the columns
//	          Patterns: "empty file", "no file provided"
//
//	FILE005 - Unsupported format: Only CSV and XLSX are supported
//	          Action: Choose csv or xlsx
//	          Patterns: "unsupported format"
//
//	FILE006 - Import busy: Too many imports are running
//	          Action: Please wait and try again
//	          Patterns: "too many concurrent imports"
//
// # Rate Limit Errors (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Session Errors (SES001-SES003)
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your editing session has expired",
			Action:  "Reload the page to start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many sessions",
		msg: UserMessage{
			Message: "The server is at capacity",
			Action:  "Please try again in a few minutes",
			Code:    "SES002",
		},
	},
	{
		pattern: "context menu is not open",
		msg: UserMessage{
			Message: "The context menu is no longer open",
			Action:  "Right-click the cell again",
			Code:    "SES003",
		},
	},

	// =========================================================================
	// Grid Errors (GRID001-GRID009)
	// =========================================================================
	{
		pattern: "row not found",
		msg: UserMessage{
			Message: "The row no longer exists",
			Action:  "Refresh the grid and try again",
			Code:    "GRID001",
		},
	},
	{
		pattern: "field not found",
		msg: UserMessage{
			Message: "The column no longer exists",
			Action:  "Refresh the grid and try again",
			Code:    "GRID002",
		},
	},
	{
		pattern: "protected column",
		msg: UserMessage{
			Message: "Built-in columns cannot be changed this way",
			Action:  "Add a custom column instead",
			Code:    "GRID003",
		},
	},
	{
		pattern: "duplicate field key",
		msg: UserMessage{
			Message: "A column with this name already exists",
			Action:  "Choose a different column name",
			Code:    "GRID004",
		},
	},
	{
		pattern: "invalid column label",
		msg: UserMessage{
			Message: "Column name is empty",
			Action:  "Enter a column name with at least one visible character",
			Code:    "GRID005",
		},
	},
	{
		pattern: "no active edit",
		msg: UserMessage{
			Message: "No cell is being edited",
			Action:  "Double-click a cell to edit it",
			Code:    "GRID006",
		},
	},
	{
		pattern: "invalid filter expression",
		msg: UserMessage{
			Message: "The filter expression could not be parsed",
			Action:  "Check the expression syntax, e.g. estValue > 1000",
			Code:    "GRID007",
		},
	},
	{
		pattern: "unknown menu action",
		msg: UserMessage{
			Message: "The action is not recognized",
			Action:  "Reload the page",
			Code:    "GRID008",
		},
	},
	{
		pattern: "unknown command",
		msg: UserMessage{
			Message: "The action is not recognized",
			Action:  "Reload the page",
			Code:    "GRID008",
		},
	},
	{
		pattern: "index out of range",
		msg: UserMessage{
			Message: "The row or column position is outside the view",
			Action:  "Refresh the grid and try again",
			Code:    "GRID009",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid import file",
		msg: UserMessage{
			Message: "File could not be parsed",
			Action:  "Ensure the file is a valid CSV or XLSX workbook",
			Code:    "FILE002",
		},
	},
	{
		pattern: "too many rows",
		msg: UserMessage{
			Message: "File has more rows than allowed",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "File has no header row",
			Action:  "Add a header row naming the columns",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was uploaded",
			Action:  "Choose a file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "Only CSV and XLSX are supported",
			Action:  "Choose csv or xlsx",
			Code:    "FILE005",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "Too many imports are running",
			Action:  "Please wait and try again",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("%w: region", ErrDuplicateFieldKey))
//	// msg.Code == "GRID004"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
