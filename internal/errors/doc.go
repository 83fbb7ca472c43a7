// Package errors provides coded, categorized errors for cosmos.
//
// Every error carries a short code (E100-E499) registered with a message,
// a longer explanation and a documentation link. The CLI prints them with
// Format; servers report FormatCompact or Error.
//
//	err := errors.New("E200").WithSubject("button-primary")
//	errors.PrintError(err)
package errors
