// Package services defines the business logic for the conversation store,
// the bookmark store, and sharing. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; mapping
// them to user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrEmptyPrompt is returned when a submission contains no text after
	// trimming. The conversation state is untouched.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrBusy is returned when a submission arrives while another one is
	// still in flight. Exactly one submission may be outstanding at a time;
	// the conversation state is untouched.
	ErrBusy = errors.New("a submission is already in flight")

	// ErrTooLong is returned when a submission exceeds the configured
	// maximum length.
	ErrTooLong = errors.New("prompt too long")

	// ErrMessageNotFound indicates that the referenced conversation message
	// does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrBookmarkNotFound indicates that no saved issue exists for the
	// requested id.
	ErrBookmarkNotFound = errors.New("saved issue not found")

	// ErrNoSelection is returned when no saved issue is currently being
	// inspected.
	ErrNoSelection = errors.New("no saved issue selected")
)
