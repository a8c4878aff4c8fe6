package service

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogEntryNotFound means no catalog row matches the exam code.
	ErrCatalogEntryNotFound = errors.New("invalid exam code")

	// ErrRecordNotFound means the downstream endpoint reported no result
	// for the hall ticket number.
	ErrRecordNotFound = errors.New("no records found for this roll number")

	// ErrInvalidRequest means a required caller input is missing.
	ErrInvalidRequest = errors.New("examCode and htno are required")
)

// TransportError is a network-level failure reaching the downstream
// endpoint. The fetch is never retried by the service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch results: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RenderError is a document-conversion failure from the render service.
type RenderError struct {
	Msg string
	Err error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to generate PDF: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("failed to generate PDF: %s", e.Msg)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
