// Package errors defines the error values shared by the routing engine and
// the operational wrapper used when an error crosses the engine boundary.
package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument is returned when a caller violates an input contract,
	// e.g. upserting a geometry with an empty node ID.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidEvent is returned when a geometry event cannot be decoded or
	// carries an unknown kind.
	ErrInvalidEvent = errors.New("invalid geometry event")

	// ErrInvalidConfig is returned when routing configuration fails validation.
	ErrInvalidConfig = errors.New("invalid routing configuration")

	// ErrInvalidFlow is returned when a flow document cannot be parsed or its
	// endpoint rules fail to compile.
	ErrInvalidFlow = errors.New("invalid flow document")
)

// OperationalError represents enhanced error information for debugging.
//
// It wraps errors with operational context including the diagram ID, the
// node ID and a timestamp, so that a problem reported by a host can be
// traced back to the event or pass that caused it.
type OperationalError struct {
	Operation  string                 // What operation was being performed
	DiagramID  string                 // Which diagram (engine instance)
	NodeID     string                 // Which node (if applicable)
	Timestamp  time.Time              // When error occurred
	Attributes map[string]interface{} // Additional context (optional)
	Cause      error                  // Underlying error
}

// NewOperationalError creates an OperationalError wrapping an error.
//
// Returns nil if cause is nil (no error to wrap).
//
// Example:
//
//	if err := reg.Apply(ev); err != nil {
//	    return NewOperationalError("applying event", diagramID, string(ev.ID), err)
//	}
func NewOperationalError(operation, diagramID, nodeID string, cause error) *OperationalError {
	if cause == nil {
		return nil
	}

	return &OperationalError{
		Operation: operation,
		DiagramID: diagramID,
		NodeID:    nodeID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewOperationalErrorWithAttrs creates an OperationalError with additional attributes.
//
// Returns nil if cause is nil (no error to wrap).
func NewOperationalErrorWithAttrs(operation, diagramID, nodeID string, cause error, attrs map[string]interface{}) *OperationalError {
	err := NewOperationalError(operation, diagramID, nodeID, cause)
	if err == nil {
		return nil
	}
	err.Attributes = attrs
	return err
}

// Error implements the error interface.
//
// Format: "[timestamp] operation: diagram={id} node={id}: {cause}"
// If node ID is empty, it's omitted from the message.
func (e *OperationalError) Error() string {
	if e == nil {
		return "<nil OperationalError>"
	}

	timestamp := e.Timestamp.Format(time.RFC3339)

	if e.NodeID != "" {
		return fmt.Sprintf("[%s] %s: diagram=%s node=%s: %v",
			timestamp, e.Operation, e.DiagramID, e.NodeID, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: diagram=%s: %v",
		timestamp, e.Operation, e.DiagramID, e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
