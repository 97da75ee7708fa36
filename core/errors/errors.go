// Package errors provides the error taxonomy shared by the documentation fixer.
//
// Every typed error unwraps to one of the sentinels below so callers can
// classify failures with errors.Is without caring about the concrete type.
// Only ErrStructuralInvariant is fatal to a synchronization run; every other
// condition is a localized skip.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingDocumentation indicates a type has no documentation unit
	ErrMissingDocumentation = errors.New("missing documentation")
	// ErrStaleDocumentation indicates a documentation unit lags behind the metadata
	ErrStaleDocumentation = errors.New("stale documentation")
	// ErrMissingCrossReference indicates a referenced type's unit is unreachable
	ErrMissingCrossReference = errors.New("missing cross reference")
	// ErrStructuralInvariant indicates a condition the run cannot continue past
	ErrStructuralInvariant = errors.New("structural invariant violated")
	// ErrMalformedContent indicates a documentation tree with an unexpected shape
	ErrMalformedContent = errors.New("malformed content")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "type", "member", "symbol")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "YAML", "type reference")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// MissingDocumentationError reports a type whose documentation unit is absent.
type MissingDocumentationError struct {
	Type string // Full name of the type
	Path string // Path the unit was expected at
}

func (e *MissingDocumentationError) Error() string {
	return fmt.Sprintf("document missing for type %s (expected %s), must run update-docs", e.Type, e.Path)
}

func (e *MissingDocumentationError) Unwrap() error {
	return ErrMissingDocumentation
}

// StaleDocumentationError reports a metadata member with no matching doc node.
type StaleDocumentationError struct {
	Type   string // Full name of the declaring type
	Member string // Member name or selector
	Node   string // Description of the node that was expected
}

func (e *StaleDocumentationError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s document is not up-to-date with the latest assembly (could not find %s for %s)", e.Type, e.Node, e.Member)
	}
	return fmt.Sprintf("%s document is not up-to-date with the latest assembly (could not find %s)", e.Type, e.Member)
}

func (e *StaleDocumentationError) Unwrap() error {
	return ErrStaleDocumentation
}

// MissingCrossReferenceError reports a result or delegate type whose unit
// could not be loaded while synthesizing another member's documentation.
type MissingCrossReferenceError struct {
	Type     string // Referenced type
	Referrer string // Fully qualified member that referenced it
	Err      error  // Underlying error, if any
}

func (e *MissingCrossReferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load the documentation for %s referenced by %s: %v", e.Type, e.Referrer, e.Err)
	}
	return fmt.Sprintf("failed to load the documentation for %s referenced by %s", e.Type, e.Referrer)
}

func (e *MissingCrossReferenceError) Unwrap() error {
	return ErrMissingCrossReference
}

// StructuralError reports a violated invariant of the documentation tree that
// makes continuing the run pointless.
type StructuralError struct {
	Type   string // Type being processed
	Path   string // Path involved, if any
	Reason string // What was violated
}

func (e *StructuralError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s for type %s (%s)", e.Reason, e.Type, e.Path)
	}
	return fmt.Sprintf("%s for type %s", e.Reason, e.Type)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructuralInvariant
}

// MalformedContentError reports a doc node with an unexpected shape.
type MalformedContentError struct {
	Type    string // Type being processed
	Member  string // Member being processed
	Node    string // Node with the unexpected shape
	Message string // Error details
}

func (e *MalformedContentError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("malformed %s in %s.%s: %s", e.Node, e.Type, e.Member, e.Message)
	}
	return fmt.Sprintf("malformed %s in %s: %s", e.Node, e.Type, e.Message)
}

func (e *MalformedContentError) Unwrap() error {
	return ErrMalformedContent
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewStale creates a StaleDocumentationError
func NewStale(typeName, member, node string) *StaleDocumentationError {
	return &StaleDocumentationError{
		Type:   typeName,
		Member: member,
		Node:   node,
	}
}

// NewMalformed creates a MalformedContentError
func NewMalformed(typeName, member, node, message string) *MalformedContentError {
	return &MalformedContentError{
		Type:    typeName,
		Member:  member,
		Node:    node,
		Message: message,
	}
}

// Fatal reports whether err must abort a synchronization run.
func Fatal(err error) bool {
	return errors.Is(err, ErrStructuralInvariant)
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Join wraps errors.Join for convenience
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
