package tsrerr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSyntax               ErrorType = "SyntaxError"
	TypeUnsupportedConstruct ErrorType = "UnsupportedConstruct"
	TypeUnsupportedLiteral   ErrorType = "UnsupportedLiteral"
	TypeUnsupportedName      ErrorType = "UnsupportedName"
	TypeConfig               ErrorType = "ConfigError"
	TypeSemantic             ErrorType = "SemanticError"
)

// ReflectError is the interface for all tsreflect errors.
type ReflectError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for tsreflect errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// SyntaxError represents an error reported by the TypeScript frontend.
type SyntaxError struct {
	BaseError
	Line     int
	Column   int
	FilePath string
}

func (e *SyntaxError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("[%s] %s:%d:%d %s", e.ErrType, e.FilePath, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// SemanticError reports a well-formed file whose declarations cannot be
// resolved consistently, such as a type alias declared twice.
type SemanticError struct {
	BaseError
	Line     int
	Column   int
	FilePath string
}

func (e *SemanticError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("[%s] %s:%d:%d %s", e.ErrType, e.FilePath, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// UnsupportedError is raised when a node, literal or name has no descriptor
// representation. Kind names the offending syntax kind.
type UnsupportedError struct {
	BaseError
	Kind   string
	Line   int
	Column int
}

func (e *UnsupportedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	BaseError
	Field string
}

// DeclarationError attributes a failure to the declaration that was being compiled.
type DeclarationError struct {
	Name string
	Err  error
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("declaration %q: %v", e.Name, e.Err)
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// Type reports the type of the wrapped error.
func (e *DeclarationError) Type() ErrorType {
	var re ReflectError
	if errors.As(e.Err, &re) {
		return re.Type()
	}
	return "DeclarationError"
}

// MultiError collects multiple tsreflect errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Unwrap() []error {
	return m.Errors
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if re, ok := m.Errors[0].(ReflectError); ok {
			return re.Type()
		}
	}
	return "MultiError"
}

// NewSyntaxError creates a new SyntaxError.
func NewSyntaxError(filePath string, line, column int, msg string) *SyntaxError {
	return &SyntaxError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSyntax,
		},
		Line:     line,
		Column:   column,
		FilePath: filePath,
	}
}

// NewSemanticError creates a new SemanticError.
func NewSemanticError(filePath string, line, column int, msg string) *SemanticError {
	return &SemanticError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeSemantic,
		},
		Line:     line,
		Column:   column,
		FilePath: filePath,
	}
}

// NewUnsupportedConstruct reports a type-annotation node kind without a compilation rule.
func NewUnsupportedConstruct(kind string, line, column int) *UnsupportedError {
	return newUnsupported(TypeUnsupportedConstruct, kind, line, column,
		fmt.Sprintf("no reflection for syntax kind '%s' found", kind))
}

// NewUnsupportedLiteral reports a literal type without a runtime representation.
func NewUnsupportedLiteral(kind string, line, column int) *UnsupportedError {
	return newUnsupported(TypeUnsupportedLiteral, kind, line, column,
		fmt.Sprintf("no literal type reflection for syntax kind '%s' found", kind))
}

// NewUnsupportedName reports a property or declaration name that cannot be
// turned into a literal or an expression.
func NewUnsupportedName(kind string, line, column int) *UnsupportedError {
	return newUnsupported(TypeUnsupportedName, kind, line, column,
		fmt.Sprintf("name for syntax kind '%s' could not be generated", kind))
}

func newUnsupported(t ErrorType, kind string, line, column int, msg string) *UnsupportedError {
	return &UnsupportedError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: t,
		},
		Kind:   kind,
		Line:   line,
		Column: column,
	}
}

// NewConfigError creates a ConfigError for the given field.
func NewConfigError(field, msg string) *ConfigError {
	return &ConfigError{
		BaseError: BaseError{
			Msg:     fmt.Sprintf("%s: %s", field, msg),
			ErrType: TypeConfig,
		},
		Field: field,
	}
}
