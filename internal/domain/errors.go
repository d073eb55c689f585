package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Extraction errors
	CodeFetchFailed ErrorCode = "FETCH_ERROR"
	CodeParseFailed ErrorCode = "PARSE_ERROR"

	// Synthesis errors
	CodeGenerationFailed ErrorCode = "GENERATION_ERROR"
	CodeSchemaInvalid    ErrorCode = "SCHEMA_ERROR"

	// Persistence errors
	CodeStorage      ErrorCode = "STORAGE_ERROR"
	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
	CodeCorruptData  ErrorCode = "CORRUPT_DATA"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first DomainError in err's chain,
// or CodeInternal when the chain carries none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// HasCode reports whether err's chain carries a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewFetchError(url string, err error) *DomainError {
	return NewError(CodeFetchFailed, fmt.Sprintf("Failed to fetch URL %s", url), err)
}

func NewParseError(message string, err error) *DomainError {
	return NewError(CodeParseFailed, message, err)
}

func NewGenerationError(err error) *DomainError {
	return NewError(CodeGenerationFailed, "Failed to generate quiz with LLM", err)
}

// NewSchemaError wraps the parser diagnostic of a rejected model reply.
func NewSchemaError(err error) *DomainError {
	return NewError(CodeSchemaInvalid, "LLM output does not match the quiz schema", err)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(CodeStorage, message, err)
}

func NewQuizNotFoundError(quizID int64) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %d", quizID), nil)
}

func NewCorruptDataError(quizID int64, err error) *DomainError {
	return NewError(CodeCorruptData, fmt.Sprintf("Stored quiz data is corrupt for ID: %d", quizID), err)
}
