package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeRequiredField     = "REQUIRED_FIELD"
	ErrCodeInvalidNumber     = "INVALID_NUMBER"
	ErrCodeInvalidLength     = "INVALID_LENGTH"
	ErrCodeInvalidRange      = "INVALID_RANGE"
	ErrCodeDuplicateInFile   = "DUPLICATE_IN_FILE"
	ErrCodeReferenceNotFound = "REFERENCE_NOT_FOUND"
	ErrCodeMalformedRow      = "MALFORMED_ROW"
)

// DefaultMaxErrors bounds the errors kept per file
const DefaultMaxErrors = 100

var (
	// ErrEmptyFile is returned when the file has no content
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not UTF-8
	ErrInvalidEncoding = errors.New("CSV file must be UTF-8 encoded")

	// ErrMissingHeader is returned when the first row names no columns
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrNoDataRows is returned when only a header is present
	ErrNoDataRows = errors.New("CSV file contains no data rows")
)

// RowError describes a problem with one field of one row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection keeps up to maxErrors row errors and counts the rest
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection; maxErrors <= 0 uses DefaultMaxErrors
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records an error
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a blank required column
func (ec *ErrorCollection) AddRequired(row int, column string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeRequiredField, Message: "field is required"})
}

// AddInvalidNumber records a value that is not a decimal number
func (ec *ErrorCollection) AddInvalidNumber(row int, column, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeInvalidNumber, Message: "must be a number", Value: value})
}

// AddTooLong records a value over maxLen characters
func (ec *ErrorCollection) AddTooLong(row int, column string, maxLen int) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeInvalidLength, Message: fmt.Sprintf("must be at most %d characters", maxLen)})
}

// AddNegative records a quantity below zero
func (ec *ErrorCollection) AddNegative(row int, column, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeInvalidRange, Message: "must not be negative", Value: value})
}

// AddDuplicate records a value repeated within the file
func (ec *ErrorCollection) AddDuplicate(row int, column, value string, firstRow int) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeDuplicateInFile, Message: fmt.Sprintf("duplicates row %d", firstRow), Value: value})
}

// AddReferenceNotFound records a reference to an unknown record
func (ec *ErrorCollection) AddReferenceNotFound(row int, column, value, refType string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeReferenceNotFound, Message: refType + " not found", Value: value})
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	if ec.errors == nil {
		return []RowError{}
	}
	return ec.errors
}

// TotalCount returns the number of errors seen, kept or not
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors reports whether any error was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated reports whether errors were dropped
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > len(ec.errors)
}
