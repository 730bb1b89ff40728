package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrorOverrideNotPermitted is returned by the frequency resolver and the
// override write path when the context lacks the override role.
var ErrorOverrideNotPermitted = errors.New("not permitted to override pm frequency")

// The error taxonomy below is shared by every manager: validation and
// duplicate errors go back to the caller verbatim, configuration and store
// errors are recorded per item so a batch can keep going.

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
	Entity string
	Id     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Id)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrorRecordNotFound
}

func NewNotFoundError(entity string, id any) error {
	return &NotFoundError{Entity: entity, Id: id}
}

type DuplicateError struct {
	Entity string
	Name   string
	Scope  string
}

func (e *DuplicateError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("%s %q already exists", e.Entity, e.Name)
	}
	return fmt.Sprintf("%s %q already exists under %s", e.Entity, e.Name, e.Scope)
}

func NewDuplicateError(entity string, name string, scope string) error {
	return &DuplicateError{Entity: entity, Name: name, Scope: scope}
}

// ConfigurationError means required reference data is missing (for example
// no PM work-order type is defined). The affected item is aborted, never the
// whole batch.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}

// CannotArchiveError reports why a hierarchy entity refused to archive,
// including how many live rows still reference it.
type CannotArchiveError struct {
	Entity     string
	Id         int
	References int64
	Referer    string
}

func (e *CannotArchiveError) Error() string {
	return fmt.Sprintf("cannot archive %s %d: %d live %s still reference it",
		e.Entity, e.Id, e.References, e.Referer)
}

// StoreError wraps a transient backend failure so callers can tell it apart
// from domain errors.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsDuplicateError(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
