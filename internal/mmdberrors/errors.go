package mmdberrors

import (
	"fmt"
	"reflect"
)

// InvalidDatabaseError is returned for a structural defect in the database
// that does not have a more specific tagged error type below. New call
// sites should generally prefer a tagged type so a caller can use
// errors.As to tell one failure mode from another; this one remains for
// conditions (an internal invariant violated, an oversized integer
// conversion) that don't warrant a variant of their own.
type InvalidDatabaseError struct {
	message string
}

func NewInvalidDatabaseError(format string, args ...any) InvalidDatabaseError {
	return InvalidDatabaseError{fmt.Sprintf(format, args...)}
}

func (e InvalidDatabaseError) Error() string {
	return e.message
}

// OffsetError is returned when a read would start at or cross the end of
// the database buffer.
type OffsetError struct{}

func NewOffsetError() OffsetError {
	return OffsetError{}
}

func (OffsetError) Error() string {
	return "unexpected end of database"
}

// InvalidDataTypeError is returned when a control byte's type tag does not
// match what the decoder expected at that point, either because a typed
// Read/Decode call found a different Kind than it asked for, or because the
// tag itself is not one of the known kinds. Code is the Kind (or raw type
// byte) actually found, for callers that want to branch on it.
type InvalidDataTypeError struct {
	Code int

	message string
}

func NewInvalidDataTypeError(code int, format string, args ...any) InvalidDataTypeError {
	return InvalidDataTypeError{Code: code, message: fmt.Sprintf(format, args...)}
}

func (e InvalidDataTypeError) Error() string {
	return e.message
}

// InvalidRecordSizeError is returned when the database metadata's
// record_size is not one of the three values the search tree format
// supports (24, 28, or 32 bits).
type InvalidRecordSizeError struct {
	Size uint
}

func NewInvalidRecordSizeError(size uint) InvalidRecordSizeError {
	return InvalidRecordSizeError{Size: size}
}

func (e InvalidRecordSizeError) Error() string {
	return fmt.Sprintf(
		"invalid record_size %d in database metadata; must be 24, 28, or 32",
		e.Size,
	)
}

// InvalidSearchTreeSizeError is returned when the metadata's node_count and
// record_size imply a search tree that does not fit within the database
// buffer.
type InvalidSearchTreeSizeError struct {
	message string
}

func NewInvalidSearchTreeSizeError(format string, args ...any) InvalidSearchTreeSizeError {
	return InvalidSearchTreeSizeError{message: fmt.Sprintf(format, args...)}
}

func (e InvalidSearchTreeSizeError) Error() string {
	return e.message
}

// InvalidNodeError is returned when a search tree walk lands on a record
// value that is neither a valid data pointer nor the node_count sentinel
// used for "no data".
type InvalidNodeError struct {
	message string
}

func NewInvalidNodeError(format string, args ...any) InvalidNodeError {
	return InvalidNodeError{message: fmt.Sprintf(format, args...)}
}

func (e InvalidNodeError) Error() string {
	return e.message
}

// MetadataNotFoundError is returned when the metadata start marker cannot
// be found in the database buffer at all.
type MetadataNotFoundError struct{}

func NewMetadataNotFoundError() MetadataNotFoundError {
	return MetadataNotFoundError{}
}

func (MetadataNotFoundError) Error() string {
	return "error opening database: invalid MaxMind DB file, metadata not found"
}

// CorruptSearchTreeError is returned when a resolved data pointer or node
// value falls outside the bounds the search tree geometry allows for.
type CorruptSearchTreeError struct {
	message string
}

func NewCorruptSearchTreeError(format string, args ...any) CorruptSearchTreeError {
	return CorruptSearchTreeError{message: fmt.Sprintf(format, args...)}
}

func (e CorruptSearchTreeError) Error() string {
	return e.message
}

// UnknownFieldError is returned by a struct decode opted into strict field
// validation (see decoder.StrictFields) when the source MAP contains a key
// with no corresponding struct field.
type UnknownFieldError struct {
	Name string
}

func NewUnknownFieldError(name string) UnknownFieldError {
	return UnknownFieldError{Name: name}
}

func (e UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Name)
}

type CacheTypeError struct {
	Type  string
	Value any
}

func NewCacheTypeStrError(value any, expType string) CacheTypeError {
	return CacheTypeError{
		Type:  expType,
		Value: value,
	}
}

func (e CacheTypeError) Error() string {
	return fmt.Sprintf("maxminddb: expected %s type in cache but found %T", e.Type, e.Value)
}

// UnmarshalTypeError is returned when the value in the database cannot be
// assigned to the specified data type.
type UnmarshalTypeError struct {
	Type  reflect.Type
	Value string
}

func NewUnmarshalTypeStrError(value string, rType reflect.Type) UnmarshalTypeError {
	return UnmarshalTypeError{
		Type:  rType,
		Value: value,
	}
}

func NewUnmarshalTypeError(value any, rType reflect.Type) UnmarshalTypeError {
	return NewUnmarshalTypeStrError(fmt.Sprintf("%v (%T)", value, value), rType)
}

func (e UnmarshalTypeError) Error() string {
	return fmt.Sprintf("maxminddb: cannot unmarshal %s into type %s", e.Value, e.Type)
}
