// Package errors provides the typed error kinds the engine surfaces across
// its component boundaries: parse, source resolution, entry-point lookup,
// and disassembly. Only ParseError aborts ingest; the others are returned
// per-call to the caller, never raised as a panic, per spec §7.
package errors

import (
	"fmt"
	"time"
)

// ErrorType names the broad category of an error for callers that want to
// branch without type-asserting to a concrete struct.
type ErrorType string

const (
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeResolve    ErrorType = "source_resolve"
	ErrorTypeEntryPoint ErrorType = "entry_lookup"
	ErrorTypeDisasm     ErrorType = "disassemble"
	ErrorTypeConfig     ErrorType = "config"
)

// ParseReason distinguishes the parser failure modes named in spec §7.
type ParseReason string

const (
	ReasonNoVocabulary  ParseReason = "no_vocabulary"
	ReasonMalformedRow  ParseReason = "malformed_row"
	ReasonInputTooLarge ParseReason = "input_too_large"
)

// ParseError reports a fatal parser failure. Only NoVocabulary and
// InputTooLarge abort ingest. MalformedRow names the skipped-row case; the
// parser skips malformed rows without constructing a ParseError.
type ParseError struct {
	Reason    ParseReason
	Line      int
	Token     string
	Timestamp time.Time
}

func NewParseError(reason ParseReason, line int, token string) *ParseError {
	return &ParseError{Reason: reason, Line: line, Token: token, Timestamp: time.Now()}
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse error (%s) at line %d near %q", e.Reason, e.Line, e.Token)
	}
	return fmt.Sprintf("parse error (%s) at line %d", e.Reason, e.Line)
}

// ResolveError reports a failed source-path resolution (spec §4.2).
// Callers treat it as "absent", not fatal.
type ResolveError struct {
	Path string
}

func NewResolveError(path string) *ResolveError {
	return &ResolveError{Path: path}
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("source not found: %s", e.Path)
}

// EntryError reports a failed entry-point resolution (spec §4.6).
type EntryError struct {
	Query string
}

func NewEntryError(query string) *EntryError {
	return &EntryError{Query: query}
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("no entry point matches %q", e.Query)
}

// DisasmReason distinguishes the disassembler adapter failure modes named
// in spec §4.7.
type DisasmReason string

const (
	DisasmPermissionDenied DisasmReason = "permission_denied"
	DisasmToolMissing      DisasmReason = "tool_missing"
	DisasmInvalidObject DisasmReason = "invalid_object_file"
	DisasmIO            DisasmReason = "io"
)

// DisasmError reports a disassembler adapter failure for one (object file,
// PC range) invocation.
type DisasmError struct {
	Reason     DisasmReason
	ObjectFile string
	Underlying error
}

func NewDisasmError(reason DisasmReason, objectFile string, err error) *DisasmError {
	return &DisasmError{Reason: reason, ObjectFile: objectFile, Underlying: err}
}

func (e *DisasmError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("disassemble %s: %s: %v", e.ObjectFile, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("disassemble %s: %s", e.ObjectFile, e.Reason)
}

func (e *DisasmError) Unwrap() error {
	return e.Underlying
}

// ConfigError reports a configuration validation failure.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
}

func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %q): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error {
	return e.Underlying
}
