// Package simerr defines the error vocabulary shared by every core package:
// genesis-core's genome, graph, population and round components all
// construct and recognise the same six kinds so callers can dispatch on
// errors.Is without reaching into package-private types.
package simerr

import "errors"

// Kind identifies one of the core's recognised error categories.
type Kind int

const (
	// InvalidGenome marks a genome constructed with an out-of-range trait
	// or an unknown domain key. Fatal for construction.
	InvalidGenome Kind = iota
	// UnknownAgent marks an operation referencing an id not in the cohort.
	UnknownAgent
	// DuplicateConnection marks an attempt to create an edge that already
	// exists. Handled idempotently by callers; not itself fatal.
	DuplicateConnection
	// SelfConnection marks an attempted self-edge.
	SelfConnection
	// PersistenceFailure marks a reported failure from the sink.
	PersistenceFailure
	// ConfigError marks an out-of-range configuration value. Fatal at
	// construction.
	ConfigError
)

func (k Kind) String() string {
	switch k {
	case InvalidGenome:
		return "invalid_genome"
	case UnknownAgent:
		return "unknown_agent"
	case DuplicateConnection:
		return "duplicate_connection"
	case SelfConnection:
		return "self_connection"
	case PersistenceFailure:
		return "persistence_failure"
	case ConfigError:
		return "config_error"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with a human-readable message and optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a sentinel for this error's Kind, so callers
// can write errors.Is(err, simerr.UnknownAgentErr) without a type assertion.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind, chaining cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Sentinels for errors.Is comparisons against a specific kind regardless of
// message, e.g. errors.Is(err, UnknownAgentErr).
var (
	InvalidGenomeErr       = &Error{Kind: InvalidGenome}
	UnknownAgentErr        = &Error{Kind: UnknownAgent}
	DuplicateConnectionErr = &Error{Kind: DuplicateConnection}
	SelfConnectionErr      = &Error{Kind: SelfConnection}
	PersistenceFailureErr  = &Error{Kind: PersistenceFailure}
	ConfigErrorErr         = &Error{Kind: ConfigError}
)

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
