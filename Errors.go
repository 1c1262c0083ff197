package dbmigrate

import (
	"errors"
	"fmt"
	"strings"
)

// The kinds of error reported by this package.  Structural kinds are detected
// before any statement is executed.
var (
	ErrInvalidArtifact      = errors.New("invalid artifact")
	ErrDuplicateIdentifier  = errors.New("duplicate migration identifier")
	ErrDuplicateName        = errors.New("duplicate script name")
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	ErrCyclicDependency     = errors.New("cyclic dependency")

	ErrExecutionFailure    = errors.New("execution failure")
	ErrHistoryStoreFailure = errors.New("history store failure")

	ErrUnknownMigration = errors.New("unknown migration")
	ErrNotApplied       = errors.New("migration not applied")
	ErrNoRollback       = errors.New("migration has no rollback statement")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Error ties an error kind to the artifact it concerns.  errors.Is matches
// both the Kind and the underlying Err.
type Error struct {
	Kind     error
	Artifact string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Artifact != "" {
		fmt.Fprintf(&b, " in '%v'", e.Artifact)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func newError(kind error, artifact string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Artifact: artifact, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind error, artifact string, err error) error {
	return &Error{Kind: kind, Artifact: artifact, Err: err}
}

func storeError(operation string, err error) error {
	return &Error{Kind: ErrHistoryStoreFailure, Msg: operation, Err: err}
}

func cycleError(path []string) error {
	return &Error{
		Kind:     ErrCyclicDependency,
		Artifact: path[0],
		Msg:      "cycle: " + strings.Join(path, " -> "),
	}
}

// FailedArtifact returns the identity of the artifact named by err, if any.
func FailedArtifact(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Artifact != "" {
		return e.Artifact, true
	}

	return "", false
}

// attribute names artifact in err, classifying errors that carry no kind as
// execution failures.
func attribute(err error, artifact string) error {
	var e *Error
	if !errors.As(err, &e) {
		return wrapError(ErrExecutionFailure, artifact, err)
	}

	if e.Artifact != "" {
		return err
	}

	named := *e
	named.Artifact = artifact
	return &named
}
