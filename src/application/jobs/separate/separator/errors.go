package separator

import (
	"errors"
	"fmt"
)

// Kind classifies every way a vocal extraction run can fail. Callers
// branch on the kind via KindOf instead of parsing message text.
type Kind string

const (
	InvalidKind Kind = ""

	// required configuration value missing or pointing nowhere
	ConfigurationError Kind = "configuration_error"
	// runtime environment could not be activated or entered
	EnvironmentError Kind = "environment_error"
	// input path does not reference an existing regular file
	InputNotFoundError Kind = "input_not_found"
	// the separation tool exited non-zero or crashed
	SeparationFailedError Kind = "separation_failed"
	// the tool ran but produced no vocal artifact
	ArtifactNotFoundError Kind = "artifact_not_found"
	// the final artifact could not be written to its destination
	OutputWriteError Kind = "output_write_error"
)

var _ error = Error{}
var _ interface{ Unwrap() error } = Error{}

type Error struct {
	// these are deliberately left public
	// so that embedders can inspect
	Kind    Kind
	Message string
	Cause   error
}

func NewError(kind Kind, message string, cause error) Error {
	return Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func (e Error) Unwrap() error {
	return e.Cause
}

func (e Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
}

// KindOf reports the failure class of err, or InvalidKind if err did not
// come out of a vocal extraction run.
func KindOf(err error) Kind {
	var extractionErr Error
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}

	return InvalidKind
}
