package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ManifestError reports an unreadable or incomplete package.xml.
func ManifestError(path string, msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %s", msg, path))
	if cause != nil {
		return builder.WithCause(cause)
	}
	return builder
}

// UnresolvedDependencyError reports a dependency key the system
// resolver has no package for.
func UnresolvedDependencyError(dependency string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("unresolved dependency %s", dependency))
	if cause != nil {
		return builder.WithCause(cause)
	}
	return builder
}

// AdapterUnavailableError reports an external tool that could not be
// started or did not answer in time.
func AdapterUnavailableError(tool string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(fmt.Sprintf("%s is unavailable", tool)).
		WithCause(cause)
}

// RequiredByError names the component that needed an unresolved
// dependency, keeping the original code.
func RequiredByError(dependency string, component string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeOf(err)).
		WithMsg(fmt.Sprintf("unresolved dependency %s required by %s", dependency, component)).
		WithCause(err)
}

// ComponentError annotates err with the component being processed,
// keeping its code.
func ComponentError(component string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeOf(err)).
		WithMsg(fmt.Sprintf("%s: %s", component, ErrorMessage(err))).
		WithCause(err)
}

// ErrorMessage returns the builder message of err when it has one.
func ErrorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
