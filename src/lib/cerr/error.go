package cerr

import "fmt"

type F = map[string]interface{}

// Context carries structured fields that travel with an error so that
// whoever logs it can emit them as log fields instead of flattening
// everything into the message string.
type Context struct {
	ContextFields F
}

func Fields(fields F) Context {
	copied := F{}
	for k, v := range fields {
		copied[k] = v
	}

	return Context{ContextFields: copied}
}

func Field(key string, value interface{}) Context {
	return Fields(F{key: value})
}

func (c Context) Field(key string, value interface{}) Context {
	merged := F{}
	for k, v := range c.ContextFields {
		merged[k] = v
	}
	merged[key] = value

	return Context{ContextFields: merged}
}

func (c Context) Wrap(cause error) Wrapper {
	return Wrapper{
		context: c,
		cause:   cause,
	}
}

func (c Context) Error(message string) ContextualError {
	return ContextualError{
		Context: c,
		Message: message,
	}
}

func Wrap(cause error) Wrapper {
	return Context{}.Wrap(cause)
}

func Error(message string) ContextualError {
	return Context{}.Error(message)
}

type Wrapper struct {
	context Context
	cause   error
}

func (w Wrapper) Error(message string) ContextualError {
	return ContextualError{
		Context: w.context,
		Message: message,
		Cause:   w.cause,
	}
}

var _ error = ContextualError{}
var _ interface{ Unwrap() error } = ContextualError{}

type ContextualError struct {
	Context Context
	Message string
	Cause   error
}

func (c ContextualError) Unwrap() error {
	return c.Cause
}

func (c ContextualError) Error() string {
	if c.Cause == nil {
		return c.Message
	}

	return fmt.Sprintf("%s: %s", c.Message, c.Cause.Error())
}
