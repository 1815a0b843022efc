package script

import "fmt"

// ConfigShapeError reports a script document that cannot be turned into
// steps. The run never starts.
type ConfigShapeError struct {
	Field  string // "commands", "expect", or "" for the document itself
	Index  int    // entry index, -1 when the whole field is at fault
	Reason string
	Err    error
}

func (e *ConfigShapeError) Error() string {
	msg := "invalid script"
	switch {
	case e.Field != "" && e.Index >= 0:
		msg += fmt.Sprintf(": %s[%d]", e.Field, e.Index)
	case e.Field != "":
		msg += ": " + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigShapeError) Unwrap() error {
	return e.Err
}
