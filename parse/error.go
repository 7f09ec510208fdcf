// Package parse extracts native-method and @CalledByNative declarations
// from Java source text or javap disassembly, producing the model records
// the header generator consumes.
package parse

import (
	"fmt"
	"strings"
)

// ParseError reports input that could not be parsed, with the source lines
// around the failure. Any ParseError aborts generation for the file; a
// malformed binding header would silently miscompile downstream.
type ParseError struct {
	Description  string
	ContextLines []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("***\nERROR: %s\n\n%s\n***", e.Description, strings.Join(e.ContextLines, "\n"))
}

func newParseError(description string, contextLines ...string) *ParseError {
	return &ParseError{Description: description, ContextLines: contextLines}
}
