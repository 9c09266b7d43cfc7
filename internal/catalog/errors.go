package catalog

import (
	"fmt"
	"strings"
)

// LoadError reports a reference source that could not be read. It is fatal
// for required sources.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SchemaError reports a tabular source where no header matched a logical
// field.
type SchemaError struct {
	Source  string
	Field   Field
	Headers []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: no column for %s (accepted: %s; found: %s)",
		e.Source, e.Field, strings.Join(e.Field.Synonyms(), ", "), strings.Join(e.Headers, ", "))
}
