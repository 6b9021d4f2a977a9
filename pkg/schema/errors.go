package schema

import "fmt"

// FieldError reports a schema entry that cannot be compiled. Compilation is
// fail-fast: the first bad entry aborts the whole schema and no composite
// validator is produced.
type FieldError struct {
	Name   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schema: field %q: %s", e.Name, e.Reason)
}
