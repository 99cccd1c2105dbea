// Package schemas validates JSON documents, such as the built-in fixtures,
// against named JSON Schemas.
package schemas

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// FieldError is one schema violation.
type FieldError struct {
	Field   string // dotted path, "(root)" for the document itself
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("document does not match %s: %s", ve.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError is returned when a schema cannot be read or compiled.
type SchemaLoadError struct {
	Name  string
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validator checks documents against the schemas stored in a file system.
// Each schema is compiled on first use and kept.
type Validator struct {
	fsys fs.FS

	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

// NewValidator returns a Validator reading schemas from fsys.
func NewValidator(fsys fs.FS) *Validator {
	return &Validator{fsys: fsys, compiled: make(map[string]*gojsonschema.Schema)}
}

func (v *Validator) schema(name string) (*gojsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[name]; ok {
		return s, nil
	}
	raw, err := fs.ReadFile(v.fsys, name)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	v.compiled[name] = s
	return s, nil
}

// Validate checks document against the schema called name. A document that
// breaks the schema yields a *ValidationError; malformed JSON is reported as
// a plain error.
func (v *Validator) Validate(name string, document []byte) error {
	s, err := v.schema(name)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
