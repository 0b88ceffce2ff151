// Package schemas checks full document payloads against the embedded JSON
// Schemas before they reach the store.
package schemas

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	schemafiles "github.com/jonathan/job-tracker/schemas"
	"github.com/xeipuuv/gojsonschema"
)

const schemaSuffix = ".schema.json"

// FieldError is one schema violation. Field is a dotted path, or "(root)"
// for document-level problems such as a missing required property.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in one document.
type ValidationError struct {
	Collection string
	Errors     []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("invalid %s document: %s", e.Collection, strings.Join(parts, "; "))
}

// SchemaLoadError reports a schema file that could not be read or compiled.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("schema %s: %s: %v", e.Path, e.Message, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error { return e.Cause }

// Registry maps a collection name to its compiled schema.
type Registry struct {
	byCollection map[string]*gojsonschema.Schema
}

// LoadRegistry compiles the schemas embedded in the binary.
func LoadRegistry() (*Registry, error) {
	return loadFrom(schemafiles.FS)
}

func loadFrom(fsys fs.FS) (*Registry, error) {
	files, err := fs.Glob(fsys, "*"+schemaSuffix)
	if err != nil {
		return nil, &SchemaLoadError{Path: ".", Message: "list", Cause: err}
	}

	reg := &Registry{byCollection: make(map[string]*gojsonschema.Schema, len(files))}
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, &SchemaLoadError{Path: file, Message: "read", Cause: err}
		}
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, &SchemaLoadError{Path: file, Message: "compile", Cause: err}
		}
		reg.byCollection[strings.TrimSuffix(path.Base(file), schemaSuffix)] = compiled
	}
	return reg, nil
}

// Collections returns the names of the collections with a schema, sorted.
func (r *Registry) Collections() []string {
	names := make([]string, 0, len(r.byCollection))
	for name := range r.byCollection {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDocument checks data against the collection's schema. A nil
// registry and collections without a schema accept anything.
func (r *Registry) ValidateDocument(collection string, data map[string]any) error {
	if r == nil {
		return nil
	}
	compiled, ok := r.byCollection[collection]
	if !ok {
		return nil
	}

	result, err := compiled.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validate %s document: %w", collection, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Collection: collection}
	for _, d := range result.Errors() {
		field := d.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: d.Description()})
	}
	return verr
}
