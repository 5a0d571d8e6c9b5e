// Package schemas validates candidate, role and learning plan documents against embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Name identifies an embedded schema.
type Name string

const (
	Candidate    Name = "candidate"
	Role         Name = "role"
	LearningPlan Name = "learning_plan"
)

var (
	//go:embed candidate.schema.json
	candidateSchema string
	//go:embed role.schema.json
	roleSchema string
	//go:embed learning_plan.schema.json
	learningPlanSchema string

	compileOnce sync.Once
	compiled    map[Name]*gojsonschema.Schema
	compileErr  error
)

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Schema Name
	Errors []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s document does not match schema:", ve.Schema)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// Validate checks a decoded JSON document (maps, slices and scalars) against the named schema.
func Validate(name Name, document any) error {
	schema, err := lookup(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("validate %s document: %w", name, err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name}
	for _, re := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return ve
}

func lookup(name Name) (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		sources := map[Name]string{
			Candidate:    candidateSchema,
			Role:         roleSchema,
			LearningPlan: learningPlanSchema,
		}
		compiled = make(map[Name]*gojsonschema.Schema, len(sources))
		for n, src := range sources {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", n, err)
				return
			}
			compiled[n] = s
		}
	})

	if compileErr != nil {
		return nil, compileErr
	}

	schema, ok := compiled[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return schema, nil
}
