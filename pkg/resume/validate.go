package resume

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/matzehuels/vitae/pkg/errors"
)

//go:embed schema.json
var schemaJSON []byte

var (
	validate     *validator.Validate
	validateOnce sync.Once

	schema     *gojsonschema.Schema
	schemaErr  error
	schemaOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate enforces the input contract on a decoded resume.
// Renderers assume it held and do not re-check it.
func Validate(r *Resume) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidResume, "resume is required")
	}
	if err := errors.ValidateName(r.Name); err != nil {
		return err
	}
	if err := structValidator().Struct(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidResume, err, "%s", describe(err))
	}
	return nil
}

// ValidateTailoring checks the overlay score range.
func ValidateTailoring(t *Tailoring) error {
	if t == nil {
		return nil
	}
	if err := structValidator().Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", describe(err))
	}
	return nil
}

// ValidateJSON checks a raw JSON document against the resume schema.
// Null lists are accepted; only the name is required.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "Invalid JSON in request body")
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(errors.ErrCodeInvalidResume, "schema validation failed: %s", strings.Join(msgs, "; "))
}

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
		if schemaErr != nil {
			schemaErr = errors.Wrap(errors.ErrCodeInternal, schemaErr, "compile resume schema")
		}
	})
	return schema, schemaErr
}

// describe flattens validator field errors into one line.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
