package course

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a course document on disk.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// SupportedMajor is the only course format major version the player reads.
const SupportedMajor = "v1"

var (
	// ErrInvalidCourse is wrapped by every validation failure.
	ErrInvalidCourse = errors.New("invalid course document")

	// ErrUnsupportedFormat is returned for unknown file types or format versions.
	ErrUnsupportedFormat = errors.New("unsupported course format")
)

//go:embed course.schema.json
var schemaDoc []byte

const schemaURL = "schema://course.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: file extension %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads, validates and decodes the course document at path.
func Load(path string) (Course, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Course{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Course{}, fmt.Errorf("read course: %w", err)
	}
	return Parse(data, format)
}

// Parse validates and decodes a course document. YAML input is normalized
// to JSON first so both formats go through the same schema.
func Parse(data []byte, format Format) (Course, error) {
	raw, err := normalize(data, format)
	if err != nil {
		return Course{}, err
	}

	if err := validateSchema(raw); err != nil {
		return Course{}, err
	}

	var c Course
	if err := json.Unmarshal(raw, &c); err != nil {
		return Course{}, fmt.Errorf("%w: decode: %v", ErrInvalidCourse, err)
	}

	if err := checkFormatVersion(c.FormatVersion); err != nil {
		return Course{}, err
	}
	if err := Validate(c); err != nil {
		return Course{}, err
	}
	return c, nil
}

func normalize(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: parse yaml: %v", ErrInvalidCourse, err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: convert yaml: %v", ErrInvalidCourse, err)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func validateSchema(raw []byte) error {
	schema, err := courseSchema()
	if err != nil {
		return fmt.Errorf("compile course schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: parse json: %v", ErrInvalidCourse, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCourse, err)
	}
	return nil
}

func courseSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

func checkFormatVersion(v string) error {
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: version %q is not semver", ErrUnsupportedFormat, v)
	}
	if semver.Major(v) != SupportedMajor {
		return fmt.Errorf("%w: version %s, want %s.x", ErrUnsupportedFormat, v, SupportedMajor)
	}
	return nil
}

// UnmarshalJSON fills in the authoring defaults for settings the document omits.
func (q *QuizSpec) UnmarshalJSON(data []byte) error {
	type plain QuizSpec
	p := plain{Config: DefaultQuizConfig()}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*q = QuizSpec(p)
	return nil
}
